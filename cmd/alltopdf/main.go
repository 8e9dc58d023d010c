// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the alltopdf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/alltopdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "alltopdf",
	Short: "Merge folders of images, documents, text and PDFs into one PDF per folder",
	Long: `alltopdf walks every top-level folder of the input directory and writes
one PDF per folder to the output directory. Files are taken in natural order
(img2 before img10) and subfolders are merged in place, depth first.

Images become one page each, PDFs are imported verbatim, .doc/.docx files go
through LibreOffice, and .txt files are laid out with a .docx template first.
A file that cannot be converted is reported and skipped; the run continues.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	def := types.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./alltopdf.yaml or ~/.config/alltopdf/alltopdf.yaml)")
	pf.String("input", def.InputDir, "directory holding one subfolder per output PDF")
	pf.String("output", def.OutputDir, "directory receiving <folder>.pdf")
	pf.String("temp", def.TempDir, "directory for scratch files")
	pf.Bool("keep-temp", def.KeepTemp, "leave scratch files in the temp directory")
	pf.String("template", def.Template, ".docx template used for .txt files")
	pf.String("backend", string(def.Backend), "document conversion backend: soffice or container")
	pf.String("container-image", def.ContainerImage, "LibreOffice image for the container backend")
	pf.Int("max-image-dim", def.Image.MaxDim, "longest image side in pixels before downscaling")
	pf.Int("jpeg-quality", def.Image.Quality, "JPEG quality for re-encoded images (1-100)")
	pf.Bool("rewrite-images", def.Image.RewriteSource, "re-encode images in place instead of a scratch copy")
	pf.Int("workers", def.Workers, "sibling entries converted concurrently")
	pf.Int("max-depth", def.MaxDepth, "deepest subfolder level merged below a top-level folder")
	pf.Duration("timeout", def.ConversionTimeout, "limit for each LibreOffice call (0 = none)")
	pf.String("log-level", def.LogLevel, "trace, debug, info, warn or error")
	pf.String("report", def.Report, "write the run report as YAML to this file")
	pf.Bool("history", def.History, "record the run in the output directory's history database")

	for key, flag := range map[string]string{
		"input_dir":            "input",
		"output_dir":           "output",
		"temp_dir":             "temp",
		"keep_temp":            "keep-temp",
		"template":             "template",
		"backend":              "backend",
		"container_image":      "container-image",
		"image.max_dim":        "max-image-dim",
		"image.quality":        "jpeg-quality",
		"image.rewrite_source": "rewrite-images",
		"workers":              "workers",
		"max_depth":            "max-depth",
		"conversion_timeout":   "timeout",
		"log_level":            "log-level",
		"report":               "report",
		"history":              "history",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("alltopdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "alltopdf"))
		}
	}

	viper.SetEnvPrefix("ALLTOPDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges flags, environment and config file over the defaults.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
