// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/alltopdf/internal/convert"
	"github.com/pdiddy/alltopdf/internal/history"
	"github.com/pdiddy/alltopdf/internal/logger"
	"github.com/pdiddy/alltopdf/internal/merge"
	"github.com/pdiddy/alltopdf/internal/office"
	"github.com/pdiddy/alltopdf/internal/raster"
	"github.com/pdiddy/alltopdf/internal/report"
	"github.com/pdiddy/alltopdf/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert every top-level input folder to one PDF (default command)",
	Long: `Run merges each top-level folder of the input directory into
<output>/<folder>.pdf and prints a trace of every entry followed by the total
number of items visited and the number of errors.

Per-file and per-folder errors do not change the exit status. The command
fails only when the input directory is missing, the output directory is
locked by another run, or the run is interrupted.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv := convert.New(documentService(ctx, cfg, log), convert.Options{
		TempDir:  cfg.TempDir,
		Template: cfg.Template,
		Image: raster.Options{
			MaxDim:  cfg.Image.MaxDim,
			Quality: cfg.Image.Quality,
		},
		RewriteSource: cfg.Image.RewriteSource,
		Timeout:       cfg.ConversionTimeout,
		KeepScratch:   cfg.KeepTemp,
	})
	if _, err := os.Stat(cfg.Template); err != nil {
		log.Warnf("template %s not found; .txt files will fail (create one with `mage init`)", cfg.Template)
	}

	rep := report.New()
	m := merge.New(conv, rep, log, merge.Options{Workers: cfg.Workers, MaxDepth: cfg.MaxDepth})
	if err := m.Run(ctx, cfg.InputDir, cfg.OutputDir); err != nil {
		log.Errorf("run stopped: %v", err)
		return err
	}

	if cfg.Report != "" {
		if err := rep.WriteYAML(cfg.Report); err != nil {
			log.Warnf("%v", err)
		} else {
			log.Infof("report written to %s", cfg.Report)
		}
	}
	if cfg.History {
		recordHistory(ctx, rep, cfg, log)
	}
	return nil
}

// documentService returns the configured LibreOffice backend, or nil when it
// is unavailable. Without a service only .doc, .docx and .txt files fail.
func documentService(ctx context.Context, cfg types.Config, log *logger.ConsoleLogger) convert.DocumentService {
	svc, err := office.New(ctx, cfg.Backend, cfg.ContainerImage)
	if err != nil {
		log.Warnf("document conversion unavailable: %v", err)
		return nil
	}
	log.Debugf("document conversion via %s", svc.Name())
	return svc
}

func recordHistory(ctx context.Context, rep *report.Report, cfg types.Config, log *logger.ConsoleLogger) {
	store, err := history.Open(cfg.OutputDir)
	if err != nil {
		log.Warnf("history: %v", err)
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, history.FromReport(rep, cfg.InputDir, cfg.OutputDir))
	if err != nil {
		log.Warnf("history: %v", err)
		return
	}
	log.Debugf("run %s recorded in %s", id, history.Path(cfg.OutputDir))
}

func init() {
	rootCmd.AddCommand(runCmd)
}
