// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Backend identifies the document-to-PDF conversion service.
type Backend string

const (
	// BackendSoffice runs a LibreOffice binary found on PATH.
	BackendSoffice Backend = "soffice"
	// BackendContainer runs LibreOffice inside a docker or podman container.
	BackendContainer Backend = "container"
)

// ImageConfig holds settings for raster normalization.
type ImageConfig struct {
	// MaxDim is the longest allowed side in pixels before downscaling (default 8000).
	MaxDim int `json:"max_dim" yaml:"max_dim" mapstructure:"max_dim"`

	// Quality is the JPEG re-encode quality, 1-100 (default 95).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`

	// RewriteSource overwrites the source image with the normalized encoding
	// instead of writing a scratch copy.
	RewriteSource bool `json:"rewrite_source" yaml:"rewrite_source" mapstructure:"rewrite_source"`
}

// Config holds every setting for one run.
type Config struct {
	// InputDir contains one subfolder per output PDF.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives <folder>.pdf for each top-level folder.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// TempDir holds scratch files produced by intermediate conversions.
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`

	// KeepTemp leaves scratch files in TempDir after the run.
	KeepTemp bool `json:"keep_temp" yaml:"keep_temp" mapstructure:"keep_temp"`

	// Template is the .docx used to lay out plain-text files.
	Template string `json:"template" yaml:"template" mapstructure:"template"`

	// Backend selects the document conversion service: soffice or container.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// ContainerImage is the LibreOffice image used by the container backend.
	ContainerImage string `json:"container_image" yaml:"container_image" mapstructure:"container_image"`

	Image ImageConfig `json:"image" yaml:"image" mapstructure:"image"`

	// Workers bounds sibling entries processed concurrently in one directory (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// MaxDepth bounds directory recursion below a top-level folder (default 64).
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`

	// ConversionTimeout limits each external conversion call. Zero means no limit.
	ConversionTimeout time.Duration `json:"conversion_timeout" yaml:"conversion_timeout" mapstructure:"conversion_timeout"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	// Report, when set, is the path of a YAML file receiving the run report.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`

	// History enables the SQLite run ledger under OutputDir.
	History bool `json:"history" yaml:"history" mapstructure:"history"`
}

// DefaultConfig returns the settings used when nothing is configured. The
// folder names follow the layout created by `mage init`.
func DefaultConfig() Config {
	return Config{
		InputDir:       "1 Folders",
		OutputDir:      "3 Output",
		TempDir:        "2 Temp",
		Template:       "template.docx",
		Backend:        BackendSoffice,
		ContainerImage: "libreoffice:latest",
		Image: ImageConfig{
			MaxDim:  8000,
			Quality: 95,
		},
		Workers:  1,
		MaxDepth: 64,
		LogLevel: "info",
		History:  true,
	}
}

// Validate checks the configuration and fills zero numeric fields with defaults.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	switch c.Backend {
	case BackendSoffice, BackendContainer:
	case "":
		c.Backend = BackendSoffice
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSoffice, BackendContainer)
	}

	def := DefaultConfig()
	if c.TempDir == "" {
		c.TempDir = def.TempDir
	}
	if c.Image.MaxDim <= 0 {
		c.Image.MaxDim = def.Image.MaxDim
	}
	switch {
	case c.Image.Quality == 0:
		c.Image.Quality = def.Image.Quality
	case c.Image.Quality < 0 || c.Image.Quality > 100:
		return fmt.Errorf("image quality must be between 1 and 100: %d", c.Image.Quality)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.ConversionTimeout < 0 {
		return fmt.Errorf("conversion timeout must not be negative: %s", c.ConversionTimeout)
	}
	return nil
}
