// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office converts word-processor documents to PDF with LibreOffice,
// either from a binary on PATH or inside a docker/podman container.
package office

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/alltopdf/pkg/types"
)

// Binaries tried, in order, for the local backend.
var sofficeBins = []string{"soffice", "libreoffice"}

// Soffice converts documents with a local LibreOffice installation.
type Soffice struct {
	bin  string
	exec executor
}

// NewSoffice locates a LibreOffice binary on PATH.
func NewSoffice() (*Soffice, error) {
	return newSoffice(defaultExec)
}

func newSoffice(exec executor) (*Soffice, error) {
	for _, bin := range sofficeBins {
		if path, err := exec.LookPath(bin); err == nil {
			return &Soffice{bin: path, exec: exec}, nil
		}
	}
	return nil, fmt.Errorf("no LibreOffice binary found on PATH (tried %s)", strings.Join(sofficeBins, ", "))
}

// Name returns the binary in use.
func (s *Soffice) Name() string { return s.bin }

// ToPDF converts src to a PDF at dst. Each call uses its own output
// directory and LibreOffice profile so concurrent calls do not collide.
func (s *Soffice) ToPDF(ctx context.Context, src, dst string) error {
	return convertVia(src, dst, func(outDir string) error {
		profile := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(outDir, "profile"))}
		args := []string{
			"--headless", "--norestore", "--nolockcheck",
			"-env:UserInstallation=" + profile.String(),
			"--convert-to", "pdf",
			"--outdir", outDir,
			src,
		}
		if out, err := s.exec.Run(ctx, s.bin, args...); err != nil {
			return fmt.Errorf("running %s: %w%s", s.bin, err, detail(out))
		}
		return nil
	})
}

// Container converts documents by running a LibreOffice image whose
// entrypoint is soffice.
type Container struct {
	runtime Runtime
	image   string
}

// NewContainer creates a converter that uses rt to run image. It verifies
// that the image exists locally before returning.
func NewContainer(ctx context.Context, rt Runtime, image string) (*Container, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("LibreOffice image not available in %s: %w", rt.Name(), err)
	}
	return &Container{runtime: rt, image: image}, nil
}

// Name returns the runtime and image in use.
func (c *Container) Name() string { return c.runtime.Name() + " " + c.image }

// ToPDF converts src to a PDF at dst inside a throwaway container.
func (c *Container) ToPDF(ctx context.Context, src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", src, err)
	}
	return convertVia(src, dst, func(outDir string) error {
		mounts := []Mount{
			{Host: filepath.Dir(absSrc), Container: "/in", ReadOnly: true},
			{Host: outDir, Container: "/out"},
		}
		args := []string{"--headless", "--convert-to", "pdf", "--outdir", "/out", "/in/" + filepath.Base(absSrc)}
		return c.runtime.Run(ctx, c.image, mounts, args)
	})
}

// convertVia runs fn against a fresh output directory next to dst, then
// moves the produced <stem>.pdf to dst. LibreOffice can exit successfully
// without writing anything, so a missing output is an error.
func convertVia(src, dst string, fn func(outDir string) error) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	dir, err := os.MkdirTemp(filepath.Dir(dst), ".office-*")
	if err != nil {
		return fmt.Errorf("creating conversion directory: %w", err)
	}
	defer os.RemoveAll(dir)
	outDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}

	if err := fn(outDir); err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	produced := filepath.Join(outDir, stem+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("converting %s produced no PDF", src)
	}
	if err := os.Rename(produced, dst); err != nil {
		return fmt.Errorf("moving %s to %s: %w", produced, dst, err)
	}
	return nil
}

// Service is implemented by Soffice and Container.
type Service interface {
	Name() string
	ToPDF(ctx context.Context, src, dst string) error
}

// New builds the service selected by backend.
func New(ctx context.Context, backend types.Backend, image string) (Service, error) {
	switch backend {
	case types.BackendSoffice, "":
		return NewSoffice()
	case types.BackendContainer:
		rt, err := DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewContainer(ctx, rt, image)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
