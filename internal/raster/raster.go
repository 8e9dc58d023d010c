// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster normalizes source images before they are placed on a PDF
// page: oversized images are downscaled, every colour model is flattened to
// opaque RGB, and the result is re-encoded, normally as a high quality JPEG.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Options controls Normalize.
type Options struct {
	// MaxDim is the longest side allowed before downscaling.
	MaxDim int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// Result describes a normalized image.
type Result struct {
	Width   int
	Height  int
	Resized bool
}

// Normalize decodes src, applies the size ceiling and colour flattening and
// writes the result to dst in the format named by dst's extension. JPEG
// output uses opts.Quality. src and dst may be the same path.
func Normalize(src, dst string, opts Options) (Result, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("decoding %s: %w", src, err)
	}

	var res Result
	b := img.Bounds()
	if opts.MaxDim > 0 && (b.Dx() > opts.MaxDim || b.Dy() > opts.MaxDim) {
		img = imaging.Fit(img, opts.MaxDim, opts.MaxDim, imaging.Lanczos)
		res.Resized = true
	}

	rgb := Flatten(img)
	res.Width, res.Height = rgb.Bounds().Dx(), rgb.Bounds().Dy()

	if err := imaging.Save(rgb, dst, imaging.JPEGQuality(opts.Quality)); err != nil {
		return Result{}, fmt.Errorf("encoding %s: %w", dst, err)
	}
	return res, nil
}

// Flatten composites img over an opaque white background, which removes
// alpha and converts paletted, gray and CMYK sources to RGB.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
