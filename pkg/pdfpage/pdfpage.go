// Package pdfpage holds the A4 page geometry used when placing a raster image
// on a PDF page, plus a page counter for produced documents.
package pdfpage

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ledongthuc/pdf"
)

// A4 dimensions in millimetres.
const (
	WidthMM  = 210.0
	HeightMM = 297.0
)

// A4 in inches, as the print API expects.
const (
	WidthIn  = 8.27
	HeightIn = 11.69
)

// Placement positions an image on the page, in millimetres from the top-left.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Scale is millimetres per source pixel.
	Scale float64 `json:"scale"`
}

// Fit scales a w x h pixel image uniformly so it fits on one A4 page,
// centred horizontally and anchored to the top. Content taller than the page
// is shrunk, never split.
func Fit(w, h int) (Placement, error) {
	if w <= 0 || h <= 0 {
		return Placement{}, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	scale := math.Min(WidthMM/float64(w), HeightMM/float64(h))
	width := float64(w) * scale
	return Placement{
		X:      (WidthMM - width) / 2,
		Y:      0,
		Width:  width,
		Height: float64(h) * scale,
		Scale:  scale,
	}, nil
}

// CountPages parses a PDF and returns its page count.
func CountPages(b []byte) (n int, err error) {
	// the parser panics on some malformed input
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return r.NumPage(), nil
}

// VerifySinglePage checks the PDF signature and that exactly one page was
// produced.
func VerifySinglePage(b []byte) error {
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		return fmt.Errorf("invalid PDF output (len=%d)", len(b))
	}
	n, err := CountPages(b)
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected a single page, got %d", n)
	}
	return nil
}
