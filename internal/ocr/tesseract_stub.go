//go:build !cgo

package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned by every Classify call in builds without cgo.
var ErrUnavailable = errors.New("tesseract OCR requires a cgo build")

// Tesseract is a placeholder in non-cgo builds; every call fails.
type Tesseract struct {
	TessdataPrefix string
}

// NewTesseract returns a Tesseract classifier.
func NewTesseract(tessdataPrefix string) *Tesseract {
	return &Tesseract{TessdataPrefix: tessdataPrefix}
}

// Classify always fails with ErrUnavailable.
func (t *Tesseract) Classify(ctx context.Context, img image.Image, opts Options) (string, error) {
	return "", ErrUnavailable
}

// Info reports that OCR is unavailable.
func (t *Tesseract) Info() OCRInfo {
	return OCRInfo{
		Available: false,
		Backend:   "none",
		Error:     ErrUnavailable.Error(),
	}
}
