//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

// dictionaryOff switches off Tesseract's word lists and the penalties that
// steer it toward dictionary words.
var dictionaryOff = [][2]string{
	{"load_system_dawg", "false"},
	{"load_freq_dawg", "false"},
	{"language_model_penalty_non_dict_word", "0"},
	{"language_model_penalty_non_freq_dict_word", "0"},
}

// Tesseract classifies glyphs with a local Tesseract install through gosseract.
//
// Each call creates and closes its own client, so one Tesseract value can be
// shared by every worker of ClassifyAll.
type Tesseract struct {
	// TessdataPrefix overrides the traineddata directory. Empty uses the
	// library default or TESSDATA_PREFIX.
	TessdataPrefix string
}

// NewTesseract returns a Tesseract classifier.
func NewTesseract(tessdataPrefix string) *Tesseract {
	return &Tesseract{TessdataPrefix: tessdataPrefix}
}

// Classify runs Tesseract on img and returns the normalised text.
func (t *Tesseract) Classify(ctx context.Context, img image.Image, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(opts.language()); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(opts.alphabet()); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}

	psm := gosseract.PSM_SINGLE_CHAR
	if opts.Mode == SingleLine {
		psm = gosseract.PSM_SINGLE_LINE
	}
	if err := client.SetPageSegMode(psm); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if opts.DisableDictionary {
		for _, kv := range dictionaryOff {
			if err := client.SetVariable(gosseract.SettableVariable(kv[0]), kv[1]); err != nil {
				return "", fmt.Errorf("failed to set %s: %w", kv[0], err)
			}
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return Normalize(text, opts.alphabet()), nil
}

// Info reports whether Tesseract can be used.
func (t *Tesseract) Info() OCRInfo {
	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return OCRInfo{Available: false, Backend: "gosseract", Error: err.Error()}
		}
	}

	return OCRInfo{
		Available:    true,
		Version:      client.Version(),
		Backend:      "gosseract",
		TessdataPath: t.TessdataPrefix,
	}
}
