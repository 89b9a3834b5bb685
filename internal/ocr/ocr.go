package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unicode"
)

// UppercaseLatin is the only alphabet puzzle glyphs are classified against.
const UppercaseLatin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLanguage is the Tesseract language used when Options.Language is empty.
const DefaultLanguage = "eng"

// Mode selects how the engine segments the submitted image.
type Mode int

const (
	// SingleChar treats the image as exactly one glyph.
	SingleChar Mode = iota
	// SingleLine treats the image as one row of glyphs.
	SingleLine
)

func (m Mode) String() string {
	switch m {
	case SingleChar:
		return "char"
	case SingleLine:
		return "line"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Options is the fixed configuration sent with every classification request.
type Options struct {
	// Alphabet restricts output characters. Empty means UppercaseLatin.
	Alphabet string
	// DisableDictionary turns off the engine's word lists and the penalties
	// for non-dictionary words, so recognition is per glyph and never nudged
	// toward real words.
	DisableDictionary bool
	Mode              Mode
	Language          string
}

// GlyphOptions returns the options used for puzzle cells: A-Z only and no
// dictionary bias.
func GlyphOptions(mode Mode, language string) Options {
	return Options{
		Alphabet:          UppercaseLatin,
		DisableDictionary: true,
		Mode:              mode,
		Language:          language,
	}
}

func (o Options) alphabet() string {
	if o.Alphabet == "" {
		return UppercaseLatin
	}
	return o.Alphabet
}

func (o Options) language() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

// Key is a stable string form of the options, used in cache keys.
func (o Options) Key() string {
	return fmt.Sprintf("%s|%t|%s|%s", o.alphabet(), o.DisableDictionary, o.Mode, o.language())
}

// OCRInfo describes the OCR backend.
type OCRInfo struct {
	Available    bool   `json:"available"`
	Version      string `json:"version,omitempty"`
	Error        string `json:"error,omitempty"`
	Backend      string `json:"backend"`
	TessdataPath string `json:"tessdata_path,omitempty"`
}

// Classifier recognises the characters in a rendered glyph or glyph strip.
//
// An empty result with a nil error means nothing in the alphabet was seen.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, img image.Image, opts Options) (string, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, img image.Image, opts Options) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, img image.Image, opts Options) (string, error) {
	return f(ctx, img, opts)
}

// Normalize upper-cases raw engine output and keeps only alphabet characters.
// Whitespace and anything outside the alphabet are dropped.
func Normalize(raw, alphabet string) string {
	if alphabet == "" {
		alphabet = UppercaseLatin
	}
	var b strings.Builder
	for _, r := range raw {
		r = unicode.ToUpper(r)
		if strings.ContainsRune(alphabet, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
