// Package failure defines the typed failures produced by the puzzle pipeline.
//
// Every stage that can abort a run returns an *Error carrying a Code. Callers
// test for a class of failure with errors.Is against the exported sentinels:
//
//	if errors.Is(err, failure.ErrGeometryInference) {
//	    // no lattice could be recovered from the blobs
//	}
package failure

import (
	"fmt"
	"time"
)

// Code identifies a class of pipeline failure.
type Code string

const (
	// Fatal: the blob cloud is empty, degenerate, or yields no spacing candidate.
	CodeGeometryInference Code = "GEOMETRY_INFERENCE_FAILED"
	// Fatal: inferred width or height below one cell.
	CodeEmptyGrid Code = "EMPTY_GRID"
	// Local: one cell could not be classified; stored as the empty sentinel.
	CodeGlyphClassificationMiss Code = "GLYPH_CLASSIFICATION_MISS"
	// Collaborator: the word list could not be loaded.
	CodeDictionaryUnavailable Code = "DICTIONARY_UNAVAILABLE"
	// Collaborator: the source image could not be opened or decoded.
	CodeImageUnavailable Code = "IMAGE_UNAVAILABLE"
)

// Error is a structured pipeline failure.
type Error struct {
	Code      Code
	Stage     string
	Message   string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code, so the sentinels
// below match any failure of their class.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ToMap flattens the failure for JSON responses.
func (e *Error) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"stage":      e.Stage,
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}
	return result
}

// Sentinels for errors.Is.
var (
	ErrGeometryInference       = &Error{Code: CodeGeometryInference}
	ErrEmptyGrid               = &Error{Code: CodeEmptyGrid}
	ErrGlyphClassificationMiss = &Error{Code: CodeGlyphClassificationMiss}
	ErrDictionaryUnavailable   = &Error{Code: CodeDictionaryUnavailable}
	ErrImageUnavailable        = &Error{Code: CodeImageUnavailable}
)

func NewGeometryInferenceError(reason string, points int) *Error {
	return &Error{
		Code:      CodeGeometryInference,
		Stage:     "grid",
		Message:   reason,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"points": points,
		},
	}
}

func NewEmptyGridError(width, height int) *Error {
	return &Error{
		Code:      CodeEmptyGrid,
		Stage:     "grid",
		Message:   fmt.Sprintf("inferred grid is %dx%d", width, height),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"width":  width,
			"height": height,
		},
	}
}

func NewGlyphClassificationMiss(index int, cause error) *Error {
	return &Error{
		Code:      CodeGlyphClassificationMiss,
		Stage:     "ocr",
		Message:   fmt.Sprintf("no confident result for request %d", index),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"index": index,
		},
		Cause: cause,
	}
}

func NewDictionaryUnavailableError(path string, cause error) *Error {
	return &Error{
		Code:      CodeDictionaryUnavailable,
		Stage:     "dictionary",
		Message:   fmt.Sprintf("cannot load word list %q", path),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

func NewImageUnavailableError(path string, cause error) *Error {
	return &Error{
		Code:      CodeImageUnavailable,
		Stage:     "load",
		Message:   fmt.Sprintf("cannot load image %q", path),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}
