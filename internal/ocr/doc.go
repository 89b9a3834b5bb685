// Package ocr classifies rendered puzzle glyphs.
//
// The pipeline talks to OCR only through the Classifier interface. Tesseract
// (via gosseract/v2) is the production implementation; tests plug in fakes
// with ClassifierFunc.
//
// # Prerequisites
//
// Tesseract and its English traineddata must be installed on the system and
// the binary built with cgo:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// Without cgo the package still builds, but Tesseract.Classify always returns
// ErrUnavailable.
//
// # Glyph Options
//
// Puzzle cells are classified with GlyphOptions: the whitelist is A-Z and the
// engine's dictionaries are switched off. A word-search grid is random letters
// by construction, so any pull toward real words corrupts the grid.
//
// # Concurrency
//
// ClassifyAll fans requests out over a bounded errgroup and writes each result
// into the slot of its request, so the output order always matches the input
// order. Failed requests come back as "" and are counted as misses.
//
// # Caching
//
// CachedClassifier keys results by an xxhash of the glyph PNG plus the
// options. MemoryStore serves a single process; RedisStore shares results
// between processes and survives restarts.
package ocr
