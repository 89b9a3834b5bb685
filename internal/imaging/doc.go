// Package imaging holds the pixel-level pieces of the puzzle reader.
//
// It loads puzzle photos (honouring EXIF orientation), classifies pixels as
// ink or background, and renders clean glyph images for the OCR stage.
//
// # Coordinate System
//
// All coordinates are 0-based Point values:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles are half-open: Min is inclusive, Max is exclusive
//
// A BinaryImage is always indexed from (0,0), even when the source image has
// a non-zero Bounds().Min.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Binarizer, BinaryImage and the glyph
// helpers hold no shared state; a BinaryImage is read-only once built.
package imaging
