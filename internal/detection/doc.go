// Package detection finds letters in a binarized puzzle photo and recovers
// the lattice they sit on.
//
// # Blobs
//
// Blobs walks a BinaryImage column by column and yields every maximal
// 8-connected ink region as a Blob, lazily and in discovery order. Each letter
// of a clean puzzle photo is usually one blob; stray specks can be dropped
// with FilterBlobs.
//
// # Lattice
//
// InferGeometry takes the blob centroids and recovers cell spacing, the
// offset of the first column and row, and the number of cells in each
// direction. It uses periodicity scores (cosine sums over coordinate
// histograms) rather than line detection, so it needs no visible grid lines
// and tolerates missing or extra blobs.
//
// # Algorithm Overview
//
//  1. Spacing: strongest period of the pairwise coordinate differences
//  2. Offset: phase of that period against the raw coordinates
//  3. Extent: window of cell indices with the best cosine density
//
// # Coordinate System
//
// Pixel coordinates follow the usual image convention: origin (0, 0) at the
// top-left, X rightward, Y downward. Cell indices use the same orientation.
package detection
