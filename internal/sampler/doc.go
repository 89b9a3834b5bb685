// Package sampler reads the letter in each cell of an inferred lattice.
//
// Every cell is matched to its nearest blob, the blob is re-rendered alone on
// a white canvas and the result is sent to an ocr.Classifier, either one
// image per cell or one strip per row.
package sampler
