// Package wordsearch holds the letter grid and finds dictionary words in it.
//
// A Grid is built once from classified cells and never changes. Solve walks
// every straight line of the grid in all eight directions and reports each
// dictionary hit as an Occurrence carrying the exact cells it covers.
package wordsearch
