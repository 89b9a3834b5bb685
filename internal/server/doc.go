// Package server implements the MCP (Model Context Protocol) server for
// word-search puzzle photos.
//
// This package provides a JSON-RPC 2.0 server that exposes the puzzle
// pipeline (binarize, find blobs, infer the lattice, read the letters, solve)
// through the MCP protocol, one tool per stage so a client can inspect every
// intermediate result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_crop: Extract rectangular region
//
// Puzzle Pipeline:
//   - wordsearch_blobs: Connected ink regions
//   - wordsearch_grid: Lattice geometry and letter grid
//   - wordsearch_solve: Dictionary words found in the grid
//   - wordsearch_glyph: The glyph image sent to OCR for one cell
//   - wordsearch_annotate: Draw a pipeline stage over the photo
//
// OCR:
//   - ocr_info: Engine availability
//
// The pipeline tools accept dark_level, min_blob_pixels, batch_rows and
// min_word_length to override the server configuration for one call.
//
// # Image Caching
//
// Decoded photos are cached by path for the lifetime of the server. Every
// tool call starts a fresh pipeline run with its own run_id; stages are
// computed lazily and shared within that call only.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: the failure map (error_code, stage, message, details) for
//     pipeline failures, otherwise the Go error string
//
// # Usage
//
//	srv := server.New(server.Options{
//	    Config:     cfg,
//	    Classifier: classifier,
//	    Dictionary: dict,
//	    Log:        logger,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
