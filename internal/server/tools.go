package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the image path argument shared by every image tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the puzzle photo",
	}
}

// pipelineProperties are the per-call overrides accepted by the puzzle tools.
// Omitted values fall back to the server configuration.
func pipelineProperties(withOCR, withSolver bool) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"dark_level": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"maximum":     768,
			"description": "A pixel is ink when R+G+B is below this value. Default from WORDSEARCH_DARK_LEVEL (384)",
		},
		"min_blob_pixels": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"description": "Ignore blobs smaller than this many pixels (specks, noise). 0 keeps everything",
		},
	}
	if withOCR {
		props["batch_rows"] = map[string]interface{}{
			"type":        "boolean",
			"description": "Classify one strip per grid row instead of one image per cell. Faster, slightly less accurate",
		}
	}
	if withSolver {
		props["min_word_length"] = map[string]interface{}{
			"type":        "integer",
			"minimum":     2,
			"description": "Shortest word to report. Default 2",
		}
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent puzzle tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to inspect part of a puzzle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Puzzle Pipeline
		{
			Name:        "wordsearch_blobs",
			Description: "Binarize the photo and list its connected ink regions (blobs) with centroid, bounding box and pixel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := pipelineProperties(false, false)
					props["limit"] = map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of blobs to list. Counts are always complete. Default 500",
						"default":     500,
					}
					return props
				}(),
				"required": []string{"path"},
			},
		},
		{
			Name:        "wordsearch_grid",
			Description: "Infer the puzzle's cell lattice and read every cell with OCR. Returns the geometry and the letter grid, one string per row with '?' for unreadable cells.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(true, false),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "wordsearch_solve",
			Description: "Read the puzzle and report every dictionary word found along a row, column or diagonal, in either direction, with the exact cells it covers.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(true, true),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "wordsearch_glyph",
			Description: "Return the isolated glyph image sent to OCR for one cell. Useful to see why a cell was misread.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := pipelineProperties(false, false)
					props["column"] = map[string]interface{}{
						"type":        "integer",
						"description": "Cell column (0-based, from left)",
					}
					props["row"] = map[string]interface{}{
						"type":        "integer",
						"description": "Cell row (0-based, from top)",
					}
					props["scale"] = map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 4.0",
						"default":     4.0,
					}
					return props
				}(),
				"required": []string{"path", "column", "row"},
			},
		},
		{
			Name:        "wordsearch_annotate",
			Description: "Draw a pipeline stage over the photo: the ink mask, blob centroids, the lattice with recognised letters, or strokes over every word found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := pipelineProperties(true, true)
					props["layer"] = map[string]interface{}{
						"type":        "string",
						"enum":        []string{"binary", "blobs", "lattice", "words"},
						"description": "What to draw. Default words",
						"default":     "words",
					}
					props["output_path"] = map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also save the annotation as PNG",
					}
					props["scale"] = map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					}
					return props
				}(),
				"required": []string{"path"},
			},
		},

		// OCR
		{
			Name:        "ocr_info",
			Description: "Report whether the OCR engine is available, its version and tessdata location.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
