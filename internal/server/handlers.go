package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/wordsearch-mcp/internal/annotate"
	"github.com/ironsheep/wordsearch-mcp/internal/detection"
	"github.com/ironsheep/wordsearch-mcp/internal/failure"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
	"github.com/ironsheep/wordsearch-mcp/internal/ocr"
	"github.com/ironsheep/wordsearch-mcp/internal/pipeline"
	"github.com/ironsheep/wordsearch-mcp/internal/sampler"
	"github.com/ironsheep/wordsearch-mcp/internal/wordsearch"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "wordsearch_solve").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Pipeline failures carry their error code and details in the error data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", errorData(err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Puzzle Pipeline
	case "wordsearch_blobs":
		return s.handleBlobs(args)
	case "wordsearch_grid":
		return s.handleGrid(ctx, args)
	case "wordsearch_solve":
		return s.handleSolve(ctx, args)
	case "wordsearch_glyph":
		return s.handleGlyph(args)
	case "wordsearch_annotate":
		return s.handleAnnotate(ctx, args)

	// OCR
	case "ocr_info":
		return s.handleOCRInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// errorData flattens pipeline failures into a map and everything else into
// its message.
func errorData(err error) interface{} {
	var fe *failure.Error
	if errors.As(err, &fe) {
		return fe.ToMap()
	}
	return err.Error()
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	cropped, err := imaging.Crop(img, image.Rect(a.X1, a.Y1, a.X2, a.Y2).Add(b.Min))
	if err != nil {
		return nil, err
	}
	return imaging.Encode(cropped, a.Scale)
}

// === Puzzle Pipeline Handlers ===

// pipelineArgs are the arguments shared by the puzzle tools. Pointer fields
// distinguish "not given" from zero.
type pipelineArgs struct {
	Path          string `json:"path"`
	DarkLevel     *int   `json:"dark_level,omitempty"`
	MinBlobPixels *int   `json:"min_blob_pixels,omitempty"`
	BatchRows     *bool  `json:"batch_rows,omitempty"`
	MinWordLength *int   `json:"min_word_length,omitempty"`
}

// newRun loads the image and starts a pipeline run with the server
// configuration plus any per-call overrides.
func (s *Server) newRun(a pipelineArgs) (*pipeline.Run, error) {
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	opts := pipeline.OptionsFromConfig(s.cfg)
	if a.DarkLevel != nil {
		if *a.DarkLevel < 0 || *a.DarkLevel > imaging.MaxDarkLevel {
			return nil, fmt.Errorf("dark_level must be between 0 and %d, got %d", imaging.MaxDarkLevel, *a.DarkLevel)
		}
		opts.DarkLevel = *a.DarkLevel
	}
	if a.MinBlobPixels != nil {
		if *a.MinBlobPixels < 0 {
			return nil, fmt.Errorf("min_blob_pixels must not be negative, got %d", *a.MinBlobPixels)
		}
		opts.MinBlobPixels = *a.MinBlobPixels
	}
	if a.BatchRows != nil {
		opts.Sampler.BatchRows = *a.BatchRows
	}
	if a.MinWordLength != nil {
		if *a.MinWordLength < wordsearch.MinWordLength {
			return nil, fmt.Errorf("min_word_length must be at least %d, got %d", wordsearch.MinWordLength, *a.MinWordLength)
		}
		opts.Solve.MinLength = *a.MinWordLength
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRun(img, opts, s.log.With("path", a.Path)), nil
}

type blobInfo struct {
	Centroid detection.Vec   `json:"centroid"`
	Bounds   image.Rectangle `json:"bounds"`
	Pixels   int             `json:"pixels"`
}

type blobsResult struct {
	RunID     string     `json:"run_id"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	InkPixels int        `json:"ink_pixels"`
	BlobCount int        `json:"blob_count"`
	Truncated bool       `json:"truncated"`
	Blobs     []blobInfo `json:"blobs"`
}

type blobsArgs struct {
	pipelineArgs
	Limit int `json:"limit"`
}

func (s *Server) handleBlobs(args json.RawMessage) (interface{}, error) {
	var a blobsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit <= 0 {
		a.Limit = 500
	}
	run, err := s.newRun(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	bin := run.Binarize()
	blobs := run.Blobs()
	result := &blobsResult{
		RunID:     run.ID,
		Width:     bin.Width,
		Height:    bin.Height,
		InkPixels: bin.InkCount(),
		BlobCount: len(blobs),
		Truncated: len(blobs) > a.Limit,
		Blobs:     make([]blobInfo, 0, min(len(blobs), a.Limit)),
	}
	for _, b := range blobs[:min(len(blobs), a.Limit)] {
		result.Blobs = append(result.Blobs, blobInfo{
			Centroid: b.Centroid(),
			Bounds:   b.Bounds(),
			Pixels:   b.Size(),
		})
	}
	return result, nil
}

type gridResult struct {
	RunID    string             `json:"run_id"`
	Geometry detection.Geometry `json:"geometry"`
	Rows     []string           `json:"rows"`
	Missing  int                `json:"missing"`
	Stats    sampler.Stats      `json:"ocr"`
}

func (s *Server) readGrid(ctx context.Context, args json.RawMessage) (*pipeline.Run, *gridResult, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, nil, err
	}
	run, err := s.newRun(a)
	if err != nil {
		return nil, nil, err
	}
	grid, err := run.Grid(ctx, s.classifier)
	if err != nil {
		return nil, nil, err
	}
	geom, _ := run.Geometry()
	return run, &gridResult{
		RunID:    run.ID,
		Geometry: geom,
		Rows:     grid.Rows(),
		Missing:  grid.Missing(),
		Stats:    run.Stats(),
	}, nil
}

func (s *Server) handleGrid(ctx context.Context, args json.RawMessage) (interface{}, error) {
	_, result, err := s.readGrid(ctx, args)
	if err != nil {
		return nil, err
	}
	return result, nil
}

type solveResult struct {
	gridResult
	Count int                     `json:"count"`
	Words []wordsearch.Occurrence `json:"words"`
}

// dictionary returns the word list or the reason it is unavailable.
func (s *Server) dictionary() (wordsearch.Dictionary, error) {
	if s.dict != nil {
		return s.dict, nil
	}
	if s.dictErr != nil {
		return nil, s.dictErr
	}
	return nil, failure.NewDictionaryUnavailableError(s.cfg.DictionaryPath, errors.New("no dictionary loaded"))
}

func (s *Server) handleSolve(ctx context.Context, args json.RawMessage) (interface{}, error) {
	dict, err := s.dictionary()
	if err != nil {
		return nil, err
	}
	run, grid, err := s.readGrid(ctx, args)
	if err != nil {
		return nil, err
	}
	occs, err := run.Solve(ctx, s.classifier, dict)
	if err != nil {
		return nil, err
	}
	if occs == nil {
		occs = []wordsearch.Occurrence{}
	}
	return &solveResult{gridResult: *grid, Count: len(occs), Words: occs}, nil
}

type glyphArgs struct {
	pipelineArgs
	Column int     `json:"column"`
	Row    int     `json:"row"`
	Scale  float64 `json:"scale"`
}

type glyphResult struct {
	RunID  string                `json:"run_id"`
	Cell   imaging.Point         `json:"cell"`
	Center detection.Vec         `json:"center"`
	Blob   blobInfo              `json:"blob"`
	Image  *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleGlyph(args json.RawMessage) (interface{}, error) {
	var a glyphArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 4.0
	}
	run, err := s.newRun(a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	geom, err := run.Geometry()
	if err != nil {
		return nil, err
	}
	if a.Column < 0 || a.Column >= geom.Width || a.Row < 0 || a.Row >= geom.Height {
		return nil, fmt.Errorf("cell (%d,%d) outside the %dx%d grid", a.Column, a.Row, geom.Width, geom.Height)
	}

	cell := imaging.Pt(a.Column, a.Row)
	blobs := run.Blobs()
	b := blobs[sampler.Assign(geom, blobs)[a.Row*geom.Width+a.Column]]
	encoded, err := imaging.Encode(imaging.RenderGlyph(b.Pixels(), run.Options().Sampler.Margin), a.Scale)
	if err != nil {
		return nil, err
	}
	return &glyphResult{
		RunID:  run.ID,
		Cell:   cell,
		Center: geom.CellCenter(cell),
		Blob:   blobInfo{Centroid: b.Centroid(), Bounds: b.Bounds(), Pixels: b.Size()},
		Image:  encoded,
	}, nil
}

type annotateArgs struct {
	pipelineArgs
	Layer      string  `json:"layer"`
	OutputPath string  `json:"output_path"`
	Scale      float64 `json:"scale"`
}

type annotateResult struct {
	RunID   string                `json:"run_id"`
	Layer   string                `json:"layer"`
	SavedTo string                `json:"saved_to,omitempty"`
	Image   *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layer == "" {
		a.Layer = "words"
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	run, err := s.newRun(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	var out image.Image
	switch a.Layer {
	case "binary":
		out = annotate.Binary(run.Binarize())
	case "blobs":
		out = annotate.Centroids(run.Image, run.Blobs(), annotate.Style{})
	case "lattice":
		geom, err := run.Geometry()
		if err != nil {
			return nil, err
		}
		// Letters are a bonus here; the lattice alone is still useful.
		grid, err := run.Grid(ctx, s.classifier)
		if err != nil {
			s.log.Warn("drawing lattice without letters", "run_id", run.ID, "error", err)
		}
		out = annotate.Lattice(run.Image, geom, grid, annotate.Style{})
	case "words":
		dict, err := s.dictionary()
		if err != nil {
			return nil, err
		}
		occs, err := run.Solve(ctx, s.classifier, dict)
		if err != nil {
			return nil, err
		}
		geom, _ := run.Geometry()
		out = annotate.Words(run.Image, geom, occs, annotate.Style{})
	default:
		return nil, fmt.Errorf("unknown layer %q: want binary, blobs, lattice or words", a.Layer)
	}

	result := &annotateResult{RunID: run.ID, Layer: a.Layer}
	if a.OutputPath != "" {
		if err := annotate.Save(a.OutputPath, out); err != nil {
			return nil, err
		}
		result.SavedTo = a.OutputPath
	}
	result.Image, err = imaging.Encode(out, a.Scale)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// === OCR Handlers ===

func (s *Server) handleOCRInfo() (interface{}, error) {
	if s.ocrInfo == nil {
		return ocr.OCRInfo{Available: false, Backend: "none", Error: errNoClassifier.Error()}, nil
	}
	return s.ocrInfo(), nil
}
