package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/red-ring-finder/internal/batch"
	"github.com/ironsheep/red-ring-finder/internal/detection"
	"github.com/ironsheep/red-ring-finder/internal/imaging"
	"github.com/ironsheep/red-ring-finder/internal/manifest"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ring_detect", "ring_scan").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the detector, batch runner or manifest check
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Detection
	case "ring_detect":
		return s.handleRingDetect(args)
	case "ring_crop":
		return s.handleRingCrop(args)

	// Batch
	case "ring_scan":
		return s.handleRingScan(args)
	case "manifest_verify":
		return s.handleManifestVerify(args)

	// Housekeeping
	case "cache_clear":
		return s.handleCacheClear()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// padding resolves optional crop padding arguments against the defaults.
func padding(padScale *float64, minPad *int) (float64, int, error) {
	scale, pad := batch.DefaultPadScale, batch.DefaultMinPad
	if padScale != nil {
		scale = *padScale
	}
	if minPad != nil {
		pad = *minPad
	}
	if scale < 0 || pad < 0 {
		return 0, 0, fmt.Errorf("padding must not be negative (pad_scale=%g, min_pad=%d)", scale, pad)
	}
	return scale, pad, nil
}

// === Detection Handlers ===

type ringDetectArgs struct {
	Path    string `json:"path"`
	Overlay bool   `json:"overlay"`
	Reload  bool   `json:"reload"`
}

// ringDetectResult is the detector outcome plus presentation extras.
type ringDetectResult struct {
	*detection.Result

	// Label is the caption drawn on the overlay, empty when nothing was found.
	Label string `json:"label,omitempty"`

	// Overlay is the annotated image, present only when requested.
	Overlay *imaging.CropResult `json:"overlay,omitempty"`
}

func (s *Server) handleRingDetect(args json.RawMessage) (interface{}, error) {
	var a ringDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res := s.detector.Detect(img, a.Overlay)
	out := &ringDetectResult{Result: res}
	if res.Found {
		out.Label = detection.Label(res)
	}
	if a.Overlay {
		b := res.Overlay.Bounds()
		full := imaging.Region{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y}
		if out.Overlay, err = imaging.EncodeCrop(res.Overlay, full); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type ringCropArgs struct {
	Path     string   `json:"path"`
	PadScale *float64 `json:"pad_scale"`
	MinPad   *int     `json:"min_pad"`
}

type ringCropResult struct {
	Found  bool                `json:"found"`
	Reason detection.Reason    `json:"reason"`
	Circle *detection.Circle   `json:"circle,omitempty"`
	Crop   *imaging.CropResult `json:"crop,omitempty"`
}

func (s *Server) handleRingCrop(args json.RawMessage) (interface{}, error) {
	var a ringCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	scale, pad, err := padding(a.PadScale, a.MinPad)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res := s.detector.Detect(img, false)
	out := &ringCropResult{Found: res.Found, Reason: res.Reason, Circle: res.Circle}
	if !res.Found {
		return out, nil
	}

	c := res.Circle
	region := imaging.CropAroundCircle(img.Bounds(), c.X, c.Y, c.R, scale, pad)
	if out.Crop, err = imaging.EncodeCrop(img, region); err != nil {
		return nil, err
	}
	return out, nil
}

// === Batch Handlers ===

type ringScanArgs struct {
	InDir    string   `json:"in_dir"`
	OutDir   string   `json:"out_dir"`
	DebugDir string   `json:"debug_dir"`
	Crop     bool     `json:"crop"`
	PadScale *float64 `json:"pad_scale"`
	MinPad   *int     `json:"min_pad"`
}

func (s *Server) handleRingScan(args json.RawMessage) (interface{}, error) {
	var a ringScanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.InDir == "" || a.OutDir == "" {
		return nil, errors.New("in_dir and out_dir are required")
	}
	scale, pad, err := padding(a.PadScale, a.MinPad)
	if err != nil {
		return nil, err
	}

	opts := batch.Options{
		InDir:    a.InDir,
		OutDir:   a.OutDir,
		DebugDir: a.DebugDir,
		Crop:     a.Crop,
		PadScale: scale,
		MinPad:   pad,
	}
	summary, err := batch.NewRunner(opts, s.detector, s.log).Run(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("scan stopped with %d matches so far: %w", summary.Matched, err)
	}
	return summary, nil
}

type manifestVerifyArgs struct {
	OutDir string `json:"out_dir"`
	Digest string `json:"digest"`
}

type manifestVerifyResult struct {
	Match    bool   `json:"match"`
	Computed string `json:"computed"`
	Entries  int    `json:"entries"`
	Message  string `json:"message,omitempty"`
}

func (s *Server) handleManifestVerify(args json.RawMessage) (interface{}, error) {
	var a manifestVerifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutDir == "" {
		return nil, errors.New("out_dir is required")
	}

	m, err := manifest.Verify(a.OutDir, a.Digest)
	switch {
	case errors.Is(err, manifest.ErrDigestMismatch):
		return &manifestVerifyResult{Computed: m.Digest, Entries: len(m.Entries), Message: err.Error()}, nil
	case err != nil:
		return nil, err
	}
	return &manifestVerifyResult{Match: true, Computed: m.Digest, Entries: len(m.Entries)}, nil
}

// === Housekeeping Handlers ===

func (s *Server) handleCacheClear() (interface{}, error) {
	n := s.cache.Len()
	s.cache.Clear()
	return map[string]int{"evicted": n}, nil
}
