package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func padProperties(props map[string]interface{}) map[string]interface{} {
	props["pad_scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Crop padding as a fraction of the ring radius. Default 0.45",
		"default":     0.45,
	}
	props["min_pad"] = map[string]interface{}{
		"type":        "integer",
		"description": "Minimum crop padding in pixels. Default 8",
		"default":     8,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Detection
		{
			Name:        "ring_detect",
			Description: "Look for a single thin red ring in an image. Returns the circle (center and radius in pixels) when one is accepted, otherwise the reason it was rejected along with the best candidate's ring evidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the image with the detected ring drawn on it, as base64 PNG. Default false",
						"default":     false,
					},
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Decode the file again instead of using a cached copy. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ring_crop",
			Description: "Detect the red ring and return a square crop centered on it as base64 PNG. Returns found=false without an image when no ring is accepted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": padProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},

		// Batch
		{
			Name:        "ring_scan",
			Description: "Scan a folder of images, copy (or crop) every image containing a red ring into an output folder, and write matched.manifest with its MD5 digest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": padProperties(map[string]interface{}{
					"in_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder with input images (not searched recursively)",
					},
					"out_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder to write matched images and the manifest into",
					},
					"debug_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional folder for mask, overlay and crop previews",
					},
					"crop": map[string]interface{}{
						"type":        "boolean",
						"description": "Save a JPEG crop around the ring instead of copying the file. Default false",
						"default":     false,
					},
				}),
				"required": []string{"in_dir", "out_dir"},
			},
		},
		{
			Name:        "manifest_verify",
			Description: "Recompute the manifest of an output folder and compare its MD5 with the recorded digest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"out_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder holding matched.manifest",
					},
					"digest": map[string]interface{}{
						"type":        "string",
						"description": "Digest file to compare against. Default <out_dir>/matched.manifest.md5",
					},
				},
				"required": []string{"out_dir"},
			},
		},

		// Housekeeping
		{
			Name:        "cache_clear",
			Description: "Drop every decoded image the server is holding. Use after files have changed on disk.",
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
