package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// treeProperties returns the schema properties shared by every tool that
// builds a component tree, plus extra.
func treeProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"max_level": map[string]interface{}{
			"type":        "integer",
			"description": "Highest intensity level; luminance is quantised to 0..max_level. Defaults to the server configuration (255).",
			"minimum":     1,
		},
		"order": map[string]interface{}{
			"type":        "string",
			"description": "Sweep direction: 'descending' nests bright regions inside dark ones, 'ascending' the reverse.",
			"enum":        []string{"descending", "ascending"},
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert luminance before building the tree",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before quantisation. 0 disables blurring.",
			"minimum":     0,
		},
		"keep_unchanged": map[string]interface{}{
			"type":        "boolean",
			"description": "Emit a region for a component at every level even when it did not grow",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func indexProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Region index as reported by region_tree or region_at",
		"minimum":     0,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Supports PNG, JPEG, GIF, BMP, TIFF, WebP and TGA.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Tree Queries
		{
			Name:        "region_tree",
			Description: "Build the component tree of an image's intensity levels and list its regions. Each region is a connected set of pixels at or above its level; regions nest, with the whole image as the root. Returns tree statistics and the regions matching the optional filters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"min_area": map[string]interface{}{
						"type":        "integer",
						"description": "Only list regions with at least this many pixels",
						"minimum":     0,
					},
					"max_area": map[string]interface{}{
						"type":        "integer",
						"description": "Only list regions with at most this many pixels. 0 means no limit.",
						"minimum":     0,
					},
					"level": map[string]interface{}{
						"type":        "integer",
						"description": "Only list regions extracted at this level",
						"minimum":     0,
					},
					"leaves_only": map[string]interface{}{
						"type":        "boolean",
						"description": "Only list regions without children",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of regions to list. 0 means unlimited.",
						"default":     defaultRegionLimit,
						"minimum":     0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "region_at",
			Description: "Find the smallest region containing a pixel and list the regions enclosing it, innermost first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				}),
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "region_children",
			Description: "Describe a region and its direct children.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"index": indexProperty(),
				}),
				"required": []string{"path", "index"},
			},
		},

		// Rendering
		{
			Name:        "region_mask",
			Description: "Render a region's binary mask (white = owned pixel) over its bounding box as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"index": indexProperty(),
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer upscale factor with nearest-neighbour sampling. Default 1",
						"default":     1,
						"minimum":     1,
					},
				}),
				"required": []string{"path", "index"},
			},
		},
		{
			Name:        "region_crop",
			Description: "Crop the source image to a region's bounding box and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"index": indexProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of context to add around the bounding box",
						"default":     0,
						"minimum":     0,
					},
					"mask_outside": map[string]interface{}{
						"type":        "boolean",
						"description": "Make pixels not owned by the region transparent",
						"default":     false,
					},
				}),
				"required": []string{"path", "index"},
			},
		},
		{
			Name:        "region_color",
			Description: "Report the mean colour and the most frequent colours of the source pixels a region owns.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"index": indexProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of dominant colours to return",
						"default":     5,
						"minimum":     1,
					},
				}),
				"required": []string{"path", "index"},
			},
		},
		{
			Name:        "region_label_map",
			Description: "Colour every pixel by the smallest region containing it and return the image as base64-encoded PNG or WebP. The root is black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": treeProperties(map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output encoding",
						"enum":        []string{"png", "webp"},
						"default":     "png",
					},
					"depth": map[string]interface{}{
						"type":        "integer",
						"description": "Colour only regions up to this depth below the root; deeper regions take their ancestor's colour",
						"minimum":     0,
					},
					"saturation": map[string]interface{}{
						"type":        "number",
						"description": "Palette saturation (0-1)",
						"minimum":     0,
						"maximum":     1,
					},
					"lightness": map[string]interface{}{
						"type":        "number",
						"description": "Palette lightness (0-1)",
						"minimum":     0,
						"maximum":     1,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Cache Management
		{
			Name:        "cache_clear",
			Description: "Release cached images and trees. With a path, only that image and the trees built from it are released.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to release; omit to clear everything",
					},
				},
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
