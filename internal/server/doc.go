// Package server implements the MCP (Model Context Protocol) server exposing
// component tree analysis of images.
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
//
// Tree Queries:
//   - region_tree: Build the tree, report statistics and list regions
//   - region_at: Smallest region containing a pixel, with its ancestors
//   - region_children: A region and its direct children
//
// Rendering:
//   - region_mask: Binary mask of a region
//   - region_crop: Source image cropped to a region
//   - region_color: Mean and dominant colours of a region's pixels
//   - region_label_map: Colour map of the label raster
//
// Cache Management:
//   - cache_clear: Release cached images and trees
//
// Every tree tool accepts the build settings max_level, order, invert,
// blur_radius and keep_unchanged; unset settings come from the server
// configuration.
//
// # Caching
//
// Decoded images are cached by path. Built trees are cached by path and
// build settings, so repeated queries against the same image reuse one
// tree. Tree caching can be disabled in the configuration.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.LoadConfig(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
