package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
	"github.com/ironsheep/region-tree-mcp/internal/detection"
	"github.com/ironsheep/region-tree-mcp/internal/imaging"
)

// defaultRegionLimit caps region_tree listings when the client sets no limit.
const defaultRegionLimit = 100

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "region_tree").
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

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed after %v: %v", params.Name, time.Since(start), err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.debugf("tool %s finished in %v", params.Name, time.Since(start))

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Tree Queries
	case "region_tree":
		return s.handleRegionTree(args)
	case "region_at":
		return s.handleRegionAt(args)
	case "region_children":
		return s.handleRegionChildren(args)

	// Rendering
	case "region_mask":
		return s.handleRegionMask(args)
	case "region_crop":
		return s.handleRegionCrop(args)
	case "region_color":
		return s.handleRegionColor(args)
	case "region_label_map":
		return s.handleRegionLabelMap(args)

	case "cache_clear":
		return s.handleCacheClear(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Tree Construction ===

// treeArgs are the build settings shared by every tool that needs a tree.
// Unset fields fall back to the server configuration.
type treeArgs struct {
	Path          string   `json:"path"`
	MaxLevel      *int     `json:"max_level"`
	Order         string   `json:"order"`
	Invert        *bool    `json:"invert"`
	BlurRadius    *float64 `json:"blur_radius"`
	KeepUnchanged *bool    `json:"keep_unchanged"`
}

var errPathRequired = errors.New("path is required")

// settings resolves a against the configuration.
func (s *Server) settings(a treeArgs) (treeKey, componenttree.Options, error) {
	if a.Path == "" {
		return treeKey{}, componenttree.Options{}, errPathRequired
	}

	opts := s.cfg.TreeOptions()
	raster := s.cfg.RasterOptions()
	if a.MaxLevel != nil {
		opts.MaxLevel = *a.MaxLevel
		raster.MaxLevel = *a.MaxLevel
	}
	if a.Order != "" {
		order, err := componenttree.ParseOrder(a.Order)
		if err != nil {
			return treeKey{}, componenttree.Options{}, err
		}
		opts.Order = order
	}
	if a.Invert != nil {
		raster.Invert = *a.Invert
	}
	if a.BlurRadius != nil {
		raster.BlurRadius = *a.BlurRadius
	}
	if a.KeepUnchanged != nil {
		opts.KeepUnchanged = *a.KeepUnchanged
	}

	key := treeKey{
		path:   a.Path,
		raster: raster,
		order:  opts.Order,
		sorted: opts.SortByTopRow,
		keep:   opts.KeepUnchanged,
	}
	return key, opts, nil
}

// loadTree returns the image at a.Path and its component tree, building and
// caching the tree on first use. cached reports a cache hit.
func (s *Server) loadTree(a treeArgs) (tree *componenttree.Tree, img image.Image, cached bool, err error) {
	key, opts, err := s.settings(a)
	if err != nil {
		return nil, nil, false, err
	}

	img, err = s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, false, err
	}

	if s.cfg.Server.CacheTrees {
		if t, ok := s.trees.get(key); ok {
			return t, img, true, nil
		}
	}

	start := time.Now()
	raster, err := imaging.ToRaster(img, key.raster)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to convert image: %w", err)
	}
	tree, err = componenttree.Build(raster, opts)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to build tree: %w", err)
	}
	s.debugf("built %d regions for %s (%dx%d, max level %d) in %v",
		tree.Len(), a.Path, tree.Width(), tree.Height(), opts.MaxLevel, time.Since(start))

	if s.cfg.Server.CacheTrees {
		s.trees.put(key, tree)
	}
	return tree, img, false, nil
}

// regionByIndex looks up a region, reporting out-of-range indices as errors.
func regionByIndex(tree *componenttree.Tree, index int) (*componenttree.Region, error) {
	if index < 0 || index >= tree.Len() {
		return nil, fmt.Errorf("region index %d outside [0, %d)", index, tree.Len())
	}
	return tree.Region(index), nil
}

// === Basic Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Tree Queries ===

type regionTreeArgs struct {
	treeArgs
	MinArea    int  `json:"min_area"`
	MaxArea    int  `json:"max_area"`
	Level      *int `json:"level"`
	LeavesOnly bool `json:"leaves_only"`
	Limit      *int `json:"limit"`
}

// RegionTreeResult summarises a built tree and lists the regions matching
// the request's filter.
type RegionTreeResult struct {
	Width       int                       `json:"width"`
	Height      int                       `json:"height"`
	MaxLevel    int                       `json:"max_level"`
	Order       string                    `json:"order"`
	RegionCount int                       `json:"region_count"`
	MaxDepth    int                       `json:"max_depth"`
	Cached      bool                      `json:"cached"`
	Root        detection.RegionSummary   `json:"root"`
	Levels      []detection.LevelCount    `json:"levels"`
	AreaStats   detection.AreaStatistics  `json:"area_stats"`
	Matched     int                       `json:"matched"`
	Truncated   bool                      `json:"truncated"`
	Regions     []detection.RegionSummary `json:"regions"`
}

func (s *Server) handleRegionTree(args json.RawMessage) (interface{}, error) {
	var a regionTreeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	limit := defaultRegionLimit
	if a.Limit != nil {
		limit = *a.Limit
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit %d must not be negative", limit)
	}

	tree, _, cached, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}

	filter := detection.Filter{
		MinArea:    a.MinArea,
		MaxArea:    a.MaxArea,
		LeavesOnly: a.LeavesOnly,
	}
	if a.Level != nil {
		filter.Level = *a.Level
		filter.HasLevel = true
	}
	matched, err := detection.Summarize(tree, filter)
	if err != nil {
		return nil, err
	}

	root := detection.Summary(tree, tree.Root().Index())
	result := &RegionTreeResult{
		Width:       tree.Width(),
		Height:      tree.Height(),
		MaxLevel:    tree.MaxLevel(),
		Order:       tree.Order().String(),
		RegionCount: tree.Len(),
		MaxDepth:    detection.MaxDepth(tree),
		Cached:      cached,
		Root:        root,
		Levels:      detection.LevelCounts(tree),
		AreaStats:   detection.SummaryStats(matched),
		Matched:     len(matched),
		Regions:     matched,
	}
	if limit > 0 && len(matched) > limit {
		result.Regions = matched[:limit]
		result.Truncated = true
	}
	return result, nil
}

type regionAtArgs struct {
	treeArgs
	X int `json:"x"`
	Y int `json:"y"`
}

// RegionAtResult is the smallest region containing a pixel and the chain
// of regions enclosing it, innermost first.
type RegionAtResult struct {
	X         int                       `json:"x"`
	Y         int                       `json:"y"`
	Region    detection.RegionSummary   `json:"region"`
	Ancestors []detection.RegionSummary `json:"ancestors"`
}

func (s *Server) handleRegionAt(args json.RawMessage) (interface{}, error) {
	var a regionAtArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tree, _, _, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}
	if a.X < 0 || a.Y < 0 || a.X >= tree.Width() || a.Y >= tree.Height() {
		return nil, fmt.Errorf("point (%d,%d) outside image bounds (%dx%d)", a.X, a.Y, tree.Width(), tree.Height())
	}

	label := tree.LabelAt(a.X, a.Y)
	region := detection.Summary(tree, label)
	result := &RegionAtResult{
		X:         a.X,
		Y:         a.Y,
		Region:    region,
		Ancestors: []detection.RegionSummary{},
	}
	for _, i := range tree.Ancestors(label) {
		anc := detection.Summary(tree, i)
		result.Ancestors = append(result.Ancestors, anc)
	}
	return result, nil
}

type regionIndexArgs struct {
	treeArgs
	Index int `json:"index"`
}

// RegionChildrenResult is a region and its direct children.
type RegionChildrenResult struct {
	Region   detection.RegionSummary   `json:"region"`
	Children []detection.RegionSummary `json:"children"`
}

func (s *Server) handleRegionChildren(args json.RawMessage) (interface{}, error) {
	var a regionIndexArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tree, _, _, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}
	region, err := regionByIndex(tree, a.Index)
	if err != nil {
		return nil, err
	}

	summary := detection.Summary(tree, a.Index)
	result := &RegionChildrenResult{
		Region:   summary,
		Children: []detection.RegionSummary{},
	}
	for _, c := range region.Children() {
		child := detection.Summary(tree, c)
		result.Children = append(result.Children, child)
	}
	return result, nil
}

// === Rendering ===

// RegionImageResult is an encoded rendering of one region.
type RegionImageResult struct {
	Region detection.RegionSummary `json:"region"`
	*imaging.ImageResult
}

type regionMaskArgs struct {
	treeArgs
	Index int `json:"index"`
	Scale int `json:"scale"`
}

func (s *Server) handleRegionMask(args json.RawMessage) (interface{}, error) {
	var a regionMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	tree, _, _, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}
	region, err := regionByIndex(tree, a.Index)
	if err != nil {
		return nil, err
	}

	img, err := imaging.RenderMask(region, a.Scale)
	if err != nil {
		return nil, err
	}
	summary := detection.Summary(tree, a.Index)
	return &RegionImageResult{Region: summary, ImageResult: img}, nil
}

type regionCropArgs struct {
	treeArgs
	Index       int     `json:"index"`
	Scale       float64 `json:"scale"`
	Padding     int     `json:"padding"`
	MaskOutside bool    `json:"mask_outside"`
}

func (s *Server) handleRegionCrop(args json.RawMessage) (interface{}, error) {
	var a regionCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	tree, src, _, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}
	region, err := regionByIndex(tree, a.Index)
	if err != nil {
		return nil, err
	}

	img, err := imaging.CropRegion(src, region, imaging.CropOptions{
		Scale:       a.Scale,
		Padding:     a.Padding,
		MaskOutside: a.MaskOutside,
	})
	if err != nil {
		return nil, err
	}
	summary := detection.Summary(tree, a.Index)
	return &RegionImageResult{Region: summary, ImageResult: img}, nil
}

type regionColorArgs struct {
	treeArgs
	Index int `json:"index"`
	Count int `json:"count"`
}

// RegionColorResult pairs a region summary with the colors of its pixels.
type RegionColorResult struct {
	Region detection.RegionSummary `json:"region"`
	*imaging.RegionColorResult
}

func (s *Server) handleRegionColor(args json.RawMessage) (interface{}, error) {
	var a regionColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	tree, src, _, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}
	region, err := regionByIndex(tree, a.Index)
	if err != nil {
		return nil, err
	}

	colors, err := imaging.RegionColors(src, region, a.Count)
	if err != nil {
		return nil, err
	}
	summary := detection.Summary(tree, a.Index)
	return &RegionColorResult{Region: summary, RegionColorResult: colors}, nil
}

type regionLabelMapArgs struct {
	treeArgs
	Format     string   `json:"format"`
	Depth      *int     `json:"depth"`
	Saturation *float64 `json:"saturation"`
	Lightness  *float64 `json:"lightness"`
}

// LabelMapResult is the colour rendering of a tree's label raster.
type LabelMapResult struct {
	RegionCount int `json:"region_count"`
	*imaging.ImageResult
}

func (s *Server) handleRegionLabelMap(args json.RawMessage) (interface{}, error) {
	var a regionLabelMapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := s.cfg.LabelOptions()
	if a.Format != "" {
		opts.Format = a.Format
	}
	if a.Depth != nil {
		opts.Depth = *a.Depth
	}
	if a.Saturation != nil {
		opts.Saturation = *a.Saturation
	}
	if a.Lightness != nil {
		opts.Lightness = *a.Lightness
	}

	tree, _, _, err := s.loadTree(a.treeArgs)
	if err != nil {
		return nil, err
	}
	img, err := imaging.RenderLabels(tree, opts)
	if err != nil {
		return nil, err
	}
	return &LabelMapResult{RegionCount: tree.Len(), ImageResult: img}, nil
}

// === Cache Management ===

type cacheClearArgs struct {
	Path string `json:"path"`
}

// CacheClearResult reports what a cache_clear call released.
type CacheClearResult struct {
	ImagesCached int `json:"images_cached"`
	TreesCached  int `json:"trees_cached"`
	TreesEvicted int `json:"trees_evicted"`
}

func (s *Server) handleCacheClear(args json.RawMessage) (interface{}, error) {
	var a cacheClearArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var evicted int
	if a.Path == "" {
		evicted = s.trees.Len()
		s.trees.Clear()
		s.cache.Clear()
	} else {
		evicted = s.trees.Evict(a.Path)
		s.cache.Evict(a.Path)
	}
	return &CacheClearResult{
		ImagesCached: s.cache.Len(),
		TreesCached:  s.trees.Len(),
		TreesEvicted: evicted,
	}, nil
}
