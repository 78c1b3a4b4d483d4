package detection

import (
	"fmt"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// RegionSummary describes one region of a component tree.
type RegionSummary struct {
	// Index is the region's position in the tree's pool.
	Index int `json:"index"`

	// Level is the intensity level the region was extracted at.
	Level int `json:"level"`

	// Area is the number of pixels the region owns.
	Area int `json:"area"`

	// Bounds is the tight bounding box of the owned pixels.
	Bounds Bounds `json:"bounds"`

	// Centroid is the mean pixel position, rounded to the nearest pixel.
	Centroid Point `json:"centroid"`

	// Fill is Area divided by the bounding box area, in (0, 1].
	Fill float64 `json:"fill"`

	// Parent is the parent's pool index, or -1 for the root.
	Parent int `json:"parent"`

	// Children is the number of direct children.
	Children int `json:"children"`

	// Depth is the number of edges between the region and the root.
	Depth int `json:"depth"`
}

// Describe summarises region i of tree.
func Describe(tree *componenttree.Tree, i int) (RegionSummary, error) {
	if i < 0 || i >= tree.Len() {
		return RegionSummary{}, fmt.Errorf("region index %d outside [0, %d)", i, tree.Len())
	}
	return Summary(tree, i), nil
}

// Summary is Describe for an index already known to be valid. Like the tree
// accessors it panics when i is out of range.
func Summary(tree *componenttree.Tree, i int) RegionSummary {
	return describe(tree.Region(i), tree.Depth(i))
}

func describe(r *componenttree.Region, depth int) RegionSummary {
	bounds := BoundsOf(r)
	var sx, sy int
	for _, pt := range r.Points() {
		sx += pt.X
		sy += pt.Y
	}
	n := r.Area()
	return RegionSummary{
		Index:    r.Index(),
		Level:    r.Level(),
		Area:     n,
		Bounds:   bounds,
		Centroid: Point{X: (2*sx + n) / (2 * n), Y: (2*sy + n) / (2 * n)},
		Fill:     float64(n) / float64(bounds.Area()),
		Parent:   r.Parent(),
		Children: len(r.Children()),
		Depth:    depth,
	}
}

// Filter selects regions for Summarize. Zero values disable each criterion.
type Filter struct {
	// MinArea and MaxArea bound the region area, inclusive. MaxArea 0 means
	// no upper bound.
	MinArea int
	MaxArea int

	// Level restricts results to one level when HasLevel is set.
	Level    int
	HasLevel bool

	// LeavesOnly drops regions that have children.
	LeavesOnly bool

	// Within keeps only regions whose box lies inside this box.
	Within *Bounds

	// Limit caps the number of results; 0 means unlimited.
	Limit int
}

// Validate checks the filter for contradictory or negative values.
func (f Filter) Validate() error {
	if f.MinArea < 0 || f.MaxArea < 0 || f.Limit < 0 {
		return fmt.Errorf("min_area, max_area and limit must not be negative")
	}
	if f.MaxArea > 0 && f.MinArea > f.MaxArea {
		return fmt.Errorf("min_area %d exceeds max_area %d", f.MinArea, f.MaxArea)
	}
	return nil
}

func (f Filter) match(r *componenttree.Region) bool {
	if r.Area() < f.MinArea || (f.MaxArea > 0 && r.Area() > f.MaxArea) {
		return false
	}
	if f.HasLevel && r.Level() != f.Level {
		return false
	}
	if f.LeavesOnly && !r.IsLeaf() {
		return false
	}
	if f.Within != nil && !f.Within.Contains(BoundsOf(r)) {
		return false
	}
	return true
}

// Summarize returns summaries of the regions matching f, in pool order.
func Summarize(tree *componenttree.Tree, f Filter) ([]RegionSummary, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	candidates := tree.Regions()
	if f.HasLevel {
		if f.Level < 0 || f.Level > tree.MaxLevel() {
			return nil, fmt.Errorf("level %d outside [0, %d]", f.Level, tree.MaxLevel())
		}
		candidates = tree.LevelRegions(f.Level)
	}

	depths := depthTable(tree)
	out := []RegionSummary{}
	for _, r := range candidates {
		if !f.match(r) {
			continue
		}
		out = append(out, describe(r, depths[r.Index()]))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// depthTable returns the depth of every region. Parents come later in the
// pool than their children, so one reverse pass suffices.
func depthTable(tree *componenttree.Tree) []int {
	depths := make([]int, tree.Len())
	for i := tree.Len() - 1; i >= 0; i-- {
		if p := tree.Region(i).Parent(); p >= 0 {
			depths[i] = depths[p] + 1
		}
	}
	return depths
}

// LevelCount is the number of regions extracted at one level.
type LevelCount struct {
	Level   int `json:"level"`
	Regions int `json:"regions"`
}

// LevelCounts lists the levels that produced at least one region, in
// ascending level order.
func LevelCounts(tree *componenttree.Tree) []LevelCount {
	var out []LevelCount
	for level := 0; level <= tree.MaxLevel(); level++ {
		start, end := tree.LevelRange(level)
		if end > start {
			out = append(out, LevelCount{Level: level, Regions: end - start})
		}
	}
	return out
}

// MaxDepth returns the depth of the deepest region.
func MaxDepth(tree *componenttree.Tree) int {
	deepest := 0
	for _, d := range depthTable(tree) {
		deepest = max(deepest, d)
	}
	return deepest
}
