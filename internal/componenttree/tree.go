package componenttree

import "fmt"

// Tree is the assembled component tree of one raster.
type Tree struct {
	width    int
	height   int
	maxLevel int
	order    Order

	// regions is ordered by sweep step; the last entry is the root.
	regions []*Region
	// levelIndex[s]..levelIndex[s+1] is the pool range of sweep step s.
	levelIndex []int
	// labels maps every pixel to the pool index of its smallest region.
	labels []int
}

// assemble links every region to its smallest enclosing region.
//
// Regions are visited from the one just before the root down to the first.
// The label raster starts out pointing at the root everywhere; each visited
// region reads its parent from the label under one of its pixels and then
// claims all of its pixels, so regions nested inside it and visited later
// resolve to it.
func (t *Tree) assemble() {
	root := len(t.regions) - 1
	t.labels = make([]int, t.width*t.height)
	for i := range t.labels {
		t.labels[i] = root
	}

	for i := root - 1; i >= 0; i-- {
		region := t.regions[i]
		pos := region.AnyPixel()
		region.AssignParent(t.regions[t.labels[pos.Y*t.width+pos.X]])
		t.fillRegion(region, i)
	}
}

func (t *Tree) fillRegion(region *Region, index int) {
	for _, pt := range region.points {
		t.labels[pt.Y*t.width+pt.X] = index
	}
}

// Width returns the raster width.
func (t *Tree) Width() int { return t.width }

// Height returns the raster height.
func (t *Tree) Height() int { return t.height }

// MaxLevel returns the level bound the tree was built with.
func (t *Tree) MaxLevel() int { return t.maxLevel }

// Order returns the sweep direction the tree was built with.
func (t *Tree) Order() Order { return t.order }

// Len returns the number of regions.
func (t *Tree) Len() int { return len(t.regions) }

// Root returns the region spanning the whole raster.
func (t *Tree) Root() *Region { return t.regions[len(t.regions)-1] }

// Region returns the region at pool index i.
func (t *Tree) Region(i int) *Region { return t.regions[i] }

// Regions returns the region pool. The slice must not be modified.
func (t *Tree) Regions() []*Region { return t.regions }

// Parent returns r's parent region, or nil for the root.
func (t *Tree) Parent(r *Region) *Region {
	if r.parent < 0 {
		return nil
	}
	return t.regions[r.parent]
}

// Children returns r's direct children.
func (t *Tree) Children(r *Region) []*Region {
	children := make([]*Region, len(r.children))
	for i, c := range r.children {
		children[i] = t.regions[c]
	}
	return children
}

// LevelRange returns the [start, end) pool range holding the regions
// extracted at level. It panics if level is outside [0, MaxLevel].
func (t *Tree) LevelRange(level int) (start, end int) {
	if level < 0 || level > t.maxLevel {
		panic(fmt.Sprintf("componenttree: level %d outside [0, %d]", level, t.maxLevel))
	}
	step := t.maxLevel - level
	if t.order == Ascending {
		step = level
	}
	return t.levelIndex[step], t.levelIndex[step+1]
}

// LevelRegions returns the regions extracted at level.
func (t *Tree) LevelRegions(level int) []*Region {
	start, end := t.LevelRange(level)
	return t.regions[start:end]
}

// Labels returns the label raster: for each pixel in row order, the pool index
// of the smallest region containing it. The slice must not be modified.
func (t *Tree) Labels() []int { return t.labels }

// LabelAt returns the pool index of the smallest region containing (x, y).
func (t *Tree) LabelAt(x, y int) int {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		panic(fmt.Sprintf("componenttree: position (%d,%d) outside %dx%d tree", x, y, t.width, t.height))
	}
	return t.labels[y*t.width+x]
}

// RegionAt returns the smallest region containing (x, y).
func (t *Tree) RegionAt(x, y int) *Region {
	return t.regions[t.LabelAt(x, y)]
}

// Ancestors returns the pool indices from i's parent up to the root.
func (t *Tree) Ancestors(i int) []int {
	var out []int
	for p := t.regions[i].parent; p >= 0; p = t.regions[p].parent {
		out = append(out, p)
	}
	return out
}

// Depth returns the number of edges between region i and the root.
func (t *Tree) Depth(i int) int {
	depth := 0
	for p := t.regions[i].parent; p >= 0; p = t.regions[p].parent {
		depth++
	}
	return depth
}

// Walk visits the tree in pre-order starting at the root. Returning false
// from fn skips the subtree below the visited region.
func (t *Tree) Walk(fn func(r *Region, depth int) bool) {
	type entry struct {
		index int
		depth int
	}
	stack := []entry{{index: len(t.regions) - 1}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r := t.regions[e.index]
		if !fn(r, e.depth) {
			continue
		}
		for i := len(r.children) - 1; i >= 0; i-- {
			stack = append(stack, entry{index: r.children[i], depth: e.depth + 1})
		}
	}
}
