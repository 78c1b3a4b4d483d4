package componenttree

import (
	"fmt"
	"image"
	"sort"
	"strings"
)

// Order selects the direction of the level sweep.
type Order int

const (
	// Descending processes MaxLevel first and 0 last. Bright components are
	// nested inside darker ones and the root sits at the lowest level present.
	Descending Order = iota

	// Ascending processes 0 first and MaxLevel last. Dark components are
	// nested inside brighter ones.
	Ascending
)

// String returns "descending" or "ascending".
func (o Order) String() string {
	switch o {
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder converts "descending"/"ascending" (case-insensitive) to an Order.
// The empty string maps to Descending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "descending", "desc":
		return Descending, nil
	case "ascending", "asc":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("unknown level order %q", s)
	}
}

// Options controls tree construction.
type Options struct {
	// MaxLevel is the largest level a pixel may hold. The sweep visits every
	// level in [0, MaxLevel]. Default: 255.
	MaxLevel int

	// Order is the sweep direction. Default: Descending.
	Order Order

	// SortByTopRow reorders the regions of each level by ascending bounding
	// box top row. Tree topology is unaffected. Default: true.
	SortByTopRow bool

	// KeepUnchanged emits a region for a carried-over component at every
	// level, even when nothing merged into it at that level. When false, a
	// component only produces a new region at levels where it grew.
	// Default: false.
	KeepUnchanged bool

	// Visit, when set, is called once per region after tree assembly, in pool
	// order, with index, parent and children final.
	Visit func(*Region)
}

// DefaultOptions returns the options for 8-bit gray images.
func DefaultOptions() Options {
	return Options{
		MaxLevel:     255,
		Order:        Descending,
		SortByTopRow: true,
	}
}

// neighborOffsets lists the 8-connected neighbourhood.
var neighborOffsets = [8]image.Point{
	{X: 0, Y: -1}, {X: -1, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: 0, Y: 1}, {X: -1, Y: 1}, {X: 1, Y: 1},
}

// candidate is a set representative carried to the next level. size is the
// set size when its last region was extracted.
type candidate struct {
	node int
	size int
}

// traversalStep is one pending node of the extraction walk together with the
// node it was reached from.
type traversalStep struct {
	node int
	from int
}

// Builder runs one level sweep over a raster. A Builder is single-use.
type Builder struct {
	raster *Raster
	opts   Options
	pool   *Pool

	buckets    [][]int
	candidates []candidate
	regions    []*Region
	levelIndex []int
	stack      []traversalStep
	built      bool
}

// NewBuilder validates r against opts and prepares the pixel pool.
func NewBuilder(r *Raster, opts Options) (*Builder, error) {
	if err := r.validate(opts.MaxLevel); err != nil {
		return nil, err
	}
	if opts.Order != Descending && opts.Order != Ascending {
		return nil, fmt.Errorf("componenttree: invalid order %v", opts.Order)
	}
	return &Builder{
		raster: r,
		opts:   opts,
		pool:   NewPool(r),
	}, nil
}

// Build is shorthand for NewBuilder followed by Builder.Build.
func Build(r *Raster, opts Options) (*Tree, error) {
	b, err := NewBuilder(r, opts)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Build performs the sweep, assembles the tree and returns it. It panics if
// called twice on the same Builder.
func (b *Builder) Build() *Tree {
	if b.built {
		panic("componenttree: Builder.Build called twice")
	}
	b.built = true

	b.boxSort()

	steps := b.opts.MaxLevel + 1
	b.levelIndex = make([]int, steps+1)
	for step := 0; step < steps; step++ {
		level := b.levelAt(step)
		bucket := b.buckets[level]
		b.insertLevelPixels(bucket)
		b.retrieveLevelRegions(bucket, level)
		b.levelIndex[step+1] = len(b.regions)
	}
	b.buckets = nil
	b.candidates = nil
	b.stack = nil

	b.assignRegionIndex()

	t := &Tree{
		width:      b.raster.Width,
		height:     b.raster.Height,
		maxLevel:   b.opts.MaxLevel,
		order:      b.opts.Order,
		regions:    b.regions,
		levelIndex: b.levelIndex,
	}
	t.assemble()

	if b.opts.Visit != nil {
		for _, r := range t.regions {
			b.opts.Visit(r)
		}
	}
	return t
}

// levelAt maps a sweep step to the level processed at that step.
func (b *Builder) levelAt(step int) int {
	if b.opts.Order == Ascending {
		return step
	}
	return b.opts.MaxLevel - step
}

// boxSort counts pixels per level and fills one exactly-sized bucket per level
// in raster order.
func (b *Builder) boxSort() {
	counts := make([]int, b.opts.MaxLevel+1)
	for _, level := range b.raster.Levels {
		counts[level]++
	}
	b.buckets = make([][]int, b.opts.MaxLevel+1)
	for level, n := range counts {
		if n > 0 {
			b.buckets[level] = make([]int, 0, n)
		}
	}
	for i, level := range b.raster.Levels {
		b.buckets[level] = append(b.buckets[level], i)
	}
}

func (b *Builder) insertLevelPixels(bucket []int) {
	for _, i := range bucket {
		b.insertPixel(i)
	}
}

// insertPixel merges i with every inserted in-bounds neighbour and marks it
// visited.
func (b *Builder) insertPixel(i int) {
	pos := b.pool.nodes[i].Pos
	for _, d := range neighborOffsets {
		x, y := pos.X+d.X, pos.Y+d.Y
		if !b.raster.Contains(x, y) {
			continue
		}
		j := b.pool.Index(x, y)
		if !b.pool.Visited(j) {
			continue
		}
		b.pool.Union(i, j)
	}
	b.pool.markVisited(i)
}

// retrieveLevelRegions extracts the regions completed at level. Old candidates
// are validated first, then the bucket is scanned for new representatives.
func (b *Builder) retrieveLevelRegions(bucket []int, level int) {
	kept := b.candidates[:0]
	for _, c := range b.candidates {
		if b.pool.FindParent(c.node) != c.node {
			// Absorbed; whichever set took it is extracted on its own.
			continue
		}
		size := b.pool.SetSize(c.node)
		if size != c.size || b.opts.KeepUnchanged {
			b.retrieveRegionFromSeed(c.node, level)
			c.size = size
		}
		kept = append(kept, c)
	}
	b.candidates = kept

	for _, i := range bucket {
		if b.pool.FindParent(i) != i {
			continue
		}
		b.retrieveRegionFromSeed(i, level)
		b.candidates = append(b.candidates, candidate{node: i, size: b.pool.SetSize(i)})
	}
}

// retrieveRegionFromSeed walks the merge edges from seed and pushes the
// resulting region onto the pool.
//
// Merge edges form a forest, so skipping the edge back to the node a step
// came from is enough to visit every pixel exactly once.
func (b *Builder) retrieveRegionFromSeed(seed, level int) {
	region := newRegion(level)
	region.points = make([]image.Point, 0, b.pool.SetSize(seed))

	stack := append(b.stack[:0], traversalStep{node: seed, from: -1})
	for len(stack) > 0 {
		step := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &b.pool.nodes[step.node]
		region.AddPixel(node.Pos)
		for _, next := range node.adj {
			if int(next) != step.from {
				stack = append(stack, traversalStep{node: int(next), from: step.node})
			}
		}
	}
	b.stack = stack

	b.regions = append(b.regions, region)
}

// assignRegionIndex applies the optional top-row ordering within each level
// and stores every region's final pool position.
func (b *Builder) assignRegionIndex() {
	if b.opts.SortByTopRow {
		for step := 0; step+1 < len(b.levelIndex); step++ {
			level := b.regions[b.levelIndex[step]:b.levelIndex[step+1]]
			sort.SliceStable(level, func(i, j int) bool {
				return level[i].minY < level[j].minY
			})
		}
	}
	for i, r := range b.regions {
		r.index = i
	}
}
