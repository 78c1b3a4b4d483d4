package componenttree

import (
	"image"
	"math"
)

// maskForeground is the value of owned pixels in a Mask.
const maskForeground = 255

// Region is a connected component extracted at one level.
//
// The pixel set and bounding box are final once the extraction traversal
// returns. Parent and children are pool indices filled in by tree assembly;
// the root's parent is -1.
type Region struct {
	level  int
	index  int
	points []image.Point

	minX, minY int
	maxX, maxY int

	parent   int
	children []int
}

func newRegion(level int) *Region {
	return &Region{
		level:  level,
		index:  -1,
		minX:   math.MaxInt,
		minY:   math.MaxInt,
		maxX:   -1,
		maxY:   -1,
		parent: -1,
	}
}

// AddPixel appends pt to the region and widens the bounding box.
func (r *Region) AddPixel(pt image.Point) {
	r.points = append(r.points, pt)

	r.minX = min(r.minX, pt.X)
	r.minY = min(r.minY, pt.Y)
	r.maxX = max(r.maxX, pt.X)
	r.maxY = max(r.maxY, pt.Y)
}

// AssignParent links r under parent. Both regions must already carry their
// final pool index.
func (r *Region) AssignParent(parent *Region) {
	r.parent = parent.index
	parent.children = append(parent.children, r.index)
}

// Level returns the level at which the region was extracted.
func (r *Region) Level() int { return r.level }

// Index returns the region's position in the tree's region pool.
func (r *Region) Index() int { return r.index }

// Parent returns the pool index of the enclosing region, or -1 for the root.
func (r *Region) Parent() int { return r.parent }

// Children returns the pool indices of the directly nested regions.
func (r *Region) Children() []int { return r.children }

// IsLeaf reports whether no region is nested inside r.
func (r *Region) IsLeaf() bool { return len(r.children) == 0 }

// IsRoot reports whether r has no parent.
func (r *Region) IsRoot() bool { return r.parent < 0 }

// Area returns the number of owned pixels.
func (r *Region) Area() int { return len(r.points) }

// Points returns the owned pixel positions in traversal order.
func (r *Region) Points() []image.Point { return r.points }

// AnyPixel returns one owned pixel position.
func (r *Region) AnyPixel() image.Point { return r.points[0] }

// Bounds returns the inclusive bounding box corners.
func (r *Region) Bounds() (x1, y1, x2, y2 int) {
	return r.minX, r.minY, r.maxX, r.maxY
}

// Width returns the bounding box width in pixels.
func (r *Region) Width() int { return r.maxX - r.minX + 1 }

// Height returns the bounding box height in pixels.
func (r *Region) Height() int { return r.maxY - r.minY + 1 }

// Rect returns the bounding box as an image.Rectangle (Max exclusive).
func (r *Region) Rect() image.Rectangle {
	return image.Rect(r.minX, r.minY, r.maxX+1, r.maxY+1)
}

// Mask returns a binary image the size of the bounding box with owned pixels
// set to 255 and all others 0. The mask origin is (0, 0); raster pixel
// (x, y) maps to (x - x1, y - y1).
func (r *Region) Mask() *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, r.Width(), r.Height()))
	for _, pt := range r.points {
		mask.Pix[(pt.Y-r.minY)*mask.Stride+(pt.X-r.minX)] = maskForeground
	}
	return mask
}
