package detection

import (
	"image"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
// All four edges are inclusive.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundsOf returns the bounding box of a region.
func BoundsOf(r *componenttree.Region) Bounds {
	x1, y1, x2, y2 := r.Bounds()
	return Bounds{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the horizontal extent, counting both edges.
func (b Bounds) Width() int { return b.X2 - b.X1 + 1 }

// Height returns the vertical extent, counting both edges.
func (b Bounds) Height() int { return b.Y2 - b.Y1 + 1 }

// Area returns the number of pixels covered by the box.
func (b Bounds) Area() int { return b.Width() * b.Height() }

// Rect converts to an image.Rectangle with an exclusive maximum.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2+1, b.Y2+1)
}

// ContainsPoint reports whether (x, y) lies inside the box.
func (b Bounds) ContainsPoint(x, y int) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// Contains reports whether other lies entirely inside b.
func (b Bounds) Contains(other Bounds) bool {
	return other.X1 >= b.X1 && other.Y1 >= b.Y1 && other.X2 <= b.X2 && other.Y2 <= b.Y2
}

// Intersect returns the overlap of two boxes. ok is false when they do not
// overlap.
func (b Bounds) Intersect(other Bounds) (overlap Bounds, ok bool) {
	overlap = Bounds{
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
		X2: min(b.X2, other.X2),
		Y2: min(b.Y2, other.Y2),
	}
	if overlap.X1 > overlap.X2 || overlap.Y1 > overlap.Y2 {
		return Bounds{}, false
	}
	return overlap, true
}

// IoU returns the intersection-over-union of two boxes, in [0, 1].
func (b Bounds) IoU(other Bounds) float64 {
	overlap, ok := b.Intersect(other)
	if !ok {
		return 0
	}
	inter := overlap.Area()
	return float64(inter) / float64(b.Area()+other.Area()-inter)
}
