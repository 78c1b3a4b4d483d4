package componenttree

import "image"

// unvisited is the rank of a pixel that has not been inserted yet.
const unvisited = -1

// PixelNode is one element of the disjoint-set forest built over the raster.
//
// Parent and adjacency references are indices into the owning Pool. A node
// whose parent is its own index is the representative of its set.
type PixelNode struct {
	Pos   image.Point
	Level int

	rank   int
	parent int32
	// size is the number of pixels in the set; only meaningful on roots.
	size int32
	// adj holds the nodes this one was merged with. Only Union appends to it.
	adj []int32
}

// Rank returns the union-by-rank rank, or -1 if the node was never inserted.
func (n *PixelNode) Rank() int { return n.rank }

// Adjacent returns the pool indices this node was directly merged with.
func (n *PixelNode) Adjacent() []int32 { return n.adj }

// Pool is the arena holding one PixelNode per raster position.
type Pool struct {
	width  int
	height int
	nodes  []PixelNode
}

// NewPool creates one unvisited, self-rooted node per raster pixel.
func NewPool(r *Raster) *Pool {
	p := &Pool{
		width:  r.Width,
		height: r.Height,
		nodes:  make([]PixelNode, r.Width*r.Height),
	}
	for i := range p.nodes {
		p.nodes[i] = PixelNode{
			Pos:    image.Point{X: i % r.Width, Y: i / r.Width},
			Level:  r.Levels[i],
			rank:   unvisited,
			parent: int32(i),
			size:   1,
		}
	}
	return p
}

// Len returns the number of nodes.
func (p *Pool) Len() int { return len(p.nodes) }

// Node returns the node at index i.
func (p *Pool) Node(i int) *PixelNode { return &p.nodes[i] }

// Index returns the pool index of position (x, y).
func (p *Pool) Index(x, y int) int { return y*p.width + x }

// Visited reports whether the node was already inserted by the sweep.
func (p *Pool) Visited(i int) bool { return p.nodes[i].rank >= 0 }

// SetSize returns the number of pixels in the set whose root is i.
func (p *Pool) SetSize(root int) int { return int(p.nodes[root].size) }

// FindParent returns the representative of i's set and repoints every node
// on the walked path directly at it.
func (p *Pool) FindParent(i int) int {
	root := i
	for int(p.nodes[root].parent) != root {
		root = int(p.nodes[root].parent)
	}
	for i != root {
		next := int(p.nodes[i].parent)
		p.nodes[i].parent = int32(root)
		i = next
	}
	return root
}

// Union merges the sets of a and b.
//
// When they already share a representative nothing changes and false is
// returned. Otherwise an adjacency edge is recorded between a and b
// themselves (not their roots) and the roots are merged by rank: the higher
// rank absorbs the other, and on a tie b's root absorbs a's and gains a rank.
func (p *Pool) Union(a, b int) bool {
	ra, rb := p.FindParent(a), p.FindParent(b)
	if ra == rb {
		return false
	}

	p.nodes[a].adj = append(p.nodes[a].adj, int32(b))
	p.nodes[b].adj = append(p.nodes[b].adj, int32(a))

	na, nb := &p.nodes[ra], &p.nodes[rb]
	if na.rank > nb.rank {
		nb.parent = int32(ra)
		na.size += nb.size
		return true
	}
	na.parent = int32(rb)
	nb.size += na.size
	if na.rank == nb.rank {
		nb.rank++
	}
	return true
}

// markVisited moves a node out of the unvisited state.
func (p *Pool) markVisited(i int) {
	p.nodes[i].rank++
}
