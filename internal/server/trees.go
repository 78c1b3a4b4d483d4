package server

import (
	"sync"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
	"github.com/ironsheep/region-tree-mcp/internal/imaging"
)

// treeKey identifies a built tree: the same image converted and swept with
// different settings yields a different tree.
type treeKey struct {
	path   string
	raster imaging.RasterOptions
	order  componenttree.Order
	sorted bool
	keep   bool
}

// TreeCache holds built component trees keyed by image path and build
// settings. It is safe for concurrent use.
type TreeCache struct {
	mu    sync.RWMutex
	trees map[treeKey]*componenttree.Tree
}

// NewTreeCache creates an empty tree cache.
func NewTreeCache() *TreeCache {
	return &TreeCache{trees: make(map[treeKey]*componenttree.Tree)}
}

func (c *TreeCache) get(key treeKey) (*componenttree.Tree, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.trees[key]
	return t, ok
}

func (c *TreeCache) put(key treeKey, t *componenttree.Tree) {
	c.mu.Lock()
	c.trees[key] = t
	c.mu.Unlock()
}

// Len returns the number of cached trees.
func (c *TreeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.trees)
}

// Evict drops every tree built from path and reports how many were removed.
func (c *TreeCache) Evict(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.trees {
		if k.path == path {
			delete(c.trees, k)
			n++
		}
	}
	return n
}

// Clear drops every cached tree.
func (c *TreeCache) Clear() {
	c.mu.Lock()
	c.trees = make(map[treeKey]*componenttree.Tree)
	c.mu.Unlock()
}
