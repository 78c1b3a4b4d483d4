// Package componenttree builds the quasi component tree of a grayscale raster.
//
// The tree is the structure MSER-style region extraction is computed on: every
// connected component that exists at some intensity level becomes a Region, and
// all regions are linked into a single containment hierarchy whose root spans
// the whole image.
//
// # Algorithm
//
// Build runs one sweep over the intensity levels:
//
//  1. Bucket sort: every pixel is placed once into the bucket of its level.
//  2. Insert: for the current level, each pixel of the bucket is merged with
//     every 8-connected neighbour that was inserted at this or an earlier level.
//     Merges use a disjoint-set forest with path compression and union by rank,
//     and each successful merge records an adjacency edge between the two pixels.
//  3. Extract: candidates carried over from earlier levels that are still set
//     representatives, and new representatives found in the current bucket, are
//     turned into Regions by walking the adjacency edges from the seed.
//  4. Assemble: after the sweep, a label raster is used to link every region to
//     its smallest enclosing region.
//
// The sweep runs from MaxLevel down to 0 by default (bright components nested
// inside darker ones). Options.Order selects the opposite direction.
//
// # Ownership
//
// The Tree owns every Region. A Region refers to its parent and children by
// pool index, so the tree can be walked without pointer cycles. A built Tree is
// not mutated again and is safe for concurrent reads.
//
// # Error Handling
//
// Build validates the raster before touching it and returns one of the
// sentinel errors wrapped with the offending position or size. Accessors on a
// built Tree panic when asked for an index, level or position that does not
// exist, the same contract as slice indexing.
package componenttree
