// Package detection turns a built component tree into compact region
// descriptions suitable for reporting.
//
// The tree itself holds every pixel of every region; the types here carry
// only what a client needs to reason about a region: its level, area,
// bounding box, centroid and position in the hierarchy.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounds are inclusive on all four edges, matching the builder's boxes
//
// # Filtering
//
// Summarize applies a Filter in pool order, so results come out level by
// level in sweep order and, within a level, by top row. Limit truncates
// after filtering.
//
// # Statistics
//
// AreaStats reports the distribution of region areas using gonum's stat
// package. Quantiles use the empirical CDF of the sorted areas.
package detection
