package componenttree

import (
	"errors"
	"fmt"
	"math"
)

// MaxSupportedLevel is the largest MaxLevel accepted by Build. It matches the
// range of a 16-bit gray image.
const MaxSupportedLevel = 1<<16 - 1

var (
	// ErrEmptyRaster is returned for a nil raster or one with no pixels.
	ErrEmptyRaster = errors.New("componenttree: empty raster")

	// ErrRasterSize is returned when the raster has more pixels than a
	// pool index can address, or when the level slice does not hold
	// Width*Height entries.
	ErrRasterSize = errors.New("componenttree: raster size mismatch")

	// ErrMaxLevel is returned when Options.MaxLevel is negative or above
	// MaxSupportedLevel.
	ErrMaxLevel = errors.New("componenttree: invalid max level")

	// ErrLevelOutOfRange is returned when a pixel level is outside [0, MaxLevel].
	ErrLevelOutOfRange = errors.New("componenttree: level out of range")
)

// Raster is a fixed-size grid of integer intensity levels stored row by row.
type Raster struct {
	Width  int
	Height int
	Levels []int
}

// NewRaster allocates a zero-filled raster.
func NewRaster(width, height int) *Raster {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Raster{
		Width:  width,
		Height: height,
		Levels: make([]int, width*height),
	}
}

// RasterFromRows builds a raster from rows of levels. All rows must have the
// length of the first row; shorter rows are padded with zeros and longer rows
// truncated.
func RasterFromRows(rows [][]int) *Raster {
	if len(rows) == 0 {
		return NewRaster(0, 0)
	}
	r := NewRaster(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(r.Levels[y*r.Width:(y+1)*r.Width], row)
	}
	return r
}

// At returns the level at (x, y).
func (r *Raster) At(x, y int) int {
	return r.Levels[r.offset(x, y)]
}

// Set stores level at (x, y).
func (r *Raster) Set(x, y, level int) {
	r.Levels[r.offset(x, y)] = level
}

// Fill sets every pixel inside [x1,x2)x[y1,y2) to level, clipped to the raster.
func (r *Raster) Fill(x1, y1, x2, y2, level int) {
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, r.Width), min(y2, r.Height)
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r.Levels[y*r.Width+x] = level
		}
	}
}

// Contains reports whether (x, y) lies inside the raster.
func (r *Raster) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

func (r *Raster) offset(x, y int) int {
	if !r.Contains(x, y) {
		panic(fmt.Sprintf("componenttree: position (%d,%d) outside %dx%d raster", x, y, r.Width, r.Height))
	}
	return y*r.Width + x
}

// validate checks the raster against maxLevel.
func (r *Raster) validate(maxLevel int) error {
	if maxLevel < 0 || maxLevel > MaxSupportedLevel {
		return fmt.Errorf("%w: %d", ErrMaxLevel, maxLevel)
	}
	if r == nil || r.Width <= 0 || r.Height <= 0 {
		return ErrEmptyRaster
	}
	if r.Width > math.MaxInt32/r.Height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrRasterSize, r.Width, r.Height, math.MaxInt32)
	}
	if len(r.Levels) != r.Width*r.Height {
		return fmt.Errorf("%w: %d levels for %dx%d", ErrRasterSize, len(r.Levels), r.Width, r.Height)
	}
	for i, level := range r.Levels {
		if level < 0 || level > maxLevel {
			return fmt.Errorf("%w: level %d at (%d,%d), max %d",
				ErrLevelOutOfRange, level, i%r.Width, i/r.Width, maxLevel)
		}
	}
	return nil
}
