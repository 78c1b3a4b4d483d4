package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// ErrBlurRadius is returned when a negative blur radius is requested.
var ErrBlurRadius = errors.New("blur radius must not be negative")

// RasterOptions controls how a decoded image is reduced to a level raster.
type RasterOptions struct {
	// MaxLevel is the highest level in the output. Luminance 0..255 is
	// rescaled onto 0..MaxLevel.
	MaxLevel int

	// Invert flips luminance before quantising, so dark structures become
	// the high levels the descending sweep extracts first.
	Invert bool

	// BlurRadius applies a Gaussian blur of this radius before conversion.
	// Zero disables smoothing.
	BlurRadius float64
}

// DefaultRasterOptions returns options producing a 256-level raster with
// no preprocessing.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{MaxLevel: 255}
}

// ToRaster converts img into a level raster for the component tree builder.
//
// The pipeline is: optional Gaussian blur, grayscale conversion, optional
// inversion, then linear quantisation of the 8-bit luminance onto
// [0, MaxLevel] with rounding. Alpha is ignored. The raster origin is the
// image's top-left corner regardless of img.Bounds().Min.
func ToRaster(img image.Image, opts RasterOptions) (*componenttree.Raster, error) {
	if opts.MaxLevel < 1 || opts.MaxLevel > componenttree.MaxSupportedLevel {
		return nil, fmt.Errorf("%w: %d", componenttree.ErrMaxLevel, opts.MaxLevel)
	}
	if opts.BlurRadius < 0 {
		return nil, fmt.Errorf("%w: %g", ErrBlurRadius, opts.BlurRadius)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, componenttree.ErrEmptyRaster
	}

	src := img
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}
	gray := imaging.Grayscale(src)
	if opts.Invert {
		gray = imaging.Invert(gray)
	}

	gb := gray.Bounds()
	r := componenttree.NewRaster(gb.Dx(), gb.Dy())
	for y := 0; y < r.Height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < r.Width; x++ {
			r.Set(x, y, quantize(row[x*4], opts.MaxLevel))
		}
	}
	return r, nil
}

// quantize maps an 8-bit intensity onto [0, maxLevel], rounding to nearest.
func quantize(v uint8, maxLevel int) int {
	if maxLevel == 255 {
		return int(v)
	}
	return (int(v)*maxLevel + 127) / 255
}
