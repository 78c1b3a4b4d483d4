package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// CropOptions controls CropRegion.
type CropOptions struct {
	// Scale resizes the crop; values <= 0 or exactly 1 leave it unchanged.
	// Upscaling may not exceed MaxOutputSide on either side.
	Scale float64

	// Padding grows the region's bounding box by this many pixels on every
	// side, clipped to the image.
	Padding int

	// MaskOutside makes pixels inside the box that the region does not own
	// fully transparent.
	MaskOutside bool
}

// CropRegion cuts the bounding box of region out of img and encodes it as PNG.
//
// region must come from a tree built over a raster derived from img, so its
// coordinates are relative to img.Bounds().Min.
func CropRegion(img image.Image, region *componenttree.Region, opts CropOptions) (*ImageResult, error) {
	if opts.Padding < 0 {
		return nil, fmt.Errorf("invalid padding %d: must not be negative", opts.Padding)
	}
	bounds := img.Bounds()
	box := region.Rect().Add(bounds.Min)
	if !box.In(bounds) {
		return nil, fmt.Errorf("region %d box %v outside image bounds %v", region.Index(), box, bounds)
	}
	box = box.Inset(-opts.Padding).Intersect(bounds)

	cropped := imaging.Crop(img, box)
	if opts.MaskOutside {
		clearUnowned(cropped, region, box.Min.Sub(bounds.Min))
	}

	if opts.Scale > 0 && opts.Scale != 1.0 {
		fw := float64(cropped.Bounds().Dx()) * opts.Scale
		fh := float64(cropped.Bounds().Dy()) * opts.Scale
		if opts.Scale > 1 && (fw > MaxOutputSide || fh > MaxOutputSide) {
			return nil, fmt.Errorf("invalid scale %g: %dx%d crop would exceed %d pixels per side",
				opts.Scale, cropped.Bounds().Dx(), cropped.Bounds().Dy(), MaxOutputSide)
		}
		cropped = imaging.Resize(cropped, max(1, int(fw)), max(1, int(fh)), imaging.Lanczos)
	}

	return encodeImage(cropped, FormatPNG)
}

// clearUnowned zeroes every pixel of dst whose raster position, dst's origin
// being origin, is not owned by region.
func clearUnowned(dst *image.NRGBA, region *componenttree.Region, origin image.Point) {
	b := dst.Bounds()
	owned := make([]bool, b.Dx()*b.Dy())
	for _, pt := range region.Points() {
		p := pt.Sub(origin)
		owned[p.Y*b.Dx()+p.X] = true
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if !owned[y*b.Dx()+x] {
				dst.SetNRGBA(b.Min.X+x, b.Min.Y+y, color.NRGBA{})
			}
		}
	}
}
