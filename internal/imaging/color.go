package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// ColorFrequency is a quantized color and the share of region pixels it covers.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"` // 0-100
	RGB        RGBColor `json:"rgb"`
}

// RegionColorResult describes the colors of the pixels a region owns.
type RegionColorResult struct {
	Pixels   int              `json:"pixels"`
	Mean     ColorResult      `json:"mean"`
	Dominant []ColorFrequency `json:"dominant"`
}

// RegionColors summarizes the source colors under every pixel of region:
// their mean and the count most frequent colors after quantization.
//
// Colors are quantized to 16 levels per channel before counting, so
// #F0F0F0 and #FAFAFA fall in the same bucket. Ties are broken by hex value
// to keep the output stable.
//
// region must come from a tree built over a raster derived from img.
func RegionColors(img image.Image, region *componenttree.Region, count int) (*RegionColorResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid color count %d: must be at least 1", count)
	}
	bounds := img.Bounds()
	if box := region.Rect().Add(bounds.Min); !box.In(bounds) {
		return nil, fmt.Errorf("region %d box %v outside image bounds %v", region.Index(), box, bounds)
	}

	var sumR, sumG, sumB uint64
	counts := make(map[RGBColor]int)
	points := region.Points()
	for _, pt := range points {
		p := pt.Add(bounds.Min)
		r, g, b, _ := img.At(p.X, p.Y).RGBA()
		r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
		sumR += uint64(r8)
		sumG += uint64(g8)
		sumB += uint64(b8)
		counts[RGBColor{R: r8 / 16 * 16, G: g8 / 16 * 16, B: b8 / 16 * 16}]++
	}

	n := uint64(len(points))
	mean := RGBColor{
		R: uint8((sumR + n/2) / n),
		G: uint8((sumG + n/2) / n),
		B: uint8((sumB + n/2) / n),
	}

	dominant := make([]ColorFrequency, 0, len(counts))
	for c, cnt := range counts {
		dominant = append(dominant, ColorFrequency{
			Hex:        hexOf(c),
			Percentage: float64(cnt) / float64(n) * 100,
			RGB:        c,
		})
	}
	sort.Slice(dominant, func(i, j int) bool {
		if dominant[i].Percentage != dominant[j].Percentage {
			return dominant[i].Percentage > dominant[j].Percentage
		}
		return dominant[i].Hex < dominant[j].Hex
	})
	if len(dominant) > count {
		dominant = dominant[:count]
	}

	return &RegionColorResult{
		Pixels:   len(points),
		Mean:     describeColor(mean),
		Dominant: dominant,
	}, nil
}

func describeColor(c RGBColor) ColorResult {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
	return ColorResult{
		Hex: hexOf(c),
		RGB: c,
		HSL: HSLColor{H: int(h + 0.5), S: int(s*100 + 0.5), L: int(l*100 + 0.5)},
	}
}

func hexOf(c RGBColor) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
