package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// Output encodings supported by the renderers.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// MaxOutputSide is the largest width or height, in pixels, that upscaling a
// mask or crop may produce.
const MaxOutputSide = 16384

// goldenAngle spreads consecutive palette hues as far apart as possible.
const goldenAngle = 137.50776405003785

// ImageResult contains an encoded image ready to be returned to a client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ParseFormat normalises an output format name. The empty string selects PNG.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unknown output format %q: expected png or webp", s)
	}
}

func encodeImage(img image.Image, format string) (*ImageResult, error) {
	var buf bytes.Buffer
	mime := "image/png"
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
		mime = "image/webp"
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mime,
	}, nil
}

// RenderMask encodes region's binary mask as a PNG, upscaled by an integer
// factor with nearest-neighbour sampling so pixel edges stay crisp.
func RenderMask(region *componenttree.Region, scale int) (*ImageResult, error) {
	if scale < 1 {
		return nil, fmt.Errorf("invalid scale %d: must be at least 1", scale)
	}
	if side := max(region.Width(), region.Height()); scale > 1 && scale > MaxOutputSide/side {
		return nil, fmt.Errorf("invalid scale %d: %dx%d mask would exceed %d pixels per side",
			scale, region.Width(), region.Height(), MaxOutputSide)
	}
	mask := region.Mask()
	if scale == 1 {
		return encodeImage(mask, FormatPNG)
	}

	mb := mask.Bounds()
	dst := image.NewGray(image.Rect(0, 0, mb.Dx()*scale, mb.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), mask, mb, draw.Src, nil)
	return encodeImage(dst, FormatPNG)
}

// Palette returns n visually distinct opaque colours of the given HSL
// saturation and lightness, both in [0, 1].
func Palette(n int, saturation, lightness float64) []color.NRGBA {
	colors := make([]color.NRGBA, n)
	for i := range colors {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		r, g, b := colorful.Hsl(hue, saturation, lightness).Clamped().RGB255()
		colors[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// LabelOptions controls RenderLabels.
type LabelOptions struct {
	// Format is FormatPNG or FormatWebP.
	Format string

	// Saturation and Lightness of the region palette, in [0, 1].
	Saturation float64
	Lightness  float64

	// Depth limits colouring to regions at most this many edges below the
	// root; deeper pixels take the colour of their ancestor at Depth.
	// Negative means unlimited.
	Depth int
}

// DefaultLabelOptions returns PNG output with a saturated mid-lightness
// palette and no depth limit.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		Format:     FormatPNG,
		Saturation: 0.65,
		Lightness:  0.55,
		Depth:      -1,
	}
}

// RenderLabels paints every pixel with the colour of the smallest region
// containing it and encodes the result. The root is painted black.
func RenderLabels(tree *componenttree.Tree, opts LabelOptions) (*ImageResult, error) {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.Saturation < 0 || opts.Saturation > 1 || opts.Lightness < 0 || opts.Lightness > 1 {
		return nil, fmt.Errorf("saturation and lightness must be in [0, 1], got %g and %g",
			opts.Saturation, opts.Lightness)
	}

	palette := Palette(tree.Len(), opts.Saturation, opts.Lightness)
	root := tree.Root().Index()
	palette[root] = color.NRGBA{A: 255}

	// shown[i] is the region whose colour region i is drawn with.
	shown := make([]int, tree.Len())
	for i := range shown {
		shown[i] = i
	}
	if opts.Depth >= 0 {
		tree.Walk(func(r *componenttree.Region, depth int) bool {
			if depth > opts.Depth {
				shown[r.Index()] = shown[r.Parent()]
			}
			return true
		})
	}

	img := image.NewNRGBA(image.Rect(0, 0, tree.Width(), tree.Height()))
	for i, label := range tree.Labels() {
		c := palette[shown[label]]
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return encodeImage(img, format)
}
