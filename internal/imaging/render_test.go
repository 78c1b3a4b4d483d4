package imaging

import (
	"encoding/base64"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// nestedTree builds a tree over a 20x20 raster: background 0, a 10x10 square
// at level 1 and two 2x2 squares at level 2 inside it.
func nestedTree(t *testing.T) *componenttree.Tree {
	t.Helper()
	r := componenttree.NewRaster(20, 20)
	r.Fill(5, 5, 15, 15, 1)
	r.Fill(7, 7, 9, 9, 2)
	r.Fill(11, 11, 13, 13, 2)

	opts := componenttree.DefaultOptions()
	opts.MaxLevel = 2
	tree, err := componenttree.Build(r, opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tree
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{" PNG ", FormatPNG, false},
		{"webp", FormatWebP, false},
		{"WebP", FormatWebP, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderMask(t *testing.T) {
	tree := nestedTree(t)
	square := tree.RegionAt(5, 5)

	res, err := RenderMask(square, 1)
	if err != nil {
		t.Fatalf("RenderMask failed: %v", err)
	}
	if res.Width != 10 || res.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 10x10", res.Width, res.Height)
	}
	out := decodeResult(t, res)
	if y, _, _, _ := out.At(0, 0).RGBA(); y>>8 != 255 {
		t.Errorf("mask pixel: got %d, want 255", y>>8)
	}
}

func TestRenderMask_Scaled(t *testing.T) {
	tree := nestedTree(t)
	small := tree.RegionAt(7, 7)

	res, err := RenderMask(small, 4)
	if err != nil {
		t.Fatalf("RenderMask failed: %v", err)
	}
	if res.Width != 8 || res.Height != 8 {
		t.Fatalf("dimensions: got %dx%d, want 8x8", res.Width, res.Height)
	}
	out := decodeResult(t, res)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if v, _, _, _ := out.At(x, y).RGBA(); v>>8 != 255 {
				t.Fatalf("scaled mask pixel (%d,%d): got %d, want 255", x, y, v>>8)
			}
		}
	}

	if _, err := RenderMask(small, 0); err == nil {
		t.Error("scale 0 should fail")
	}
}

func TestRenderMask_ScaleLimit(t *testing.T) {
	tree := nestedTree(t)
	root := tree.Root()
	side := max(root.Width(), root.Height())

	for _, scale := range []int{MaxOutputSide/side + 1, 1 << 40, math.MaxInt} {
		if _, err := RenderMask(root, scale); err == nil {
			t.Errorf("scale %d should fail", scale)
		}
	}
}

func TestPalette(t *testing.T) {
	colors := Palette(16, 0.65, 0.55)
	if len(colors) != 16 {
		t.Fatalf("Palette length: got %d, want 16", len(colors))
	}
	seen := make(map[color.NRGBA]bool)
	for i, c := range colors {
		if c.A != 255 {
			t.Errorf("colour %d not opaque", i)
		}
		if seen[c] {
			t.Errorf("colour %d duplicates an earlier one: %v", i, c)
		}
		seen[c] = true
	}

	gray := Palette(3, 0, 0.5)
	for i, c := range gray {
		if c.R != c.G || c.G != c.B {
			t.Errorf("zero saturation colour %d not gray: %v", i, c)
		}
	}
}

func TestRenderLabels(t *testing.T) {
	tree := nestedTree(t)

	res, err := RenderLabels(tree, DefaultLabelOptions())
	if err != nil {
		t.Fatalf("RenderLabels failed: %v", err)
	}
	if res.Width != 20 || res.Height != 20 || res.MimeType != "image/png" {
		t.Fatalf("got %dx%d %s, want 20x20 image/png", res.Width, res.Height, res.MimeType)
	}
	out := decodeResult(t, res)

	if r, g, b, _ := out.At(0, 0).RGBA(); r|g|b != 0 {
		t.Errorf("root pixel should be black, got %d %d %d", r>>8, g>>8, b>>8)
	}
	if out.At(5, 5) == out.At(7, 7) {
		t.Error("nested regions should use different colours")
	}

	// Depth 1 paints the small squares with the big square's colour.
	opts := DefaultLabelOptions()
	opts.Depth = 1
	res, err = RenderLabels(tree, opts)
	if err != nil {
		t.Fatalf("RenderLabels failed: %v", err)
	}
	out = decodeResult(t, res)
	if out.At(5, 5) != out.At(7, 7) || out.At(5, 5) != out.At(12, 12) {
		t.Error("depth-limited rendering should merge descendants into their ancestor")
	}
}

func TestRenderLabels_WebP(t *testing.T) {
	opts := DefaultLabelOptions()
	opts.Format = "webp"

	res, err := RenderLabels(nestedTree(t), opts)
	if err != nil {
		t.Fatalf("RenderLabels failed: %v", err)
	}
	if res.MimeType != "image/webp" {
		t.Errorf("MimeType: got %s, want image/webp", res.MimeType)
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Error("payload is not a RIFF/WEBP container")
	}
}

func TestRenderLabels_InvalidOptions(t *testing.T) {
	tree := nestedTree(t)

	tests := []struct {
		name string
		opts LabelOptions
	}{
		{"format", LabelOptions{Format: "gif", Saturation: 0.5, Lightness: 0.5}},
		{"saturation", LabelOptions{Saturation: 1.5, Lightness: 0.5}},
		{"lightness", LabelOptions{Saturation: 0.5, Lightness: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderLabels(tree, tt.opts); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
