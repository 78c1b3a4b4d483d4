package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// decodeResult decodes the PNG payload of an ImageResult.
func decodeResult(t *testing.T, res *ImageResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

// crossImage draws a bright plus sign centred at (5,5) on a dark 12x12
// image and returns the image together with the plus-sign region.
func crossImage(t *testing.T) (*image.RGBA, *componenttree.Region) {
	t.Helper()
	img := createInMemoryImage(12, 12, color.RGBA{0, 0, 0, 255})
	for i := 3; i <= 7; i++ {
		img.Set(i, 5, color.RGBA{255, 255, 255, 255})
		img.Set(5, i, color.RGBA{255, 255, 255, 255})
	}

	r, err := ToRaster(img, RasterOptions{MaxLevel: 1})
	if err != nil {
		t.Fatalf("ToRaster failed: %v", err)
	}
	opts := componenttree.DefaultOptions()
	opts.MaxLevel = 1
	tree, err := componenttree.Build(r, opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return img, tree.RegionAt(5, 5)
}

func TestCropRegion(t *testing.T) {
	img, region := crossImage(t)

	res, err := CropRegion(img, region, CropOptions{})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if res.Width != 5 || res.Height != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}

	out := decodeResult(t, res)
	r, _, _, a := out.At(2, 2).RGBA()
	if r>>8 != 255 || a>>8 != 255 {
		t.Errorf("centre pixel should be opaque white, got r=%d a=%d", r>>8, a>>8)
	}
	// Corners of the box are background and kept without masking.
	if _, _, _, a := out.At(0, 0).RGBA(); a>>8 != 255 {
		t.Errorf("corner alpha: got %d, want 255", a>>8)
	}
}

func TestCropRegion_MaskOutside(t *testing.T) {
	img, region := crossImage(t)

	res, err := CropRegion(img, region, CropOptions{MaskOutside: true})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	out := decodeResult(t, res)

	tests := []struct {
		x, y      int
		wantAlpha uint32
	}{
		{0, 0, 0},
		{4, 4, 0},
		{2, 0, 255},
		{0, 2, 255},
		{2, 2, 255},
	}
	for _, tt := range tests {
		if _, _, _, a := out.At(tt.x, tt.y).RGBA(); a>>8 != tt.wantAlpha {
			t.Errorf("alpha at (%d,%d): got %d, want %d", tt.x, tt.y, a>>8, tt.wantAlpha)
		}
	}
}

func TestCropRegion_PaddingAndScale(t *testing.T) {
	img, region := crossImage(t)

	tests := []struct {
		name          string
		opts          CropOptions
		width, height int
	}{
		{"padding", CropOptions{Padding: 2}, 9, 9},
		{"padding clipped", CropOptions{Padding: 10}, 12, 12},
		{"scale up", CropOptions{Scale: 2}, 10, 10},
		{"scale down", CropOptions{Scale: 0.4}, 2, 2},
		{"scale one", CropOptions{Scale: 1}, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CropRegion(img, region, tt.opts)
			if err != nil {
				t.Fatalf("CropRegion failed: %v", err)
			}
			if res.Width != tt.width || res.Height != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", res.Width, res.Height, tt.width, tt.height)
			}
		})
	}
}

func TestCropRegion_Errors(t *testing.T) {
	img, region := crossImage(t)

	if _, err := CropRegion(img, region, CropOptions{Padding: -1}); err == nil {
		t.Error("negative padding should fail")
	}

	small := createInMemoryImage(4, 4, color.Black)
	if _, err := CropRegion(small, region, CropOptions{}); err == nil {
		t.Error("region outside the image should fail")
	}

	// The plus-sign box is 5x5.
	for _, scale := range []float64{MaxOutputSide/5 + 1, 1e12} {
		if _, err := CropRegion(img, region, CropOptions{Scale: scale}); err == nil {
			t.Errorf("scale %g should fail", scale)
		}
	}
}
