package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// decoders maps a lower-case file extension to the decoder for that format.
//
// Decoding is dispatched on the extension instead of image.Decode's content
// sniffing: the TGA format has no magic number and its registered sniffer
// would otherwise claim every file.
var decoders = map[string]struct {
	format string
	decode func(io.Reader) (image.Image, error)
}{
	".png":  {"png", png.Decode},
	".jpg":  {"jpeg", jpeg.Decode},
	".jpeg": {"jpeg", jpeg.Decode},
	".gif":  {"gif", gif.Decode},
	".bmp":  {"bmp", bmp.Decode},
	".tif":  {"tiff", tiff.Decode},
	".tiff": {"tiff", tiff.Decode},
	".webp": {"webp", nativewebp.Decode},
	".tga":  {"tga", tga.Decode},
}

// ImageCache holds decoded source images by path so that several tree builds
// and renderings over the same file decode it once. It is safe for
// concurrent use.
//
// Entries stay until Evict or Clear. Trees built from an image live in a
// separate cache owned by the server.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]image.Image)}
}

// Load returns the image at path, decoding and caching it on first use.
//
// PNG, JPEG, GIF, BMP, TIFF, WebP and TGA are recognized by extension. Other
// extensions go through image.Decode. Keys are the path strings as given, so
// "a.png" and "./a.png" are cached twice.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var img image.Image
	if d, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		img, err = d.decode(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FormatOf returns the format name for path's extension, or "unknown".
func FormatOf(path string) string {
	if d, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		return d.format
	}
	return "unknown"
}

// ImageInfo describes a source image as decoded.
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"` // from the file extension, or "unknown"

	// ColorDepth is "16-bit" for 16-bit color models and "8-bit" otherwise.
	ColorDepth string `json:"color_depth"`

	HasAlpha      bool  `json:"has_alpha"`
	Grayscale     bool  `json:"grayscale"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and reports its metadata. Depth,
// alpha and grayscale are read from the decoded color model.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        FormatOf(path),
		ColorDepth:    "8-bit",
		FileSizeBytes: fi.Size(),
	}
	switch img.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Alpha16Model:
		info.ColorDepth = "16-bit"
		info.HasAlpha = true
	case color.RGBAModel, color.NRGBAModel, color.AlphaModel:
		info.HasAlpha = true
	case color.GrayModel:
		info.Grayscale = true
	case color.Gray16Model:
		info.ColorDepth = "16-bit"
		info.Grayscale = true
	}
	return info, nil
}
