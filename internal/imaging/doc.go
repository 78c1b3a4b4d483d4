// Package imaging connects decoded images to the component tree builder.
//
// It loads images from disk (with a shared cache), reduces them to level
// rasters, and renders tree output back into encoded images: region masks,
// region crops of the source image and colour label maps. RegionColors
// summarizes the source colours a region covers.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rasters produced by
// ToRaster always start at (0,0) even when the source image's bounds do not.
//
// # Level Conversion
//
// ToRaster applies, in order: an optional Gaussian blur, grayscale
// conversion, an optional inversion, and linear quantisation of the 8-bit
// luminance onto [0, MaxLevel]. With the default descending sweep, bright
// structures become the deepest regions; set Invert to extract dark ones.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
//
// # Error Handling
//
// Functions return errors for invalid options, regions that do not fit the
// image, file I/O failures and encoding failures. Errors from the builder's
// validation (componenttree.ErrMaxLevel and friends) are wrapped, so
// errors.Is works across the package boundary.
package imaging
