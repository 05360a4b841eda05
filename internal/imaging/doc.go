// Package imaging provides the image primitives the ring detector is built from.
//
// This package implements decoding, color-space conversion, binary morphology,
// smoothing, edge detection, cropping and debug annotation. All operations work
// with standard Go image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Masks
//
// Binary masks are *image.Gray values whose pixels are either 0 or 255, with
// bounds starting at (0,0). Functions that take a mask never modify it; they
// return a new image.
//
// # Color Representation
//
// HSV values follow the 8-bit layout used by most vision tooling:
//   - H: hue in degrees divided by two (0-180)
//   - S: saturation scaled to 0-255
//   - V: value scaled to 0-255
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other operations are
// stateless and can be called concurrently on different images.
package imaging
