// Package batch runs ring detection over a folder of images.
//
// For every raster file in the input folder, in file name order, the runner
// decodes the image, runs the detector and, on a match, writes either the
// original file (byte for byte, keeping its mode and modification time) or a
// JPEG crop around the ring into the output folder. With a debug folder set it
// also writes the red mask, an annotated overlay and, when cropping, a PNG
// preview of the crop.
//
// Images that fail to decode are logged and skipped. Failing to write an
// output aborts the run, since a partial output folder would otherwise be
// sealed by the manifest as if it were complete.
//
// When all images are processed the manifest and its digest are written into
// the output folder.
package batch
