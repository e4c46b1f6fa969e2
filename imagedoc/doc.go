// Package imagedoc provides an image-backed document provider for the
// viewer engine. Each page is a pre-decoded image: a single image file
// opens as a one-page document, a directory of image files opens as one
// page per file in name order, and in-memory images can be wrapped
// directly with FromImages.
//
// Natural page sizes are the pixel dimensions interpreted at 72 DPI;
// rasterization at other resolutions resamples proportionally.
//
// Image pages carry no machine-readable text, so this provider does not
// implement document.TextProvider; text extraction falls back to OCR when
// the viewer has an OCR client configured.
//
// Importing this package registers it for the .png, .jpg, .jpeg, and .gif
// extensions.
package imagedoc
