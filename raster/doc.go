// Package raster renders paginated text into pixel buffers.
//
// Text-backed document providers (pdfdoc, htmldoc, mddoc) share this
// package to turn a page's text into an image: lines are wrapped to the
// page width, laid out top to bottom, drawn at the base 72 DPI size with a
// fixed-width face, and scaled to the requested resolution. The result is
// a white page with a light border, matching the viewer's placeholder
// styling, so text-only providers still produce believable page images.
package raster
