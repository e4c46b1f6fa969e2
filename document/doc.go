// Package document defines the capability the viewer engine consumes: an
// opened document that can report its page count, the natural size of each
// page, and rasterize a page into a pixel buffer at a requested resolution.
//
// The engine never touches file I/O or pixel decoding itself; concrete
// providers (pdfdoc, imagedoc, htmldoc, mddoc, fitzdoc) implement [Document]
// and register themselves for the file extensions they understand, so
// callers can open any supported file with a single call:
//
//	doc, err := document.Open("report.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//
// Providers register in their package init functions; importing a provider
// package for side effects enables its extensions, the same way stdlib
// image codecs are enabled.
package document
