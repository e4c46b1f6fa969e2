// Package lectern is a document viewer coordination engine. It manages the
// state behind a paged document view without owning any rendering surface:
// which pages exist, which are rendered and at what resolution, how the
// pages are laid out in a scrollable content area, what the zoom factor is
// and how it reacts to viewport changes, and which page the reader is on.
//
// A UI embeds lectern by creating a Viewer, feeding it viewport resizes,
// scroll positions and key presses, and drawing the page images the Viewer
// exposes at the geometry it computes. All coordinates are in screen
// pixels with the Y axis growing downward.
//
// Document formats are supplied by provider packages that register
// themselves with the document registry on import:
//
//	import (
//	    _ "github.com/tsawler/lectern/htmldoc"
//	    _ "github.com/tsawler/lectern/imagedoc"
//	    _ "github.com/tsawler/lectern/mddoc"
//	    _ "github.com/tsawler/lectern/pdfdoc"
//	)
//
//	v := lectern.New(lectern.WithPageChangedFunc(onPage))
//	if err := v.OpenDocument("report.pdf"); err != nil {
//	    ...
//	}
//	v.Resize(1000, 800)
//	v.FitWidth()
package lectern

import "github.com/tsawler/lectern/document"

// Open creates a Viewer with the given options and opens the document at
// path through the provider registry.
func Open(path string, opts ...Option) (*Viewer, error) {
	v := New(opts...)
	if err := v.OpenDocument(path); err != nil {
		return nil, err
	}
	return v, nil
}

// SupportedExtensions lists the file extensions the registered providers
// can open.
func SupportedExtensions() []string {
	return document.SupportedExtensions()
}
