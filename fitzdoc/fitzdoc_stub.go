//go:build !fitz

// Package fitzdoc provides a MuPDF-backed document provider.
//
// This is the stub implementation used when the "fitz" build tag is not
// set; Open always returns ErrFitzNotEnabled and no extensions are
// registered. Rebuild with -tags fitz to enable MuPDF rendering. This
// requires cgo and the MuPDF libraries.
package fitzdoc

import (
	"errors"

	"github.com/tsawler/lectern/document"
)

// ErrFitzNotEnabled is returned when MuPDF support was not compiled in.
// Rebuild with -tags fitz to enable it.
var ErrFitzNotEnabled = errors.New("MuPDF support not enabled; rebuild with -tags fitz")

// Open always fails in the stub implementation.
func Open(path string) (document.Document, error) {
	return nil, ErrFitzNotEnabled
}
