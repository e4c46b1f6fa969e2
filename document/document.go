package document

import (
	"errors"
	"image"

	"github.com/tsawler/lectern/model"
)

var (
	// ErrUnsupported is returned by Open when no provider is registered
	// for the file's extension.
	ErrUnsupported = errors.New("document: unsupported file type")

	// ErrPageOutOfRange is returned when a page index falls outside
	// [0, PageCount).
	ErrPageOutOfRange = errors.New("document: page index out of range")

	// ErrClosed is returned when a document is used after Close.
	ErrClosed = errors.New("document: document is closed")

	// ErrEncrypted is returned when a file is password protected. Locked
	// documents are treated as unusable; the viewer never prompts.
	ErrEncrypted = errors.New("document: document is password protected")
)

// Document is an opened, page-addressable document. Page indexes are
// zero-based. Implementations are not required to be safe for concurrent
// use; the viewer engine drives them from a single event loop.
type Document interface {
	// PageCount returns the number of pages (>= 0).
	PageCount() int

	// PageSize returns the natural size of a page in document units
	// (typographic points for paged formats, pixels at 72 DPI for
	// image-backed documents).
	PageSize(index int) (model.Size, error)

	// Rasterize renders a page into a pixel buffer at the given
	// resolution in dots per inch.
	Rasterize(index, dpi int) (image.Image, error)

	// Title returns the document title from metadata, falling back to
	// the file name when metadata is absent.
	Title() string

	// Close releases underlying resources. Close is idempotent.
	Close() error
}

// TextProvider is an optional capability for documents whose pages carry
// machine-readable text. The viewer's aggregated text extraction uses it
// when available and falls back to OCR over rasterized pages otherwise.
type TextProvider interface {
	PageText(index int) (string, error)
}
