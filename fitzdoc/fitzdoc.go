//go:build fitz

// Package fitzdoc provides a MuPDF-backed document provider via
// github.com/gen2brain/go-fitz. Unlike the pure-Go providers it renders
// true page imagery, and it reads every format MuPDF understands (PDF,
// XPS, EPUB, CBZ, and more).
//
// go-fitz requires cgo and the MuPDF libraries, so this implementation is
// behind the "fitz" build tag. Without the tag the stub in
// fitzdoc_stub.go is compiled instead and Open returns ErrFitzNotEnabled.
//
// Importing this package registers it for the .xps and .cbz extensions.
// PDF and EPUB files are handled by the pdfdoc and epubdoc providers by
// default; call Open directly to route them through MuPDF instead.
package fitzdoc

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
)

// ErrFitzNotEnabled is returned by the stub implementation. It is declared
// here too so callers can test against it regardless of build tags.
var ErrFitzNotEnabled = errors.New("MuPDF support not enabled; rebuild with -tags fitz")

func init() {
	document.Register(".xps", Open)
	document.Register(".cbz", Open)
}

// Doc is a document.Document backed by a MuPDF handle.
//
// go-fitz handles are not safe for concurrent use, so all page access is
// serialized behind a mutex.
type Doc struct {
	mu     sync.Mutex
	fz     *fitz.Document
	title  string
	count  int
	closed bool
}

// Open opens path with MuPDF.
func Open(path string) (document.Document, error) {
	fz, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	count := fz.NumPage()
	if count <= 0 {
		fz.Close()
		return nil, fmt.Errorf("open %s: document has no pages", path)
	}

	title := ""
	if meta := fz.Metadata(); meta != nil {
		title = meta["title"]
	}

	return &Doc{
		fz:    fz,
		title: document.CleanTitle(title, path),
		count: count,
	}, nil
}

// PageCount returns the number of pages.
func (d *Doc) PageCount() int {
	return d.count
}

// PageSize returns the page's bounds in points.
func (d *Doc) PageSize(index int) (model.Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return model.Size{}, document.ErrClosed
	}
	if index < 0 || index >= d.count {
		return model.Size{}, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}

	bounds, err := d.fz.Bound(index)
	if err != nil {
		return model.Size{}, fmt.Errorf("page %d bounds: %w", index, err)
	}
	return model.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}, nil
}

// PageText returns the page's plain text.
func (d *Doc) PageText(index int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return "", document.ErrClosed
	}
	if index < 0 || index >= d.count {
		return "", fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}

	text, err := d.fz.Text(index)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", index, err)
	}
	return strings.TrimSpace(text), nil
}

// Rasterize renders the page at the requested resolution.
func (d *Doc) Rasterize(index, dpi int) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, document.ErrClosed
	}
	if index < 0 || index >= d.count {
		return nil, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}

	img, err := d.fz.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d at %d dpi: %w", index, dpi, err)
	}
	return img, nil
}

// Title returns the document's metadata title, falling back to the file
// name.
func (d *Doc) Title() string {
	return d.title
}

// Close releases the MuPDF handle. It is safe to call more than once.
func (d *Doc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.fz.Close()
}
