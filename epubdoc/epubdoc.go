// Package epubdoc provides a pure-Go EPUB document provider for the
// viewer engine. The EPUB container is read once: the OPF package
// document supplies the metadata and reading order, each spine chapter's
// XHTML is flattened into text lines, and the lines are paginated into
// fixed-size pages that rasterize as synthetic text pages. Chapter starts
// are exposed as an outline so a UI can offer a table of contents.
//
// DRM-protected books are rejected with document.ErrEncrypted. Font
// obfuscation is not DRM and is tolerated.
//
// Importing this package registers it for the .epub extension. Builds
// with the fitz tag can route EPUBs through MuPDF instead by calling
// fitzdoc.Open directly.
package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/htmldoc"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/raster"
)

var (
	ErrInvalidArchive = errors.New("epub: invalid or corrupted archive")
	ErrEmptySpine     = errors.New("epub: no readable content in spine")
)

func init() {
	document.Register(".epub", Open)
}

// OutlineEntry marks the page a chapter starts on.
type OutlineEntry struct {
	Title string
	Page  int
}

// Doc is a document.Document backed by the paginated chapters of an EPUB.
// All content is extracted up front; the archive is not kept open.
type Doc struct {
	pages   [][]string
	size    model.Size
	title   string
	outline []OutlineEntry
}

// Open reads the EPUB file at path.
func Open(path string) (document.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, ErrInvalidArchive)
	}
	defer zr.Close()

	doc, err := load(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc.title = document.CleanTitle(doc.title, path)
	return doc, nil
}

// FromReader reads an EPUB from an io.ReaderAt.
func FromReader(ra io.ReaderAt, size int64) (*Doc, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, ErrInvalidArchive
	}
	return load(zr)
}

func load(zr *zip.Reader) (*Doc, error) {
	if err := checkForDRM(zr); err != nil {
		return nil, err
	}

	opfPath, err := parseContainer(zr)
	if err != nil {
		return nil, err
	}
	pkg, baseDir, err := parseOPF(zr, opfPath)
	if err != nil {
		return nil, err
	}

	d := &Doc{
		size:  raster.DefaultPageSize,
		title: pkg.Metadata.Title,
	}

	for _, ref := range pkg.Spine {
		item, ok := pkg.Manifest[ref.IDRef]
		if !ok {
			continue
		}
		content, err := readFile(zr, resolveHref(baseDir, item.Href))
		if err != nil {
			// A spine entry pointing at a missing file is a packaging
			// defect in the book, not a reason to fail the whole open.
			continue
		}

		text, title, err := htmldoc.Flatten(bytes.NewReader(content))
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}

		if title == "" {
			title = fmt.Sprintf("Chapter %d", len(d.outline)+1)
		}
		d.outline = append(d.outline, OutlineEntry{Title: title, Page: len(d.pages)})
		d.pages = append(d.pages, raster.Paginate(text, d.size)...)
	}

	if len(d.pages) == 0 {
		return nil, ErrEmptySpine
	}
	return d, nil
}

// PageCount returns the number of paginated pages across all chapters.
func (d *Doc) PageCount() int {
	return len(d.pages)
}

// PageSize returns the synthetic page size in points.
func (d *Doc) PageSize(index int) (model.Size, error) {
	if index < 0 || index >= len(d.pages) {
		return model.Size{}, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return d.size, nil
}

// PageText returns the page's flattened text.
func (d *Doc) PageText(index int) (string, error) {
	if index < 0 || index >= len(d.pages) {
		return "", fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return strings.Join(d.pages[index], "\n"), nil
}

// Rasterize draws the page's text lines at the requested resolution.
func (d *Doc) Rasterize(index, dpi int) (image.Image, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return raster.RenderPage(d.pages[index], d.size, dpi), nil
}

// Title returns the book's metadata title, falling back to the file name.
func (d *Doc) Title() string {
	return d.title
}

// Outline returns one entry per chapter in reading order.
func (d *Doc) Outline() []OutlineEntry {
	return d.outline
}

// Close is a no-op; the archive is released after loading.
func (d *Doc) Close() error {
	return nil
}
