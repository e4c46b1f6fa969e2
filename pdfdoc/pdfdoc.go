package pdfdoc

import (
	"fmt"
	"image"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/raster"
)

func init() {
	document.Register(".pdf", Open)
}

// PDF is a document.Document backed by a parsed PDF file.
type PDF struct {
	file   *os.File
	reader *pdflib.Reader
	path   string
	title  string
	sizes  []model.Size
	texts  []*string // per-page text, extracted on first use
	closed bool
}

// Open parses the PDF at path. Password-protected files fail with
// document.ErrEncrypted; they are never prompted for.
func Open(path string) (document.Document, error) {
	file, reader, err := pdflib.Open(path)
	if err != nil {
		if isEncryptedError(err) {
			return nil, fmt.Errorf("open pdf %s: %w", path, document.ErrEncrypted)
		}
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	count := reader.NumPage()
	if count <= 0 {
		file.Close()
		return nil, fmt.Errorf("open pdf %s: document has no pages", path)
	}

	d := &PDF{
		file:   file,
		reader: reader,
		path:   path,
		sizes:  make([]model.Size, count),
		texts:  make([]*string, count),
	}

	// The library uses 1-based page numbers.
	for i := 0; i < count; i++ {
		d.sizes[i] = mediaBoxSize(reader.Page(i + 1))
	}
	d.title = document.CleanTitle(infoTitle(reader), path)

	return d, nil
}

// PageCount returns the number of pages.
func (d *PDF) PageCount() int {
	return len(d.sizes)
}

// PageSize returns the page's MediaBox dimensions in points.
func (d *PDF) PageSize(index int) (model.Size, error) {
	if index < 0 || index >= len(d.sizes) {
		return model.Size{}, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return d.sizes[index], nil
}

// PageText returns the page's plain text, extracting and caching it on
// first use.
func (d *PDF) PageText(index int) (string, error) {
	if index < 0 || index >= len(d.texts) {
		return "", fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	if d.closed {
		return "", document.ErrClosed
	}
	if d.texts[index] != nil {
		return *d.texts[index], nil
	}

	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		empty := ""
		d.texts[index] = &empty
		return "", nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract text from page %d: %w", index, err)
	}

	d.texts[index] = &text
	return text, nil
}

// Rasterize draws the page's extracted text onto a synthetic page image
// at the requested resolution.
func (d *PDF) Rasterize(index, dpi int) (image.Image, error) {
	size, err := d.PageSize(index)
	if err != nil {
		return nil, err
	}
	if d.closed {
		return nil, document.ErrClosed
	}

	text, err := d.PageText(index)
	if err != nil {
		return nil, err
	}

	lines := raster.WrapText(text, raster.MaxLineChars(size))
	return raster.RenderPage(lines, size, dpi), nil
}

// Title returns the Info dictionary title, falling back to the file name.
func (d *PDF) Title() string {
	return d.title
}

// Close releases the underlying file. Idempotent.
func (d *PDF) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}

// mediaBoxSize resolves the page's MediaBox, walking parent nodes since
// the attribute is inheritable, and falls back to US Letter.
func mediaBoxSize(page pdflib.Page) model.Size {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() || box.Len() != 4 {
			continue
		}

		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if w > 0 && h > 0 {
			return model.Size{Width: w, Height: h}
		}
	}
	return raster.DefaultPageSize
}

func infoTitle(reader *pdflib.Reader) string {
	title := reader.Trailer().Key("Info").Key("Title")
	if title.Kind() != pdflib.String {
		return ""
	}
	return decodePDFString(title.RawString())
}

// decodePDFString decodes a PDF text string: UTF-16BE when it carries a
// byte order mark, otherwise treated as Latin-1 (a close superset of
// PDFDocEncoding for title-like metadata).
func decodePDFString(s string) string {
	if strings.HasPrefix(s, "\xfe\xff") {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := decoder.String(s); err == nil {
			return out
		}
		return ""
	}

	out, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

func isEncryptedError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encrypt") || strings.Contains(msg, "password")
}
