package imagedoc

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Register stdlib decoders for the supported page formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/raster"
)

// ErrNoImages is returned when a directory contains no supported images.
var ErrNoImages = errors.New("imagedoc: no supported images found")

var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

func init() {
	for ext := range supportedExts {
		document.Register(ext, Open)
	}
}

// Doc is a document.Document whose pages are pre-decoded images.
type Doc struct {
	pages []image.Image
	title string
}

// Open opens a single image file as a one-page document, or a directory
// of image files as one page per file in name order.
func Open(path string) (document.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open image document %s: %w", path, err)
	}
	if info.IsDir() {
		return OpenDir(path)
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	return &Doc{
		pages: []image.Image{img},
		title: document.CleanTitle("", path),
	}, nil
}

// OpenDir opens every supported image in a directory, sorted by file
// name, as the pages of one document.
func OpenDir(dir string) (document.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open image document %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	sort.Strings(names)

	pages := make([]image.Image, 0, len(names))
	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		pages = append(pages, img)
	}

	return &Doc{
		pages: pages,
		title: document.CleanTitle("", dir),
	}, nil
}

// FromImages wraps in-memory images as a document. The slice is used
// directly and must not be mutated afterwards.
func FromImages(pages []image.Image, title string) (*Doc, error) {
	if len(pages) == 0 {
		return nil, ErrNoImages
	}
	return &Doc{pages: pages, title: title}, nil
}

// PageCount returns the number of image pages.
func (d *Doc) PageCount() int {
	return len(d.pages)
}

// PageSize returns the page's pixel dimensions interpreted at 72 DPI.
func (d *Doc) PageSize(index int) (model.Size, error) {
	if index < 0 || index >= len(d.pages) {
		return model.Size{}, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}

	b := d.pages[index].Bounds()
	return model.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}, nil
}

// Rasterize returns the page image resampled for the requested resolution.
// At 72 DPI the original image is returned as-is.
func (d *Doc) Rasterize(index, dpi int) (image.Image, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	if dpi <= 0 {
		dpi = raster.BaseDPI
	}

	img := d.pages[index]
	if dpi == raster.BaseDPI {
		return img, nil
	}

	b := img.Bounds()
	return raster.Scale(img, b.Dx()*dpi/raster.BaseDPI, b.Dy()*dpi/raster.BaseDPI), nil
}

// Title returns the configured title.
func (d *Doc) Title() string {
	return d.title
}

// Close is a no-op; images are held in memory.
func (d *Doc) Close() error {
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
