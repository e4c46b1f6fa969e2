package imagedoc

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
)

// TestFromImages tests wrapping in-memory pages
func TestFromImages(t *testing.T) {
	pages := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 400, 600)),
		image.NewRGBA(image.Rect(0, 0, 800, 200)),
	}

	doc, err := FromImages(pages, "scans")
	if err != nil {
		t.Fatalf("FromImages: %v", err)
	}

	if doc.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", doc.PageCount())
	}
	if doc.Title() != "scans" {
		t.Errorf("expected title 'scans', got %q", doc.Title())
	}

	size, err := doc.PageSize(1)
	if err != nil {
		t.Fatalf("PageSize: %v", err)
	}
	if size != (model.Size{Width: 800, Height: 200}) {
		t.Errorf("unexpected size %+v", size)
	}
}

// TestFromImagesEmpty tests the zero-page guard
func TestFromImagesEmpty(t *testing.T) {
	if _, err := FromImages(nil, "empty"); !errors.Is(err, ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

// TestRasterizeScaling tests DPI-proportional resampling
func TestRasterizeScaling(t *testing.T) {
	doc, err := FromImages([]image.Image{image.NewRGBA(image.Rect(0, 0, 100, 200))}, "one")
	if err != nil {
		t.Fatalf("FromImages: %v", err)
	}

	tests := []struct {
		dpi        int
		wantWidth  int
		wantHeight int
	}{
		{72, 100, 200},
		{144, 200, 400},
		{36, 50, 100},
	}

	for _, tt := range tests {
		img, err := doc.Rasterize(0, tt.dpi)
		if err != nil {
			t.Fatalf("Rasterize at %d dpi: %v", tt.dpi, err)
		}
		b := img.Bounds()
		if b.Dx() != tt.wantWidth || b.Dy() != tt.wantHeight {
			t.Errorf("dpi %d: expected %dx%d, got %dx%d",
				tt.dpi, tt.wantWidth, tt.wantHeight, b.Dx(), b.Dy())
		}
	}
}

// TestRasterizeOutOfRange tests index validation
func TestRasterizeOutOfRange(t *testing.T) {
	doc, _ := FromImages([]image.Image{image.NewRGBA(image.Rect(0, 0, 10, 10))}, "one")

	if _, err := doc.Rasterize(1, 72); !errors.Is(err, document.ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
}

// TestOpenDir tests opening a directory of images in name order
func TestOpenDir(t *testing.T) {
	dir := t.TempDir()

	writePNG(t, filepath.Join(dir, "page-2.png"), 300, 100)
	writePNG(t, filepath.Join(dir, "page-1.png"), 100, 300)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}

	first, _ := doc.PageSize(0)
	if first != (model.Size{Width: 100, Height: 300}) {
		t.Errorf("expected page-1.png first, got size %+v", first)
	}
}

// TestOpenDirNoImages tests the empty-directory failure
func TestOpenDirNoImages(t *testing.T) {
	if _, err := OpenDir(t.TempDir()); !errors.Is(err, ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

// TestOpenSingleFile tests opening one image file as a one-page document
func TestOpenSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	writePNG(t, path, 640, 480)

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}
	if doc.Title() != "scan" {
		t.Errorf("expected title 'scan', got %q", doc.Title())
	}
}

// TestRegisteredExtensions tests registry side effects
func TestRegisteredExtensions(t *testing.T) {
	for _, name := range []string{"a.png", "b.jpg", "c.jpeg", "d.gif"} {
		if !document.IsSupported(name) {
			t.Errorf("expected %s supported", name)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}
