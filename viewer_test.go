package lectern

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/nav"
	"github.com/tsawler/lectern/zoom"
)

// viewerDoc is a test document with 500x700 pages. Rasterize scales the
// pixel size with the requested resolution relative to the default base
// DPI, so at 200 dpi a page renders at its natural size and at 400 dpi at
// twice that. With default spacing and margins, page i therefore starts
// at y = 50 + i*720 until a zoom change relays things out.
type viewerDoc struct {
	count    int
	withText bool
	closed   bool
	renders  []int // dpi of each Rasterize call, in order
}

func (d *viewerDoc) PageCount() int { return d.count }

func (d *viewerDoc) PageSize(index int) (model.Size, error) {
	if index < 0 || index >= d.count {
		return model.Size{}, fmt.Errorf("page %d out of range", index)
	}
	return model.Size{Width: 500, Height: 700}, nil
}

func (d *viewerDoc) Rasterize(index, dpi int) (image.Image, error) {
	if index < 0 || index >= d.count {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	d.renders = append(d.renders, dpi)
	w := int(500 * float64(dpi) / float64(DefaultBaseDPI))
	h := int(700 * float64(dpi) / float64(DefaultBaseDPI))
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (d *viewerDoc) Title() string { return "Test Document" }

func (d *viewerDoc) Close() error {
	d.closed = true
	return nil
}

// textedDoc adds PageText so the viewer sees a document.TextProvider.
type textedDoc struct {
	viewerDoc
}

func (d *textedDoc) PageText(index int) (string, error) {
	if index < 0 || index >= d.count {
		return "", fmt.Errorf("page %d out of range", index)
	}
	return fmt.Sprintf("text of page %d", index), nil
}

// fakeRecognizer stands in for an OCR client.
type fakeRecognizer struct {
	calls int
}

func (r *fakeRecognizer) ImageText(img image.Image) (string, error) {
	r.calls++
	return "recognized", nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewDefaults(t *testing.T) {
	v := New()

	if v.HasDocument() {
		t.Error("new viewer should have no document")
	}
	if v.PageCount() != 0 {
		t.Errorf("expected 0 pages, got %d", v.PageCount())
	}
	if !almostEqual(v.Zoom(), 1.0) {
		t.Errorf("expected zoom 1.0, got %v", v.Zoom())
	}
	if v.Mode() != zoom.Free {
		t.Errorf("expected free zoom mode, got %v", v.Mode())
	}
	if v.CurrentPage() != 0 {
		t.Errorf("expected current page 0, got %d", v.CurrentPage())
	}
}

func TestSetDocumentPreRenders(t *testing.T) {
	doc := &viewerDoc{count: 10}
	v := New()

	if err := v.SetDocument(doc); err != nil {
		t.Fatalf("set document: %v", err)
	}

	if !v.HasDocument() {
		t.Fatal("expected a loaded document")
	}
	if v.PageCount() != 10 {
		t.Errorf("expected 10 pages, got %d", v.PageCount())
	}
	if v.Title() != "Test Document" {
		t.Errorf("unexpected title %q", v.Title())
	}
	if len(doc.renders) != DefaultPreRenderCount {
		t.Fatalf("expected %d pre-renders, got %d", DefaultPreRenderCount, len(doc.renders))
	}
	for i, dpi := range doc.renders {
		if dpi != DefaultBaseDPI {
			t.Errorf("pre-render %d at %d dpi, want %d", i, dpi, DefaultBaseDPI)
		}
	}
	if _, ok := v.PageImage(0); !ok {
		t.Error("page 0 should be rendered")
	}
	if _, ok := v.PageImage(9); ok {
		t.Error("page 9 should not be rendered yet")
	}
}

func TestSetDocumentFewerPagesThanPreRender(t *testing.T) {
	doc := &viewerDoc{count: 2}
	v := New()

	if err := v.SetDocument(doc); err != nil {
		t.Fatalf("set document: %v", err)
	}
	if len(doc.renders) != 2 {
		t.Errorf("expected 2 renders, got %d", len(doc.renders))
	}
}

func TestScrollTracksCurrentPage(t *testing.T) {
	var got []int
	v := New(WithPageChangedFunc(func(index int) {
		got = append(got, index)
	}))
	if err := v.SetDocument(&viewerDoc{count: 10}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)
	got = nil // drop the page-changed from landing on the first page

	// Viewport center 1600 lands inside page 2 (1490..2190).
	v.Scroll(1200)

	if v.CurrentPage() != 2 {
		t.Errorf("expected current page 2, got %d", v.CurrentPage())
	}
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected one page change to 2, got %v", got)
	}

	// A second scroll within the same page stays quiet.
	v.Scroll(1250)
	if len(got) != 1 {
		t.Errorf("expected no further notifications, got %v", got)
	}
}

func TestGoToPageRequestsCenteredScroll(t *testing.T) {
	var offsets []float64
	v := New(WithScrollRequestFunc(func(offset float64) {
		offsets = append(offsets, offset)
	}))
	if err := v.SetDocument(&viewerDoc{count: 10}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)

	v.GoToPage(2)

	if v.CurrentPage() != 2 {
		t.Errorf("expected current page 2, got %d", v.CurrentPage())
	}
	// Page 2 spans 1490..2190; centering a 700-high page in an 800-high
	// viewport puts the offset at 1490 - 50 = 1440.
	if len(offsets) == 0 || !almostEqual(offsets[len(offsets)-1], 1440) {
		t.Errorf("expected scroll request to 1440, got %v", offsets)
	}
	if !almostEqual(v.ScrollOffset(), 1440) {
		t.Errorf("expected stored offset 1440, got %v", v.ScrollOffset())
	}
}

func TestZoomChangeReRendersAtNewDPI(t *testing.T) {
	var changes []float64
	v := New(WithZoomChangedFunc(func(factor float64, mode zoom.Mode) {
		changes = append(changes, factor)
	}))
	doc := &viewerDoc{count: 10}
	if err := v.SetDocument(doc); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)
	v.Scroll(1200)
	before := len(doc.renders)

	v.SetZoom(2.0)

	if len(changes) != 1 || !almostEqual(changes[0], 2.0) {
		t.Fatalf("expected one zoom change to 2.0, got %v", changes)
	}
	if len(doc.renders) <= before {
		t.Fatal("expected a re-render after the zoom change")
	}
	for _, dpi := range doc.renders[before:] {
		if dpi != 400 {
			t.Errorf("expected re-render at 400 dpi, got %d", dpi)
		}
	}
}

func TestZoomChangeKeepsViewportAnchored(t *testing.T) {
	v := New()
	if err := v.SetDocument(&viewerDoc{count: 10}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)
	v.Scroll(1200) // center 1600, inside page 2

	v.SetZoom(2.0)

	// After doubling, the viewport center must still sit inside page 2's
	// new geometry.
	center := v.ScrollOffset() + 400
	geom, err := v.PageGeometry(2)
	if err != nil {
		t.Fatal(err)
	}
	if !geom.ContainsY(center) {
		t.Errorf("viewport center %v outside page 2 span %v..%v", center, geom.Top(), geom.Bottom())
	}
	if v.ScrollOffset() <= 1200 {
		t.Errorf("expected a larger offset after zooming in, got %v", v.ScrollOffset())
	}
}

func TestFitWidthTracksResize(t *testing.T) {
	v := New()
	if err := v.SetDocument(&viewerDoc{count: 3}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)

	v.FitWidth()
	if !v.IsFitWidth() {
		t.Fatal("expected fit-width mode")
	}
	// (1000 - 100) / 500
	if !almostEqual(v.Zoom(), 1.8) {
		t.Errorf("expected zoom 1.8, got %v", v.Zoom())
	}

	v.Resize(600, 800)
	if !v.IsFitWidth() {
		t.Error("resize should keep fit-width mode")
	}
	// (600 - 100) / 500
	if !almostEqual(v.Zoom(), 1.0) {
		t.Errorf("expected zoom 1.0 after resize, got %v", v.Zoom())
	}
}

func TestFitPageUsesBothDimensions(t *testing.T) {
	v := New()
	if err := v.SetDocument(&viewerDoc{count: 3}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)

	v.FitPage()
	if !v.IsFitPage() {
		t.Fatal("expected fit-page mode")
	}
	// min((1000-100)/500, (800-100)/700) = min(1.8, 1.0)
	if !almostEqual(v.Zoom(), 1.0) {
		t.Errorf("expected zoom 1.0, got %v", v.Zoom())
	}
}

func TestHandleKeyZoomChords(t *testing.T) {
	v := New()
	if err := v.SetDocument(&viewerDoc{count: 3}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)

	if !v.HandleKey(nav.KeyPlus, true) {
		t.Error("ctrl+plus should be handled")
	}
	if !almostEqual(v.Zoom(), 1.1) {
		t.Errorf("expected zoom 1.1, got %v", v.Zoom())
	}

	if !v.HandleKey(nav.KeyMinus, true) {
		t.Error("ctrl+minus should be handled")
	}
	if !almostEqual(v.Zoom(), 1.0) {
		t.Errorf("expected zoom 1.0, got %v", v.Zoom())
	}

	v.SetZoom(3.0)
	if !v.HandleKey(nav.KeyZero, true) {
		t.Error("ctrl+zero should be handled")
	}
	if !almostEqual(v.Zoom(), 1.0) {
		t.Errorf("expected zoom reset to 1.0, got %v", v.Zoom())
	}

	if v.HandleKey(nav.KeyDown, true) {
		t.Error("ctrl+down is not a zoom chord")
	}
}

func TestHandleKeyNavigation(t *testing.T) {
	v := New()
	if err := v.SetDocument(&viewerDoc{count: 3}); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)

	if !v.HandleKey(nav.KeyDown, false) {
		t.Error("down should be handled")
	}
	if v.CurrentPage() != 1 {
		t.Errorf("expected page 1 after down, got %d", v.CurrentPage())
	}

	if !v.HandleKey(nav.KeyEnd, false) {
		t.Error("end should be handled")
	}
	if v.CurrentPage() != 2 {
		t.Errorf("expected last page, got %d", v.CurrentPage())
	}

	if !v.HandleKey(nav.KeyHome, false) {
		t.Error("home should be handled")
	}
	if v.CurrentPage() != 0 {
		t.Errorf("expected first page, got %d", v.CurrentPage())
	}
}

func TestExtractAllTextFromProvider(t *testing.T) {
	v := New()
	if err := v.SetDocument(&textedDoc{viewerDoc{count: 3}}); err != nil {
		t.Fatal(err)
	}

	text, err := v.ExtractAllText()
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "text of page 0\n\ntext of page 1\n\ntext of page 2"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestExtractAllTextFallsBackToOCR(t *testing.T) {
	rec := &fakeRecognizer{}
	v := New(WithOCR(rec))
	if err := v.SetDocument(&viewerDoc{count: 3}); err != nil {
		t.Fatal(err)
	}

	text, err := v.ExtractAllText()
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.calls != 3 {
		t.Errorf("expected 3 recognizer calls, got %d", rec.calls)
	}
	if strings.Count(text, "recognized") != 3 {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtractAllTextWithoutSource(t *testing.T) {
	v := New()
	if err := v.SetDocument(&viewerDoc{count: 3}); err != nil {
		t.Fatal(err)
	}

	if _, err := v.ExtractAllText(); !errors.Is(err, ErrNoTextSource) {
		t.Errorf("expected ErrNoTextSource, got %v", err)
	}
}

func TestCloseDocument(t *testing.T) {
	doc := &viewerDoc{count: 3}
	v := New()
	if err := v.SetDocument(doc); err != nil {
		t.Fatal(err)
	}
	v.Resize(1000, 800)
	v.Scroll(1200)

	v.CloseDocument()

	if v.HasDocument() {
		t.Error("expected no document after close")
	}
	if !doc.closed {
		t.Error("expected the document to be closed")
	}
	if v.PageCount() != 0 {
		t.Errorf("expected 0 pages, got %d", v.PageCount())
	}
	if v.ScrollOffset() != 0 {
		t.Errorf("expected scroll offset reset, got %v", v.ScrollOffset())
	}
	if v.CurrentPage() != 0 {
		t.Errorf("expected current page reset, got %d", v.CurrentPage())
	}

	// Closing again is harmless.
	v.CloseDocument()
}

func TestSetDocumentReplacesPrevious(t *testing.T) {
	first := &viewerDoc{count: 3}
	second := &viewerDoc{count: 5}
	v := New()

	if err := v.SetDocument(first); err != nil {
		t.Fatal(err)
	}
	if err := v.SetDocument(second); err != nil {
		t.Fatal(err)
	}

	if !first.closed {
		t.Error("expected the first document to be closed")
	}
	if second.closed {
		t.Error("the second document must stay open")
	}
	if v.PageCount() != 5 {
		t.Errorf("expected 5 pages, got %d", v.PageCount())
	}
}

func TestWithOptions(t *testing.T) {
	doc := &viewerDoc{count: 10}
	v := New(
		WithBaseDPI(100),
		WithPreRenderCount(2),
		WithZoomLimits(0.25, 4.0),
	)
	if err := v.SetDocument(doc); err != nil {
		t.Fatal(err)
	}

	if len(doc.renders) != 2 {
		t.Errorf("expected 2 pre-renders, got %d", len(doc.renders))
	}
	for _, dpi := range doc.renders {
		if dpi != 100 {
			t.Errorf("expected renders at 100 dpi, got %d", dpi)
		}
	}

	v.SetZoom(9.0)
	if !almostEqual(v.Zoom(), 4.0) {
		t.Errorf("expected zoom clamped to 4.0, got %v", v.Zoom())
	}
}
