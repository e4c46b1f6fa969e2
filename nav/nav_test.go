package nav

import (
	"image"
	"testing"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/pages"
)

// fixedSizeDocument is a mock document whose pages rasterize at their
// natural size regardless of DPI, keeping layout math stable in tests.
// Default layout: page i spans y = 50 + i*720 .. 50 + i*720 + 700.
type fixedSizeDocument struct {
	pages int
}

func (d *fixedSizeDocument) PageCount() int { return d.pages }

func (d *fixedSizeDocument) PageSize(index int) (model.Size, error) {
	if index < 0 || index >= d.pages {
		return model.Size{}, document.ErrPageOutOfRange
	}
	return model.Size{Width: 500, Height: 700}, nil
}

func (d *fixedSizeDocument) Rasterize(index, dpi int) (image.Image, error) {
	if index < 0 || index >= d.pages {
		return nil, document.ErrPageOutOfRange
	}
	return image.NewRGBA(image.Rect(0, 0, 500, 700)), nil
}

func (d *fixedSizeDocument) Title() string { return "fixed" }
func (d *fixedSizeDocument) Close() error  { return nil }

func newTracker(t *testing.T, pageCount int) (*Tracker, *pages.Manager) {
	t.Helper()

	pm := pages.NewManager()
	if err := pm.Open(&fixedSizeDocument{pages: pageCount}); err != nil {
		t.Fatalf("open: %v", err)
	}
	return NewTracker(pm), pm
}

// TestGoToPageCenters tests that a jump requests a centering scroll offset
func TestGoToPageCenters(t *testing.T) {
	tr, _ := newTracker(t, 5)
	tr.SetViewportHeight(800)

	var scrollRequests []float64
	var pageChanges []int
	tr.SetScrollRequestFunc(func(offset float64) { scrollRequests = append(scrollRequests, offset) })
	tr.SetPageChangedFunc(func(index int) { pageChanges = append(pageChanges, index) })

	tr.GoToPage(1)

	if tr.CurrentPage() != 1 {
		t.Fatalf("expected current page 1, got %d", tr.CurrentPage())
	}
	if len(scrollRequests) != 1 {
		t.Fatalf("expected 1 scroll request, got %d", len(scrollRequests))
	}
	// Page 1 spans 770..1470; centering in an 800-high viewport gives
	// 770 - (800-700)/2 = 720.
	if scrollRequests[0] != 720 {
		t.Errorf("expected scroll offset 720, got %f", scrollRequests[0])
	}
	if len(pageChanges) != 1 || pageChanges[0] != 1 {
		t.Errorf("expected page-changed notification for 1, got %v", pageChanges)
	}
}

// TestGoToPageFloorsAtZero tests that centering never requests a negative offset
func TestGoToPageFloorsAtZero(t *testing.T) {
	tr, _ := newTracker(t, 5)
	tr.SetViewportHeight(2000)

	var offset float64 = -1
	tr.SetScrollRequestFunc(func(o float64) { offset = o })

	tr.GoToPage(0)

	if offset != 0 {
		t.Errorf("expected offset floored at 0, got %f", offset)
	}
}

// TestGoToPageRendersTarget tests that a jump renders the target slot
func TestGoToPageRendersTarget(t *testing.T) {
	tr, pm := newTracker(t, 5)

	tr.GoToPage(4)

	if pm.Slot(4).Status() != pages.Rendered {
		t.Errorf("expected jump target rendered, got %v", pm.Slot(4).Status())
	}
}

// TestGoToPageOutOfRange tests that invalid indexes are rejected as no-ops
func TestGoToPageOutOfRange(t *testing.T) {
	tr, _ := newTracker(t, 5)
	tr.GoToPage(2)

	var notified bool
	tr.SetPageChangedFunc(func(int) { notified = true })
	tr.SetScrollRequestFunc(func(float64) { notified = true })

	tr.GoToPage(-1)
	tr.GoToPage(5)

	if tr.CurrentPage() != 2 {
		t.Errorf("expected current page unchanged at 2, got %d", tr.CurrentPage())
	}
	if notified {
		t.Error("rejected jump must not emit notifications")
	}
}

// TestGoToPageSinglePage tests the one-page document edge case
func TestGoToPageSinglePage(t *testing.T) {
	tr, _ := newTracker(t, 1)

	tr.GoToPage(0)
	tr.GoToPage(1)

	if tr.CurrentPage() != 0 {
		t.Errorf("expected current page 0, got %d", tr.CurrentPage())
	}
}

// TestUpdateFromScroll tests geometric containment of the viewport center
func TestUpdateFromScroll(t *testing.T) {
	tr, _ := newTracker(t, 5)

	tests := []struct {
		scroll float64
		want   int
	}{
		{0, 0},    // center 400 inside page 0 (50..750)
		{700, 1},  // center 1100 inside page 1 (770..1470)
		{1500, 2}, // center 1900 inside page 2 (1490..2190)
	}

	for _, tt := range tests {
		tr.UpdateFromScroll(tt.scroll, 800)
		if tr.CurrentPage() != tt.want {
			t.Errorf("scroll %f: expected page %d, got %d", tt.scroll, tt.want, tr.CurrentPage())
		}
	}
}

// TestUpdateFromScrollGapKeepsPage tests that a center in a spacing gap
// leaves the current page unchanged
func TestUpdateFromScrollGapKeepsPage(t *testing.T) {
	tr, _ := newTracker(t, 5)

	tr.UpdateFromScroll(700, 800) // page 1
	if tr.CurrentPage() != 1 {
		t.Fatalf("setup: expected page 1, got %d", tr.CurrentPage())
	}

	// Center 760 falls in the gap between page 0 (ends 750) and
	// page 1 (starts 770).
	tr.UpdateFromScroll(360, 800)
	if tr.CurrentPage() != 1 {
		t.Errorf("expected page unchanged in gap, got %d", tr.CurrentPage())
	}

	// Center far past the last page.
	tr.UpdateFromScroll(100000, 800)
	if tr.CurrentPage() != 1 {
		t.Errorf("expected page unchanged past end, got %d", tr.CurrentPage())
	}
}

// TestUpdateFromScrollMonotonic tests that scrolling strictly downward
// never decreases the current page
func TestUpdateFromScrollMonotonic(t *testing.T) {
	tr, _ := newTracker(t, 10)

	previous := tr.CurrentPage()
	for scroll := 0.0; scroll <= 7000; scroll += 50 {
		tr.UpdateFromScroll(scroll, 800)
		if tr.CurrentPage() < previous {
			t.Fatalf("page decreased from %d to %d at scroll %f", previous, tr.CurrentPage(), scroll)
		}
		previous = tr.CurrentPage()
	}
}

// TestUpdateFromScrollNotifiesOnChangeOnly tests de-duplicated notification
func TestUpdateFromScrollNotifiesOnChangeOnly(t *testing.T) {
	tr, _ := newTracker(t, 5)

	var changes int
	tr.SetPageChangedFunc(func(int) { changes++ })

	tr.UpdateFromScroll(700, 800)
	tr.UpdateFromScroll(710, 800)
	tr.UpdateFromScroll(720, 800)

	if changes != 1 {
		t.Errorf("expected 1 notification, got %d", changes)
	}
}

// TestSequentialNavigation tests next/previous/first/last clamping
func TestSequentialNavigation(t *testing.T) {
	tr, _ := newTracker(t, 3)

	tr.NextPage()
	tr.NextPage()
	if tr.CurrentPage() != 2 {
		t.Fatalf("expected page 2, got %d", tr.CurrentPage())
	}

	tr.NextPage() // clamped at the end
	if tr.CurrentPage() != 2 {
		t.Errorf("expected clamp at last page, got %d", tr.CurrentPage())
	}

	tr.FirstPage()
	if tr.CurrentPage() != 0 {
		t.Errorf("expected first page, got %d", tr.CurrentPage())
	}

	tr.PreviousPage() // clamped at the start
	if tr.CurrentPage() != 0 {
		t.Errorf("expected clamp at first page, got %d", tr.CurrentPage())
	}

	tr.LastPage()
	if tr.CurrentPage() != 2 {
		t.Errorf("expected last page, got %d", tr.CurrentPage())
	}
}

// TestHandleKey tests keyboard dispatch and fall-through
func TestHandleKey(t *testing.T) {
	tr, _ := newTracker(t, 5)

	handledKeys := []struct {
		key  Key
		want int
	}{
		{KeyDown, 1},
		{KeyRight, 2},
		{KeyPageDown, 3},
		{KeyUp, 2},
		{KeyLeft, 1},
		{KeyPageUp, 0},
		{KeyEnd, 4},
		{KeyHome, 0},
	}

	for _, tt := range handledKeys {
		if !tr.HandleKey(tt.key) {
			t.Errorf("expected key %v handled", tt.key)
		}
		if tr.CurrentPage() != tt.want {
			t.Errorf("key %v: expected page %d, got %d", tt.key, tt.want, tr.CurrentPage())
		}
	}

	for _, key := range []Key{KeyPlus, KeyMinus, KeyZero} {
		if tr.HandleKey(key) {
			t.Errorf("expected key %v reported unhandled", key)
		}
	}
}

// TestReset tests returning to page 0 silently
func TestReset(t *testing.T) {
	tr, _ := newTracker(t, 5)
	tr.GoToPage(3)

	var notified bool
	tr.SetPageChangedFunc(func(int) { notified = true })

	tr.Reset()

	if tr.CurrentPage() != 0 {
		t.Errorf("expected page 0 after reset, got %d", tr.CurrentPage())
	}
	if notified {
		t.Error("reset must not notify")
	}
}
