package nav

import "github.com/tsawler/lectern/pages"

// Key identifies a navigation or zoom key independent of any toolkit's
// key codes.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyPlus
	KeyEqual
	KeyMinus
	KeyUnderscore
	KeyZero
)

// Defaults used before the surrounding shell reports real values.
const (
	DefaultDPI            = 200
	DefaultViewportHeight = 500.0
)

// Tracker maps the current scroll position to a page index and computes
// target scroll offsets for explicit jumps. It reads slot geometry from
// the page manager but never mutates slot state beyond requesting renders.
type Tracker struct {
	pages *pages.Manager

	current        int
	dpi            int
	viewportHeight float64

	onPageChanged   func(index int)
	onScrollRequest func(offset float64)
}

// NewTracker creates a tracker over the given page manager.
func NewTracker(pm *pages.Manager) *Tracker {
	return &Tracker{
		pages:          pm,
		dpi:            DefaultDPI,
		viewportHeight: DefaultViewportHeight,
	}
}

// SetPageChangedFunc installs the callback invoked when the current page
// index changes.
func (t *Tracker) SetPageChangedFunc(fn func(index int)) {
	t.onPageChanged = fn
}

// SetScrollRequestFunc installs the callback invoked when a jump wants the
// scroll position moved.
func (t *Tracker) SetScrollRequestFunc(fn func(offset float64)) {
	t.onScrollRequest = fn
}

// SetRenderDPI updates the resolution used when a jump target needs an
// on-demand render.
func (t *Tracker) SetRenderDPI(dpi int) {
	if dpi > 0 {
		t.dpi = dpi
	}
}

// RenderDPI returns the resolution used for jump-target renders.
func (t *Tracker) RenderDPI() int {
	return t.dpi
}

// SetViewportHeight updates the viewport height used for centering math.
func (t *Tracker) SetViewportHeight(height float64) {
	if height > 0 {
		t.viewportHeight = height
	}
}

// CurrentPage returns the tracked page index.
func (t *Tracker) CurrentPage() int {
	return t.current
}

// Reset returns the tracker to page 0 without emitting notifications,
// used when the document is closed or replaced.
func (t *Tracker) Reset() {
	t.current = 0
}

// GoToPage jumps to a page. Out-of-range indexes are rejected as no-ops.
// The target slot is rendered at the current resolution in case it was
// never inside the pre-rendered or visible window, then a scroll offset
// that vertically centers the slot is requested. Centering is best-effort:
// an unrendered slot contributes its placeholder geometry, which gets
// corrected once the page renders and the layout recomputes.
func (t *Tracker) GoToPage(index int) {
	if t.pages == nil {
		return
	}
	if index < 0 || index >= t.pages.PageCount() {
		return
	}

	t.current = index

	// Failures are recorded on the slot; the jump still happens.
	_ = t.pages.RenderSlot(index, t.dpi)

	slot := t.pages.Slot(index)
	if slot == nil {
		return
	}
	geom := slot.Geometry()

	offset := geom.Top() - (t.viewportHeight-geom.Height)/2
	if offset < 0 {
		offset = 0
	}

	if t.onScrollRequest != nil {
		t.onScrollRequest(offset)
	}
	if t.onPageChanged != nil {
		t.onPageChanged(t.current)
	}
}

// UpdateFromScroll recomputes the current page from a scroll position. The
// current page is the first slot, in index order, whose vertical span
// contains the viewport's center. When no slot contains the center (the
// center sits in a gap or past the last page) the current page is left
// unchanged. A notification fires only when the index actually changes.
func (t *Tracker) UpdateFromScroll(scrollOffset, viewportHeight float64) {
	if t.pages == nil || t.pages.PageCount() == 0 {
		return
	}
	if viewportHeight > 0 {
		t.viewportHeight = viewportHeight
	}

	center := scrollOffset + viewportHeight/2

	found := -1
	for i := 0; i < t.pages.PageCount(); i++ {
		slot := t.pages.Slot(i)
		if slot == nil {
			continue
		}
		if slot.Geometry().ContainsY(center) {
			found = i
			break
		}
	}

	if found < 0 || found == t.current {
		return
	}

	t.current = found
	if t.onPageChanged != nil {
		t.onPageChanged(t.current)
	}
}

// NextPage advances one page, clamped at the end.
func (t *Tracker) NextPage() {
	if t.pages == nil {
		return
	}
	if t.current < t.pages.PageCount()-1 {
		t.GoToPage(t.current + 1)
	}
}

// PreviousPage goes back one page, clamped at the start.
func (t *Tracker) PreviousPage() {
	if t.current > 0 {
		t.GoToPage(t.current - 1)
	}
}

// FirstPage jumps to page 0.
func (t *Tracker) FirstPage() {
	t.GoToPage(0)
}

// LastPage jumps to the final page.
func (t *Tracker) LastPage() {
	if t.pages == nil {
		return
	}
	if count := t.pages.PageCount(); count > 0 {
		t.GoToPage(count - 1)
	}
}

// HandleKey dispatches a navigation key and reports whether it was
// handled. Unrecognized keys return false so the caller can fall through
// to default handling.
func (t *Tracker) HandleKey(key Key) bool {
	switch key {
	case KeyRight, KeyDown, KeyPageDown:
		t.NextPage()
		return true
	case KeyLeft, KeyUp, KeyPageUp:
		t.PreviousPage()
		return true
	case KeyHome:
		t.FirstPage()
		return true
	case KeyEnd:
		t.LastPage()
		return true
	default:
		return false
	}
}
