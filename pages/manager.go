package pages

import (
	"errors"
	"fmt"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
)

// Layout and scheduling defaults, matching the viewer's reading layout.
const (
	DefaultSpacing       = 20.0
	DefaultMargin        = 50.0
	DefaultAvgPageHeight = 600.0 // heuristic for visible-range estimation
)

// Placeholder size for slots whose natural size is unknown or degenerate
// (US Letter in typographic points).
var placeholderSize = model.Size{Width: 612, Height: 792}

var (
	// ErrNoDocument is returned by render operations before Open.
	ErrNoDocument = errors.New("pages: no document open")

	// ErrEmptyDocument is returned by Open for documents with zero pages.
	ErrEmptyDocument = errors.New("pages: document has no pages")

	// ErrSlotOutOfRange is returned for render requests outside
	// [0, PageCount). Out-of-range requests are a contract violation and
	// fail instead of clamping.
	ErrSlotOutOfRange = errors.New("pages: slot index out of range")
)

// Manager owns the slot registry and content layout for one open document
// and schedules lazy rendering. It is driven from a single event loop and
// is not safe for concurrent use.
type Manager struct {
	doc   document.Document
	slots []*Slot

	spacing       float64
	margins       model.Margins
	avgPageHeight float64

	contentSize model.Size

	// generation invalidates render results that complete after the
	// document they were issued for was closed or replaced.
	generation uint64
}

// NewManager creates a manager with default spacing, margins, and
// visible-range heuristic.
func NewManager() *Manager {
	return &Manager{
		spacing:       DefaultSpacing,
		margins:       model.UniformMargins(DefaultMargin),
		avgPageHeight: DefaultAvgPageHeight,
	}
}

// SetSpacing updates the vertical gap between consecutive slots.
func (m *Manager) SetSpacing(spacing float64) {
	if spacing < 0 {
		return
	}
	m.spacing = spacing
	m.relayout()
}

// SetMargins updates the margins around the whole page stack.
func (m *Manager) SetMargins(margins model.Margins) {
	m.margins = margins
	m.relayout()
}

// Margins returns the margins around the page stack.
func (m *Manager) Margins() model.Margins {
	return m.margins
}

// SetAveragePageHeight tunes the visible-range estimation heuristic.
func (m *Manager) SetAveragePageHeight(height float64) {
	if height > 0 {
		m.avgPageHeight = height
	}
}

// Open discards any previous state and builds one slot per page of the
// document, each Unrendered with a placeholder geometry. It fails without
// taking ownership when the document is nil or reports zero pages.
func (m *Manager) Open(doc document.Document) error {
	if doc == nil {
		return ErrNoDocument
	}

	count := doc.PageCount()
	if count <= 0 {
		return ErrEmptyDocument
	}

	m.Close()
	m.doc = doc
	m.slots = make([]*Slot, count)

	for i := 0; i < count; i++ {
		natural := placeholderSize
		if size, err := doc.PageSize(i); err == nil && size.IsValid() {
			natural = size
		}
		m.slots[i] = &Slot{
			index:   i,
			status:  Unrendered,
			natural: natural,
			geom:    model.Rect{Width: natural.Width, Height: natural.Height},
		}
	}

	m.relayout()
	return nil
}

// Close discards all slots and the layout. It is idempotent. The manager
// does not close the document; ownership stays with the caller.
func (m *Manager) Close() {
	m.generation++
	m.doc = nil
	m.slots = nil
	m.contentSize = model.Size{}
}

// PageCount returns the number of slots.
func (m *Manager) PageCount() int {
	return len(m.slots)
}

// IsEmpty reports whether no document is open.
func (m *Manager) IsEmpty() bool {
	return len(m.slots) == 0
}

// Slot returns the slot at index, or nil when out of range.
func (m *Manager) Slot(index int) *Slot {
	if index < 0 || index >= len(m.slots) {
		return nil
	}
	return m.slots[index]
}

// ContentSize returns the tight bounding size of the page stack including
// spacing and margins.
func (m *Manager) ContentSize() model.Size {
	return m.contentSize
}

// RenderSlot rasterizes one page at the given resolution. It is a no-op
// when the slot is already Rendered at that exact resolution. On success
// the slot's geometry adopts the pixel size and the content layout is
// recomputed. On failure the slot is marked Failed, keeps its placeholder
// geometry, and will be retried only on a later explicit request.
func (m *Manager) RenderSlot(index, dpi int) error {
	if m.doc == nil {
		return ErrNoDocument
	}
	if index < 0 || index >= len(m.slots) {
		return fmt.Errorf("%w: %d of %d", ErrSlotOutOfRange, index, len(m.slots))
	}

	slot := m.slots[index]
	if slot.status == Rendered && slot.lastDPI == dpi {
		return nil
	}

	gen := m.generation
	img, err := m.doc.Rasterize(index, dpi)

	// Discard stale results: the document was closed or replaced while
	// the rasterizer ran.
	if m.generation != gen {
		return nil
	}

	if err != nil {
		slot.status = Failed
		slot.img = nil
		return fmt.Errorf("render page %d at %d dpi: %w", index, dpi, err)
	}

	bounds := img.Bounds()
	slot.img = img
	slot.status = Rendered
	slot.lastDPI = dpi
	slot.geom.Width = float64(bounds.Dx())
	slot.geom.Height = float64(bounds.Dy())

	m.relayout()
	return nil
}

// VisibleRange estimates the first and last page indexes intersecting the
// scroll window using the average-page-height heuristic, expanded by
// buffer pages on both ends and clamped to valid indexes.
func (m *Manager) VisibleRange(scrollOffset, viewportHeight float64, buffer int) (first, last int) {
	first = int(scrollOffset/m.avgPageHeight) - buffer
	if first < 0 {
		first = 0
	}

	last = int((scrollOffset+viewportHeight)/m.avgPageHeight) + buffer
	if max := len(m.slots) - 1; last > max {
		last = max
	}

	return first, last
}

// RenderVisibleRange renders every slot in the estimated visible range at
// the given resolution. Individual page failures are recorded on their
// slots and do not abort the rest of the range.
func (m *Manager) RenderVisibleRange(scrollOffset, viewportHeight float64, buffer, dpi int) {
	if m.doc == nil || len(m.slots) == 0 {
		return
	}

	first, last := m.VisibleRange(scrollOffset, viewportHeight, buffer)
	for i := first; i <= last; i++ {
		// Failures stay queryable on the slot; keep going.
		_ = m.RenderSlot(i, dpi)
	}
}

// PreRenderInitial renders the first count slots so the first paint is not
// empty. Counts beyond the page count are clamped.
func (m *Manager) PreRenderInitial(count, dpi int) {
	if m.doc == nil {
		return
	}

	if count > len(m.slots) {
		count = len(m.slots)
	}
	for i := 0; i < count; i++ {
		_ = m.RenderSlot(i, dpi)
	}
}

// relayout restacks all slots top to bottom in index order and recomputes
// the tight content bounding size. Unrendered slots contribute their
// placeholder size. Narrower slots are centered within the widest column.
func (m *Manager) relayout() {
	if len(m.slots) == 0 {
		m.contentSize = model.Size{}
		return
	}

	maxWidth := 0.0
	for _, slot := range m.slots {
		if slot.geom.Width > maxWidth {
			maxWidth = slot.geom.Width
		}
	}

	y := m.margins.Top
	for i, slot := range m.slots {
		if i > 0 {
			y += m.spacing
		}
		slot.geom.X = m.margins.Left + (maxWidth-slot.geom.Width)/2
		slot.geom.Y = y
		y += slot.geom.Height
	}

	m.contentSize = model.Size{
		Width:  maxWidth + m.margins.Horizontal(),
		Height: y + m.margins.Bottom,
	}
}
