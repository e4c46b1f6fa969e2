package pages

import (
	"image"

	"github.com/tsawler/lectern/model"
)

// Status describes a slot's render state.
type Status int

const (
	// Unrendered slots have never been rasterized; their geometry is a
	// placeholder derived from the page's natural size.
	Unrendered Status = iota

	// Rendered slots hold cached pixel content valid at LastRenderedDPI.
	Rendered

	// Failed slots had their last rasterization attempt fail. They keep
	// their placeholder geometry and are retried on the next explicit
	// render request.
	Failed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Unrendered:
		return "unrendered"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Slot is the per-page record combining render status and on-screen
// geometry. Slots are created in bulk when a document opens and mutated
// only by their owning Manager.
type Slot struct {
	index   int
	status  Status
	lastDPI int // DPI of the cached pixel content, 0 if never rendered
	geom    model.Rect
	img     image.Image
	natural model.Size // natural page size in document units
}

// Index returns the slot's immutable page index.
func (s *Slot) Index() int {
	return s.index
}

// Status returns the slot's render state.
func (s *Slot) Status() Status {
	return s.status
}

// IsRendered reports whether the slot holds cached pixel content.
func (s *Slot) IsRendered() bool {
	return s.status == Rendered
}

// LastRenderedDPI returns the resolution of the cached pixel content,
// or 0 when the slot has never rendered successfully.
func (s *Slot) LastRenderedDPI() int {
	return s.lastDPI
}

// Geometry returns the slot's position and size within the scrollable
// content area. Before the first successful render the size is the
// placeholder (natural) size.
func (s *Slot) Geometry() model.Rect {
	return s.geom
}

// Image returns the cached pixel content, or nil when unrendered or failed.
func (s *Slot) Image() image.Image {
	return s.img
}

// NaturalSize returns the page's natural size in document units.
func (s *Slot) NaturalSize() model.Size {
	return s.natural
}
