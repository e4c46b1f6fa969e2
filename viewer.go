package lectern

import (
	"errors"
	"fmt"
	"image"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/nav"
	"github.com/tsawler/lectern/pages"
	"github.com/tsawler/lectern/zoom"
)

// Defaults for a new Viewer. Rendering happens at BaseDPI scaled by the
// current zoom factor.
const (
	DefaultBaseDPI        = 200
	DefaultPreRenderCount = 5
	DefaultRenderBuffer   = 2
	DefaultZoomStep       = 1.1
	DefaultMinZoom        = 0.5
	DefaultMaxZoom        = 10.0
)

// ErrNoTextSource is returned by ExtractAllText when the document provides
// no text and no OCR recognizer is configured.
var ErrNoTextSource = errors.New("document has no text source and no OCR recognizer is configured")

// TextRecognizer recovers text from a rendered page image. The ocr
// package's Client satisfies it when built with the ocr tag.
type TextRecognizer interface {
	ImageText(img image.Image) (string, error)
}

// scrollAnchor remembers which page sat under the viewport center and
// where within that page, so the position can be restored after a zoom
// change relays out the pages.
type scrollAnchor struct {
	page int
	rel  float64
	ok   bool
}

// Viewer coordinates a document, its rendered pages, the zoom state and
// the reader's position. It holds no rendering surface of its own; the UI
// drives it with viewport sizes, scroll offsets and key presses, and draws
// the page images it exposes.
//
// Viewer is not safe for concurrent use. Drive it from the UI thread.
type Viewer struct {
	doc   document.Document
	pages *pages.Manager
	zoom  *zoom.State
	nav   *nav.Tracker

	baseDPI        int
	preRenderCount int
	renderBuffer   int

	viewport     model.Size
	scrollOffset float64

	recognizer TextRecognizer

	onPageChanged   func(index int)
	onZoomChanged   func(factor float64, mode zoom.Mode)
	onScrollRequest func(offset float64)
}

// New creates a Viewer with no document loaded.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		pages:          pages.NewManager(),
		zoom:           zoom.NewState(),
		baseDPI:        DefaultBaseDPI,
		preRenderCount: DefaultPreRenderCount,
		renderBuffer:   DefaultRenderBuffer,
	}
	v.nav = nav.NewTracker(v.pages)
	v.zoom.SetLimits(DefaultMinZoom, DefaultMaxZoom)
	v.zoom.SetStep(DefaultZoomStep)

	for _, opt := range opts {
		opt(v)
	}

	// Wired after the options so configuring limits does not trigger a
	// render pass during construction.
	v.zoom.SetChangeFunc(v.handleZoomChange)
	v.nav.SetPageChangedFunc(func(index int) {
		if v.onPageChanged != nil {
			v.onPageChanged(index)
		}
	})
	v.nav.SetScrollRequestFunc(func(offset float64) {
		v.scrollOffset = offset
		v.pages.RenderVisibleRange(offset, v.viewport.Height, v.renderBuffer, v.effectiveDPI())
		if v.onScrollRequest != nil {
			v.onScrollRequest(offset)
		}
	})
	return v
}

// OpenDocument opens the file at path through the provider registry and
// loads it into the viewer, replacing any current document.
func (v *Viewer) OpenDocument(path string) error {
	doc, err := document.Open(path)
	if err != nil {
		return err
	}
	if err := v.SetDocument(doc); err != nil {
		doc.Close()
		return err
	}
	return nil
}

// SetDocument loads an already-open document into the viewer, replacing
// any current one. The viewer takes ownership and closes it on
// CloseDocument.
func (v *Viewer) SetDocument(doc document.Document) error {
	v.CloseDocument()

	if err := v.pages.Open(doc); err != nil {
		return err
	}
	v.doc = doc

	dpi := v.effectiveDPI()
	v.nav.SetRenderDPI(dpi)
	v.pages.PreRenderInitial(v.preRenderCount, dpi)
	v.nav.FirstPage()
	return nil
}

// CloseDocument unloads and closes the current document. It is a no-op
// when none is loaded.
func (v *Viewer) CloseDocument() {
	v.pages.Close()
	if v.doc != nil {
		v.doc.Close()
		v.doc = nil
	}
	v.nav.Reset()
	v.scrollOffset = 0
}

// HasDocument reports whether a document is loaded.
func (v *Viewer) HasDocument() bool {
	return v.doc != nil
}

// Title returns the loaded document's title, or "" when none is loaded.
func (v *Viewer) Title() string {
	if v.doc == nil {
		return ""
	}
	return v.doc.Title()
}

// PageCount returns the number of pages in the loaded document.
func (v *Viewer) PageCount() int {
	return v.pages.PageCount()
}

// Resize informs the viewer of the UI viewport's new size in pixels. In a
// fit mode the zoom factor is recomputed for the new size, which may
// trigger a re-render.
func (v *Viewer) Resize(width, height float64) {
	v.viewport = model.Size{Width: width, Height: height}
	v.nav.SetViewportHeight(height)

	if v.zoom.IsFitWidth() || v.zoom.IsFitPage() {
		v.zoom.OnViewportResize(v.viewportInfo(), v.referencePage())
	}
	v.pages.RenderVisibleRange(v.scrollOffset, height, v.renderBuffer, v.effectiveDPI())
}

// Scroll informs the viewer of the UI's new scroll offset. Pages entering
// the visible range are rendered and the current page is re-derived.
func (v *Viewer) Scroll(offset float64) {
	v.scrollOffset = offset
	v.pages.RenderVisibleRange(offset, v.viewport.Height, v.renderBuffer, v.effectiveDPI())
	v.nav.UpdateFromScroll(offset, v.viewport.Height)
}

// ScrollOffset returns the last scroll offset the viewer was told about or
// requested itself.
func (v *Viewer) ScrollOffset() float64 {
	return v.scrollOffset
}

// ContentSize returns the total size of the laid-out pages including
// margins.
func (v *Viewer) ContentSize() model.Size {
	return v.pages.ContentSize()
}

// PageGeometry returns the position and size of a page within the content
// area.
func (v *Viewer) PageGeometry(index int) (model.Rect, error) {
	slot := v.pages.Slot(index)
	if slot == nil {
		return model.Rect{}, fmt.Errorf("%w: %d", pages.ErrSlotOutOfRange, index)
	}
	return slot.Geometry(), nil
}

// PageImage returns a page's rendered image, or nil and false when the
// page has not been rendered yet.
func (v *Viewer) PageImage(index int) (image.Image, bool) {
	slot := v.pages.Slot(index)
	if slot == nil || !slot.IsRendered() {
		return nil, false
	}
	return slot.Image(), true
}

// CurrentPage returns the zero-based index of the page the reader is on.
func (v *Viewer) CurrentPage() int {
	return v.nav.CurrentPage()
}

// GoToPage jumps to the given page, centering it in the viewport.
func (v *Viewer) GoToPage(index int) {
	v.nav.GoToPage(index)
}

// NextPage advances to the next page, if any.
func (v *Viewer) NextPage() {
	v.nav.NextPage()
}

// PreviousPage goes back to the previous page, if any.
func (v *Viewer) PreviousPage() {
	v.nav.PreviousPage()
}

// FirstPage jumps to the first page.
func (v *Viewer) FirstPage() {
	v.nav.FirstPage()
}

// LastPage jumps to the last page.
func (v *Viewer) LastPage() {
	v.nav.LastPage()
}

// Zoom returns the current zoom factor.
func (v *Viewer) Zoom() float64 {
	return v.zoom.Factor()
}

// Mode returns the current zoom mode.
func (v *Viewer) Mode() zoom.Mode {
	return v.zoom.CurrentMode()
}

// IsFitWidth reports whether fit-to-width mode is active.
func (v *Viewer) IsFitWidth() bool {
	return v.zoom.IsFitWidth()
}

// IsFitPage reports whether fit-to-page mode is active.
func (v *Viewer) IsFitPage() bool {
	return v.zoom.IsFitPage()
}

// SetZoom sets an explicit zoom factor and switches to free zoom mode.
func (v *Viewer) SetZoom(factor float64) {
	v.zoom.SetZoom(factor)
}

// ZoomIn increases the zoom factor by one step.
func (v *Viewer) ZoomIn() {
	v.zoom.ZoomIn()
}

// ZoomOut decreases the zoom factor by one step.
func (v *Viewer) ZoomOut() {
	v.zoom.ZoomOut()
}

// ZoomReset returns to 100% free zoom.
func (v *Viewer) ZoomReset() {
	v.zoom.Reset()
}

// FitWidth sizes pages to fill the viewport width and keeps them fitted
// across resizes.
func (v *Viewer) FitWidth() {
	v.zoom.FitToWidth(v.viewportInfo(), v.referencePage())
}

// FitPage sizes pages so a whole page fits in the viewport and keeps them
// fitted across resizes.
func (v *Viewer) FitPage() {
	v.zoom.FitToPage(v.viewportInfo(), v.referencePage())
}

// HandleKey dispatches a key press. Ctrl chords control zoom; bare keys
// are forwarded to navigation. It reports whether the key was handled.
func (v *Viewer) HandleKey(key nav.Key, ctrl bool) bool {
	if ctrl {
		switch key {
		case nav.KeyPlus, nav.KeyEqual:
			v.ZoomIn()
			return true
		case nav.KeyMinus, nav.KeyUnderscore:
			v.ZoomOut()
			return true
		case nav.KeyZero:
			v.ZoomReset()
			return true
		}
		return false
	}
	return v.nav.HandleKey(key)
}

// ExtractAllText returns the text of every page joined by blank lines.
// Documents that expose text directly are read via their provider; for
// purely visual documents each page is rendered and passed to the
// configured OCR recognizer. Without either source ErrNoTextSource is
// returned.
func (v *Viewer) ExtractAllText() (string, error) {
	if v.doc == nil {
		return "", pages.ErrNoDocument
	}

	count := v.pages.PageCount()
	texts := make([]string, 0, count)

	if tp, ok := v.doc.(document.TextProvider); ok {
		for i := 0; i < count; i++ {
			text, err := tp.PageText(i)
			if err != nil {
				return "", fmt.Errorf("extract text from page %d: %w", i, err)
			}
			texts = append(texts, text)
		}
		return joinPages(texts), nil
	}

	if v.recognizer == nil {
		return "", ErrNoTextSource
	}
	for i := 0; i < count; i++ {
		img, err := v.doc.Rasterize(i, v.baseDPI)
		if err != nil {
			return "", fmt.Errorf("render page %d for OCR: %w", i, err)
		}
		text, err := v.recognizer.ImageText(img)
		if err != nil {
			return "", fmt.Errorf("recognize page %d: %w", i, err)
		}
		texts = append(texts, text)
	}
	return joinPages(texts), nil
}

// effectiveDPI is the render resolution at the current zoom factor.
func (v *Viewer) effectiveDPI() int {
	dpi := int(float64(v.baseDPI) * v.zoom.Factor())
	if dpi < 1 {
		dpi = 1
	}
	return dpi
}

func (v *Viewer) viewportInfo() model.ViewportInfo {
	margins := v.pages.Margins()
	return model.ViewportInfo{
		Width:    v.viewport.Width,
		Height:   v.viewport.Height,
		MarginsH: margins.Horizontal(),
		MarginsV: margins.Vertical(),
	}
}

// referencePage is the page the fit calculations size against: the
// current page's natural size, or a zero PageInfo when no document is
// loaded, which the calculations treat as "keep the current factor".
func (v *Viewer) referencePage() model.PageInfo {
	slot := v.pages.Slot(v.nav.CurrentPage())
	if slot == nil {
		return model.PageInfo{}
	}
	return model.PageInfoFromSize(slot.NaturalSize())
}

// handleZoomChange re-renders the visible pages at the new resolution
// while keeping the reader's position anchored to the same spot on the
// same page.
func (v *Viewer) handleZoomChange(factor float64, mode zoom.Mode) {
	dpi := v.effectiveDPI()
	v.nav.SetRenderDPI(dpi)

	if !v.pages.IsEmpty() {
		anchor := v.captureScrollAnchor()
		v.pages.RenderVisibleRange(v.scrollOffset, v.viewport.Height, v.renderBuffer, dpi)
		v.restoreScrollAnchor(anchor)
	}

	if v.onZoomChanged != nil {
		v.onZoomChanged(factor, mode)
	}
}

func (v *Viewer) captureScrollAnchor() scrollAnchor {
	center := v.scrollOffset + v.viewport.Height/2
	for i := 0; i < v.pages.PageCount(); i++ {
		geom := v.pages.Slot(i).Geometry()
		if geom.ContainsY(center) && geom.Height > 0 {
			return scrollAnchor{
				page: i,
				rel:  (center - geom.Top()) / geom.Height,
				ok:   true,
			}
		}
	}
	return scrollAnchor{}
}

func (v *Viewer) restoreScrollAnchor(anchor scrollAnchor) {
	if !anchor.ok {
		return
	}
	slot := v.pages.Slot(anchor.page)
	if slot == nil {
		return
	}
	geom := slot.Geometry()
	offset := geom.Top() + anchor.rel*geom.Height - v.viewport.Height/2
	if offset < 0 {
		offset = 0
	}
	v.scrollOffset = offset
	if v.onScrollRequest != nil {
		v.onScrollRequest(offset)
	}
}

func joinPages(texts []string) string {
	out := ""
	for i, t := range texts {
		if i > 0 {
			out += "\n\n"
		}
		out += t
	}
	return out
}
