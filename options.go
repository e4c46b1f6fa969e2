package lectern

import (
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/zoom"
)

// Option configures a Viewer at construction time.
type Option func(*Viewer)

// WithBaseDPI sets the render resolution at 100% zoom (default 200).
func WithBaseDPI(dpi int) Option {
	return func(v *Viewer) {
		if dpi > 0 {
			v.baseDPI = dpi
		}
	}
}

// WithZoomLimits sets the allowed zoom factor range (default 0.5 to 10.0).
func WithZoomLimits(min, max float64) Option {
	return func(v *Viewer) {
		v.zoom.SetLimits(min, max)
	}
}

// WithZoomStep sets the multiplier used by ZoomIn and ZoomOut
// (default 1.1).
func WithZoomStep(step float64) Option {
	return func(v *Viewer) {
		v.zoom.SetStep(step)
	}
}

// WithPreRenderCount sets how many pages are rendered up front when a
// document is loaded (default 5).
func WithPreRenderCount(count int) Option {
	return func(v *Viewer) {
		if count >= 0 {
			v.preRenderCount = count
		}
	}
}

// WithRenderBuffer sets how many pages beyond the visible range are
// rendered in each direction when scrolling (default 2).
func WithRenderBuffer(buffer int) Option {
	return func(v *Viewer) {
		if buffer >= 0 {
			v.renderBuffer = buffer
		}
	}
}

// WithSpacing sets the vertical gap between pages in pixels (default 20).
func WithSpacing(spacing float64) Option {
	return func(v *Viewer) {
		v.pages.SetSpacing(spacing)
	}
}

// WithMargins sets the margins around the laid-out pages (default 50 on
// every side).
func WithMargins(margins model.Margins) Option {
	return func(v *Viewer) {
		v.pages.SetMargins(margins)
	}
}

// WithAveragePageHeight sets the page height estimate used by the visible
// range heuristic (default 600).
func WithAveragePageHeight(height float64) Option {
	return func(v *Viewer) {
		v.pages.SetAveragePageHeight(height)
	}
}

// WithOCR installs a text recognizer used by ExtractAllText for documents
// that expose no text of their own.
func WithOCR(recognizer TextRecognizer) Option {
	return func(v *Viewer) {
		v.recognizer = recognizer
	}
}

// WithPageChangedFunc installs a callback invoked when the current page
// changes.
func WithPageChangedFunc(fn func(index int)) Option {
	return func(v *Viewer) {
		v.onPageChanged = fn
	}
}

// WithZoomChangedFunc installs a callback invoked when the zoom factor or
// mode changes.
func WithZoomChangedFunc(fn func(factor float64, mode zoom.Mode)) Option {
	return func(v *Viewer) {
		v.onZoomChanged = fn
	}
}

// WithScrollRequestFunc installs a callback invoked when the viewer wants
// the UI to scroll, such as after GoToPage or a zoom change.
func WithScrollRequestFunc(fn func(offset float64)) Option {
	return func(v *Viewer) {
		v.onScrollRequest = fn
	}
}
