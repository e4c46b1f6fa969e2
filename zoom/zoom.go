package zoom

import "github.com/tsawler/lectern/model"

// Mode identifies how the current zoom factor was chosen.
type Mode int

const (
	// Free is manual, user-controlled zoom.
	Free Mode = iota

	// FitWidth fits the reference page width inside the viewport.
	FitWidth

	// FitPage fits the entire reference page inside the viewport.
	FitPage
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Free:
		return "free"
	case FitWidth:
		return "fit-width"
	case FitPage:
		return "fit-page"
	default:
		return "unknown"
	}
}

// Default zoom configuration.
const (
	DefaultFactor = 1.0
	DefaultMin    = 0.25
	DefaultMax    = 10.0
	DefaultStep   = 1.2
)

// ChangeFunc receives the new factor and mode after an actual change.
type ChangeFunc func(factor float64, mode Mode)

// State holds the current zoom factor and mode and enforces bounds.
// The zero value is not usable; create instances with NewState.
type State struct {
	factor   float64
	mode     Mode
	min, max float64
	step     float64
	onChange ChangeFunc
}

// NewState creates a zoom state at factor 1.0 in Free mode with default
// bounds.
func NewState() *State {
	return &State{
		factor: DefaultFactor,
		mode:   Free,
		min:    DefaultMin,
		max:    DefaultMax,
		step:   DefaultStep,
	}
}

// SetChangeFunc installs the callback invoked whenever the factor or mode
// actually changes.
func (s *State) SetChangeFunc(fn ChangeFunc) {
	s.onChange = fn
}

// SetLimits updates the zoom bounds. Degenerate bounds (non-positive
// minimum or max below min) are ignored. If the current factor falls
// outside the new bounds it is re-clamped, which emits a change.
func (s *State) SetLimits(min, max float64) {
	if min <= 0 || max < min {
		return
	}
	s.min = min
	s.max = max

	if clamped := s.clamp(s.factor); clamped != s.factor {
		s.apply(clamped, s.mode)
	}
}

// SetStep updates the multiplicative step used by ZoomIn and ZoomOut.
// Steps at or below 1 are ignored.
func (s *State) SetStep(step float64) {
	if step > 1 {
		s.step = step
	}
}

// SetZoom applies a manual zoom factor, clamped to the configured bounds,
// and switches to Free mode.
func (s *State) SetZoom(factor float64) {
	s.apply(factor, Free)
}

// ZoomIn increases the factor by one step.
func (s *State) ZoomIn() {
	s.SetZoom(s.factor * s.step)
}

// ZoomOut decreases the factor by one step.
func (s *State) ZoomOut() {
	s.SetZoom(s.factor / s.step)
}

// Reset returns to the default factor in Free mode.
func (s *State) Reset() {
	s.SetZoom(DefaultFactor)
}

// FitToWidth switches to FitWidth mode using the factor that makes the
// reference page width fill the viewport's available width.
func (s *State) FitToWidth(viewport model.ViewportInfo, page model.PageInfo) {
	s.apply(s.CalcFitWidth(viewport, page), FitWidth)
}

// FitToPage switches to FitPage mode using the more restrictive of the
// width and height fit ratios, so the whole page fits.
func (s *State) FitToPage(viewport model.ViewportInfo, page model.PageInfo) {
	s.apply(s.CalcFitPage(viewport, page), FitPage)
}

// CalcFitWidth computes the FitWidth factor without changing state.
// Degenerate inputs (non-positive page width or available width) return
// the current factor unchanged.
func (s *State) CalcFitWidth(viewport model.ViewportInfo, page model.PageInfo) float64 {
	if page.Width <= 0 {
		return s.factor
	}

	availableWidth := viewport.AvailableWidth()
	if availableWidth <= 0 {
		return s.factor
	}

	return availableWidth / page.Width
}

// CalcFitPage computes the FitPage factor without changing state, using
// the same degenerate-input guards as CalcFitWidth.
func (s *State) CalcFitPage(viewport model.ViewportInfo, page model.PageInfo) float64 {
	if page.Width <= 0 || page.Height <= 0 {
		return s.factor
	}

	availableWidth := viewport.AvailableWidth()
	availableHeight := viewport.AvailableHeight()
	if availableWidth <= 0 || availableHeight <= 0 {
		return s.factor
	}

	widthRatio := availableWidth / page.Width
	heightRatio := availableHeight / page.Height

	// The more restrictive ratio keeps both dimensions inside the viewport.
	if heightRatio < widthRatio {
		return heightRatio
	}
	return widthRatio
}

// OnViewportResize re-evaluates the factor when an auto-fit mode is
// active. In Free mode it does nothing.
func (s *State) OnViewportResize(viewport model.ViewportInfo, page model.PageInfo) {
	switch s.mode {
	case FitWidth:
		s.FitToWidth(viewport, page)
	case FitPage:
		s.FitToPage(viewport, page)
	case Free:
		// Manual zoom does not track the viewport.
	}
}

// Factor returns the current zoom factor.
func (s *State) Factor() float64 {
	return s.factor
}

// CurrentMode returns the current zoom mode.
func (s *State) CurrentMode() Mode {
	return s.mode
}

// IsFitWidth reports whether FitWidth mode is active.
func (s *State) IsFitWidth() bool {
	return s.mode == FitWidth
}

// IsFitPage reports whether FitPage mode is active.
func (s *State) IsFitPage() bool {
	return s.mode == FitPage
}

func (s *State) clamp(factor float64) float64 {
	if factor < s.min {
		return s.min
	}
	if factor > s.max {
		return s.max
	}
	return factor
}

func (s *State) apply(factor float64, mode Mode) {
	clamped := s.clamp(factor)

	if clamped == s.factor && mode == s.mode {
		return
	}

	s.factor = clamped
	s.mode = mode

	if s.onChange != nil {
		s.onChange(s.factor, s.mode)
	}
}
