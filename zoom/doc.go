// Package zoom implements the viewer's zoom state machine.
//
// A [State] holds the current zoom factor and mode, enforces configured
// bounds, and derives factors for the two auto-fit behaviors:
//
//   - [Free] - manual, user-controlled zoom
//   - [FitWidth] - fit the reference page width inside the viewport,
//     allowing vertical overflow (scrolling)
//   - [FitPage] - fit the entire reference page inside the viewport using
//     the more restrictive of the width and height ratios
//
// The state never changes spontaneously: transitions happen only through
// explicit calls, except that [State.OnViewportResize] re-evaluates the
// factor while an auto-fit mode is active so those modes track window
// resizing without dropping back to Free.
//
// A change callback fires only when the clamped factor or the mode actually
// differ from the stored state.
package zoom
