// Package nav maps between logical page indexes and scroll offsets.
//
// A [Tracker] keeps the "current page" coherent with the scroll position by
// geometric containment: the current page is the one whose vertical span
// contains the viewport's center. Explicit jumps ([Tracker.GoToPage] and
// its sequential wrappers) go the other way, computing the scroll offset
// that vertically centers the target page and requesting it through a
// callback.
//
// Keyboard navigation dispatches arrow, page, home, and end keys to the
// sequential primitives; unrecognized keys are reported as unhandled so the
// caller can fall through to default handling.
package nav
