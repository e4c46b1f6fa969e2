// Package pages owns the per-page slot registry and the lazy rendering
// scheduler of the viewer engine.
//
// A [Manager] creates one [Slot] per page when a document opens, tracks
// each slot's render status and on-screen geometry, and decides which slots
// need rendering for a given visible scroll window. Rendering is bounded:
// a slot already rendered at the requested resolution is never rasterized
// again, and only slots inside the estimated visible range (plus a
// configurable buffer) are touched on scroll.
//
// The visible range is estimated with a constant average-page-height
// heuristic rather than an exact geometric scan. This is a deliberate O(1)
// approximation; the buffer parameter absorbs the estimation error by
// rendering extra pages around the estimated range. Exact geometric
// containment is used only for current-page tracking (package nav), which
// can diverge from the estimate on documents with highly irregular page
// sizes.
//
// The manager also maintains the content layout: a vertical stack of all
// slots in index order with configurable spacing and margins, narrower
// slots centered within the widest column. The content size is the tight
// bounding box of the stack and is recomputed whenever a slot's geometry
// changes.
package pages
