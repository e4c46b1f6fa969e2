// Package model provides the geometric value types shared by the viewer
// engine.
//
// All types in this package are plain values with no dependency on any
// widget toolkit. The coordinate system is screen-oriented: the origin is
// the top-left corner of the scrollable content area and Y grows downward,
// which matches how a vertical page stack is scrolled.
//
// # Geometry
//
//   - [Point] - 2D point with distance calculation
//   - [Size] - width/height pair with validity checks
//   - [Rect] - axis-aligned rectangle (top-left anchored)
//   - [Margins] - per-edge spacing around a content area
//
// # Viewer inputs
//
// Zoom and layout computations take explicit snapshots of the viewport and
// of a reference page instead of reading live widget state:
//
//   - [ViewportInfo] - visible region dimensions plus content margins
//   - [PageInfo] - reference page dimensions for auto-fit calculations
package model
