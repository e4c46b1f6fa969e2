package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Size represents a width/height pair
type Size struct {
	Width  float64
	Height float64
}

// IsValid returns true if both dimensions are positive
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// IsZero returns true if both dimensions are zero
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Scale returns the size multiplied by a factor
func (s Size) Scale(factor float64) Size {
	return Size{Width: s.Width * factor, Height: s.Height * factor}
}

// Rect represents a rectangle anchored at its top-left corner
type Rect struct {
	X      float64 // Left
	Y      float64 // Top (screen coordinate system, Y grows downward)
	Width  float64
	Height float64
}

// NewRect creates a rectangle from coordinates
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (r Rect) Left() float64 {
	return r.X
}

// Right returns the right edge X coordinate
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Top returns the top edge Y coordinate
func (r Rect) Top() float64 {
	return r.Y
}

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Size returns the rectangle's dimensions
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains checks if a point is inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// ContainsY checks if a Y coordinate falls within the rectangle's
// vertical span (inclusive on both edges)
func (r Rect) ContainsY(y float64) bool {
	return y >= r.Top() && y <= r.Bottom()
}

// Intersects checks if two rectangles intersect
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() < other.Left() ||
		r.Left() > other.Right() ||
		r.Bottom() < other.Top() ||
		r.Top() > other.Bottom())
}

// Union returns the union of two rectangles
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.Left(), other.Left())
	y := math.Min(r.Top(), other.Top())
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// IsEmpty returns true if the rectangle has zero area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsValid returns true if the rectangle has positive dimensions
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Margins represents spacing around the edges of a content area
type Margins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// UniformMargins creates margins with the same value on all sides
func UniformMargins(m float64) Margins {
	return Margins{Left: m, Top: m, Right: m, Bottom: m}
}

// Horizontal returns the combined left and right margins
func (m Margins) Horizontal() float64 {
	return m.Left + m.Right
}

// Vertical returns the combined top and bottom margins
func (m Margins) Vertical() float64 {
	return m.Top + m.Bottom
}
