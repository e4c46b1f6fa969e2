package model

// ViewportInfo is a snapshot of the visible region used for zoom and layout
// calculations. It carries only the fields those calculations need, so they
// stay pure functions with no reference to a widget tree.
type ViewportInfo struct {
	Width   float64
	Height  float64
	MarginsH float64 // combined left + right content margins
	MarginsV float64 // combined top + bottom content margins
}

// AvailableWidth returns the viewport width minus horizontal margins
func (v ViewportInfo) AvailableWidth() float64 {
	return v.Width - v.MarginsH
}

// AvailableHeight returns the viewport height minus vertical margins
func (v ViewportInfo) AvailableHeight() float64 {
	return v.Height - v.MarginsV
}

// PageInfo holds the reference page dimensions used for auto-fit
// calculations, usually taken from the first already-rendered page.
type PageInfo struct {
	Width  float64
	Height float64
}

// PageInfoFromSize converts a Size into a PageInfo
func PageInfoFromSize(s Size) PageInfo {
	return PageInfo{Width: s.Width, Height: s.Height}
}
