package domain

import "math"

// Antarctica is dropped from every boundary set before rendering.
const Antarctica = "Antarctica"

// Point is a lon/lat vertex as stored in the boundary dataset.
type Point struct {
	X, Y float64
}

// Ring is a closed sequence of points. The closing point may or may not
// repeat the first one.
type Ring []Point

// Polygon is an outer ring followed by zero or more holes.
type Polygon []Ring

// Boundary is one country: its canonical name and its geometry.
type Boundary struct {
	Name     string
	Polygons []Polygon
}

// Bounds is an axis-aligned lon/lat rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns bounds that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether no point was ever added.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Extend grows b to include p.
func (b Bounds) Extend(p Point) Bounds {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
	return b
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the bounding box of every ring of the boundary.
func (b Boundary) Bounds() Bounds {
	out := EmptyBounds()
	for _, poly := range b.Polygons {
		for _, ring := range poly {
			for _, p := range ring {
				out = out.Extend(p)
			}
		}
	}
	return out
}

// BoundsOf returns the combined bounding box of all boundaries.
func BoundsOf(boundaries []Boundary) Bounds {
	out := EmptyBounds()
	for _, b := range boundaries {
		bb := b.Bounds()
		if bb.IsEmpty() {
			continue
		}
		out = out.Extend(Point{X: bb.MinX, Y: bb.MinY}).Extend(Point{X: bb.MaxX, Y: bb.MaxY})
	}
	return out
}
