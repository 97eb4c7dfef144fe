package utils

import (
	"image"
	"math"
)

// Point is a 2D coordinate in normalized [0,1] space, top-left origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPixel converts a normalized point to pixel coordinates for an image of
// the given dimensions.
func (p Point) ToPixel(width, height int) image.Point {
	return image.Point{
		X: clampInt(int(math.Round(p.X*float64(width))), 0, width-1),
		Y: clampInt(int(math.Round(p.Y*float64(height))), 0, height-1),
	}
}

// DistanceTo returns the Euclidean distance between two normalized points.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Box is an axis-aligned bounding box in normalized [0,1] coordinates,
// top-left origin.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBox constructs a Box from two corner points, ensuring ordering.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the box center point.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Area returns the box area in normalized units.
func (b Box) Area() float64 { return b.Width * b.Height }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// IntersectionArea returns the area of the rectangular intersection of two
// boxes, or 0 when they do not overlap.
func (b Box) IntersectionArea(o Box) float64 {
	x1 := math.Max(b.X, o.X)
	y1 := math.Max(b.Y, o.Y)
	x2 := math.Min(b.X+b.Width, o.X+o.Width)
	y2 := math.Min(b.Y+b.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

// Union returns the smallest box covering both boxes.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x1 := math.Min(b.X, o.X)
	y1 := math.Min(b.Y, o.Y)
	x2 := math.Max(b.X+b.Width, o.X+o.Width)
	y2 := math.Max(b.Y+b.Height, o.Y+o.Height)
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Expand grows the box by ratio on each side and clamps it to [0,1].
func (b Box) Expand(ratio float64) Box {
	dx := b.Width * ratio
	dy := b.Height * ratio
	return NewBox(
		clamp01(b.X-dx),
		clamp01(b.Y-dy),
		clamp01(b.X+b.Width+dx),
		clamp01(b.Y+b.Height+dy),
	)
}

// Clamp restricts the box to the unit square.
func (b Box) Clamp() Box {
	return NewBox(clamp01(b.X), clamp01(b.Y), clamp01(b.X+b.Width), clamp01(b.Y+b.Height))
}

// ToRect converts the normalized box to a pixel rectangle for an image of
// the given dimensions.
func (b Box) ToRect(width, height int) image.Rectangle {
	x1 := clampInt(int(math.Floor(b.X*float64(width))), 0, width)
	y1 := clampInt(int(math.Floor(b.Y*float64(height))), 0, height)
	x2 := clampInt(int(math.Ceil((b.X+b.Width)*float64(width))), 0, width)
	y2 := clampInt(int(math.Ceil((b.Y+b.Height)*float64(height))), 0, height)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return image.Rect(x1, y1, x2, y2)
}

// BoxFromRect converts a pixel rectangle to a normalized box for an image of
// the given dimensions.
func BoxFromRect(r image.Rectangle, width, height int) Box {
	if width <= 0 || height <= 0 {
		return Box{}
	}
	return Box{
		X:      float64(r.Min.X) / float64(width),
		Y:      float64(r.Min.Y) / float64(height),
		Width:  float64(r.Dx()) / float64(width),
		Height: float64(r.Dy()) / float64(height),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
