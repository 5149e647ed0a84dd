// File: internal/dom/geometry.go
package dom

import "math"

// Rect is a border box in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Top() float64    { return r.Y }
func (r Rect) Left() float64   { return r.X }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Right() float64  { return r.X + r.Width }

// MidY is the vertical midpoint used to decide before/after placement.
func (r Rect) MidY() float64 { return r.Y + r.Height/2 }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains uses half-open bounds so adjacent boxes never both claim an edge point.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlapping area, or a zero-size rectangle when disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Translate shifts the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// ScrollMetrics mirrors the element scroll properties the controller reads.
type ScrollMetrics struct {
	Top          float64 `json:"scrollTop"`
	Height       float64 `json:"scrollHeight"`
	Width        float64 `json:"scrollWidth"`
	ClientHeight float64 `json:"clientHeight"`
	ClientWidth  float64 `json:"clientWidth"`
}

// MaxTop is the largest scroll offset the element accepts.
func (m ScrollMetrics) MaxTop() float64 {
	return math.Max(0, m.Height-m.ClientHeight)
}

// Overflows reports whether the content exceeds the visible extent on either axis.
func (m ScrollMetrics) Overflows() bool {
	return m.Height > m.ClientHeight || m.Width > m.ClientWidth
}
