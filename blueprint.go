// Package blueprint renders a declarative view hierarchy driven by an
// embedded JavaScript runtime onto a terminal surface.
//
// A script running inside the evaluation context builds and mutates a
// render tree through the __BlueprintNative__ API. Each render node is
// paired with a shadow node in a parallel geometry tree; every mutation
// marks the geometry dirty and triggers a flex layout pass, after which
// the computed bounds are flushed back onto the render nodes and the
// surface is asked to repaint.
//
// The mutation protocol is strictly single-threaded: all calls into a
// Root, its Tree and its Bridge must happen on one goroutine. The
// bundled bubbletea host (Program) provides that guarantee for free.
package blueprint

import "time"

// DefaultTickInterval is the cadence of the scheduler interrupt when no
// interval is configured.
const DefaultTickInterval = 16 * time.Millisecond

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlapping region of two rectangles.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}
