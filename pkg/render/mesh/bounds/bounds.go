// Package bounds tracks the visible area of a mesh document.
//
// The visible area starts as the block grid and grows when placed elements
// spill past it: task badges centred on the first column, boundary paths,
// link labels and border glyphs. [Bounds] never shrinks in place; it only
// grows through [Bounds.Extend] or is put back to an earlier [Snapshot].
package bounds

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

const (
	// StrokePadding is added to every side that overflows, so outlines are not clipped.
	StrokePadding = 4.0
	// GlyphMargin is reserved on all four sides while border glyphs are visible.
	GlyphMargin = 64.0
)

// Bounds is a rectangle in document coordinates.
type Bounds struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FromRect converts a geometry rectangle.
func FromRect(r geometry.Rect) Bounds {
	return Bounds{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 { return b.Y + b.H }

// Contains reports whether r lies inside b.
func (b Bounds) Contains(r Bounds) bool {
	return r.X >= b.X && r.Y >= b.Y && r.Right() <= b.Right() && r.Bottom() <= b.Bottom()
}

// Extend grows b to cover r and reports whether b changed.
func (b *Bounds) Extend(r Bounds) bool {
	if b.Contains(r) {
		return false
	}
	x0, y0 := math.Min(b.X, r.X), math.Min(b.Y, r.Y)
	x1, y1 := math.Max(b.Right(), r.Right()), math.Max(b.Bottom(), r.Bottom())
	*b = Bounds{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	return true
}

// Snapshot is a saved copy of a Bounds.
type Snapshot struct {
	saved Bounds
}

// Snapshot saves b for a later Restore.
func (b Bounds) Snapshot() Snapshot { return Snapshot{saved: b} }

// Restore puts b back to the snapshot exactly.
func (b *Bounds) Restore(s Snapshot) { *b = s.saved }

// String formats b as an SVG viewBox value: "x y w h".
func (b Bounds) String() string {
	parts := [4]string{num(b.X), num(b.Y), num(b.W), num(b.H)}
	return strings.Join(parts[:], " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Accumulator collects the extent of placed elements during one pass.
// The zero value is ready to use.
type Accumulator struct {
	seen                   bool
	minX, minY, maxX, maxY float64
	glyphs                 bool
}

// Observe records a placed element.
func (a *Accumulator) Observe(r Bounds) {
	if !a.seen {
		a.minX, a.minY, a.maxX, a.maxY = r.X, r.Y, r.Right(), r.Bottom()
		a.seen = true
		return
	}
	a.minX = math.Min(a.minX, r.X)
	a.minY = math.Min(a.minY, r.Y)
	a.maxX = math.Max(a.maxX, r.Right())
	a.maxY = math.Max(a.maxY, r.Bottom())
}

// ObserveRect records a placed geometry rectangle.
func (a *Accumulator) ObserveRect(r geometry.Rect) { a.Observe(FromRect(r)) }

// Glyphs records whether border glyphs are shown.
func (a *Accumulator) Glyphs(visible bool) { a.glyphs = a.glyphs || visible }

// Apply returns base extended by the observed overflow. Every overflowing
// side gets StrokePadding; visible glyphs add GlyphMargin on all sides.
func (a *Accumulator) Apply(base Bounds) Bounds {
	var left, top, right, bottom float64
	if a.seen {
		left = overflow(base.X - a.minX)
		top = overflow(base.Y - a.minY)
		right = overflow(a.maxX - base.Right())
		bottom = overflow(a.maxY - base.Bottom())
	}
	if a.glyphs {
		left += GlyphMargin
		top += GlyphMargin
		right += GlyphMargin
		bottom += GlyphMargin
	}
	return Bounds{
		X: base.X - left,
		Y: base.Y - top,
		W: base.W + left + right,
		H: base.H + top + bottom,
	}
}

func overflow(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return v + StrokePadding
}
