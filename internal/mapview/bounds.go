package mapview

import (
	"math"

	"github.com/Ashfaaq98/case-map-console/internal/states"
)

// Zoom limits of the map.
const (
	MinZoom = 2
	MaxZoom = 7
)

// FocusMargin is added to every edge of the marker bounds by Focus, in
// degrees, so edge markers are not clipped.
const FocusMargin = 0.2

// Bounds is a latitude/longitude box.
type Bounds struct {
	North float64
	West  float64
	South float64
	East  float64
}

// DefaultBounds covers the continental U.S. and Alaska.
func DefaultBounds() Bounds {
	return Bounds{North: 50, West: -126, South: 17, East: -64}
}

// BoundsOf returns the smallest box containing every point, and false
// when points is empty.
func BoundsOf(points []states.LatLng) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{North: points[0].Lat, South: points[0].Lat, West: points[0].Lng, East: points[0].Lng}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// Extend grows b to contain p.
func (b Bounds) Extend(p states.LatLng) Bounds {
	b.North = math.Max(b.North, p.Lat)
	b.South = math.Min(b.South, p.Lat)
	b.East = math.Max(b.East, p.Lng)
	b.West = math.Min(b.West, p.Lng)
	return b
}

// Pad moves every edge outward by deg degrees.
func (b Bounds) Pad(deg float64) Bounds {
	return Bounds{North: b.North + deg, West: b.West - deg, South: b.South - deg, East: b.East + deg}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p states.LatLng) bool {
	return p.Lat <= b.North && p.Lat >= b.South && p.Lng >= b.West && p.Lng <= b.East
}

// Center returns the midpoint of b.
func (b Bounds) Center() states.LatLng {
	return states.LatLng{Lat: (b.North + b.South) / 2, Lng: (b.West + b.East) / 2}
}

// cellsPerDegree is the horizontal scale at zoom z. A 256 pixel tile maps
// to 32 terminal columns; rows are twice as tall as columns are wide.
func cellsPerDegree(z int) float64 {
	return 32 * math.Exp2(float64(z)) / 360
}

// fitZoom returns the largest zoom at which b fits a w×h canvas, clamped
// to [MinZoom, MaxZoom].
func fitZoom(b Bounds, w, h int) int {
	if w <= 0 || h <= 0 {
		return MinZoom
	}
	lngSpan := b.East - b.West
	latSpan := b.North - b.South
	for z := MaxZoom; z > MinZoom; z-- {
		cpd := cellsPerDegree(z)
		if lngSpan*cpd <= float64(w) && latSpan*cpd/2 <= float64(h) {
			return z
		}
	}
	return MinZoom
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
