package models

import (
	"time"

	"msp-bknd/internal/geo"
)

// ShapeKind discriminates the geometry payload carried by a Shape.
type ShapeKind string

const (
	KindPolygon ShapeKind = "polygon"
	KindCircle  ShapeKind = "circle"
	KindLine    ShapeKind = "line"
	KindPoint   ShapeKind = "point"
)

// Shape is the core geometric unit of a marine spatial plan: a zone,
// transect, or station with display and domain metadata attached.
//
// Geometry payload by kind:
//   - polygon: Points, at least 3, ring stored unclosed (first != last)
//   - line:    Points, at least 2
//   - point:   Points, exactly 1
//   - circle:  Center + RadiusM (> 0, meters)
type Shape struct {
	ID        string         `json:"id"`
	Kind      ShapeKind      `json:"kind"`
	Points    []geo.Point    `json:"points,omitempty"`
	Center    *geo.Point     `json:"center,omitempty"`
	RadiusM   float64        `json:"radius,omitempty"`
	ZoneType  string         `json:"zoneType,omitempty"`
	Color     string         `json:"color,omitempty"` // hex #rrggbb, opaque display hint
	Label     string         `json:"label,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	Imported  bool           `json:"imported,omitempty"`
}

// Clone returns a deep copy of the shape. Snapshot history and workspace
// reads rely on clones so callers can never alias live collection state.
func (s Shape) Clone() Shape {
	c := s
	if s.Points != nil {
		c.Points = make([]geo.Point, len(s.Points))
		copy(c.Points, s.Points)
	}
	if s.Center != nil {
		center := *s.Center
		c.Center = &center
	}
	if s.Data != nil {
		c.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	return c
}

// CloneShapes deep-copies a whole collection.
func CloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// AreaKm2 returns the shape's area in km². Lines and points have none.
func (s Shape) AreaKm2() float64 {
	switch s.Kind {
	case KindPolygon:
		return geo.RingArea(s.Points)
	case KindCircle:
		return geo.CircleArea(s.RadiusM)
	default:
		return 0
	}
}

// LengthKm returns the line length for line shapes, the perimeter for
// polygons, and 0 otherwise.
func (s Shape) LengthKm() float64 {
	switch s.Kind {
	case KindLine:
		total := 0.0
		for i := 0; i+1 < len(s.Points); i++ {
			total += geo.Distance(s.Points[i], s.Points[i+1])
		}
		return total
	case KindPolygon:
		return geo.Perimeter(s.Points)
	default:
		return 0
	}
}
