// Package session implements the click-driven drawing and measurement
// state machine. A session interprets a sequence of point events into
// completed shapes; it owns no collection state and is reset to idle
// whenever a shape completes, is cancelled, or the mode changes.
package session

import (
	"time"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
)

// Mode is the active drawing or measuring tool.
type Mode string

const (
	Idle            Mode = "idle"
	DrawPolygon     Mode = "polygon"
	DrawRectangle   Mode = "rectangle"
	DrawCircle      Mode = "circle"
	DrawPoint       Mode = "point"
	MeasureDistance Mode = "measure_distance"
	MeasureBearing  Mode = "measure_bearing"
)

// DefaultCircleRadiusM is the radius given to circles placed with a
// single click when no template overrides it.
const DefaultCircleRadiusM = 1000.0

// Measurement is the live readout of a measuring mode.
type Measurement struct {
	Points     []geo.Point `json:"points"`
	DistanceKm float64     `json:"distanceKm,omitempty"`
	Bearing    float64     `json:"bearing,omitempty"`
	Complete   bool        `json:"complete"`
}

// Session holds the in-flight drawing state. At most one mode is active
// at a time; entering any mode cancels whatever was pending.
type Session struct {
	mode     Mode
	pending  []geo.Point
	template *Template
}

func New() *Session {
	return &Session{mode: Idle}
}

// Mode returns the currently active mode.
func (s *Session) Mode() Mode { return s.mode }

// Pending returns a copy of the points accumulated since the mode was
// activated.
func (s *Session) Pending() []geo.Point {
	out := make([]geo.Point, len(s.pending))
	copy(out, s.pending)
	return out
}

// SetMode activates a drawing or measuring mode, discarding any
// in-flight points from a previous mode.
func (s *Session) SetMode(mode Mode) {
	s.mode = mode
	s.pending = nil
	s.template = nil
}

// SetModeWithTemplate activates a mode and applies a zone template to
// the shapes it emits.
func (s *Session) SetModeWithTemplate(mode Mode, tpl *Template) {
	s.SetMode(mode)
	s.template = tpl
}

// Cancel discards pending points and returns to idle. It has no side
// effects on any shape collection.
func (s *Session) Cancel() {
	s.mode = Idle
	s.pending = nil
	s.template = nil
}

// Click feeds one map click into the state machine. When the click
// completes a shape (rectangle second corner, circle placement, point
// placement) the finished shape is returned and the session resets to
// idle; otherwise nil is returned and the session keeps collecting.
func (s *Session) Click(p geo.Point) *models.Shape {
	switch s.mode {
	case DrawPolygon:
		s.pending = append(s.pending, p)
		return nil

	case DrawRectangle:
		s.pending = append(s.pending, p)
		if len(s.pending) < 2 {
			return nil
		}
		shape := s.emit(models.Shape{
			Kind:   models.KindPolygon,
			Points: boundingBox(s.pending[0], s.pending[1]),
		})
		s.Cancel()
		return shape

	case DrawCircle:
		radius := DefaultCircleRadiusM
		if s.template != nil && s.template.RadiusM > 0 {
			radius = s.template.RadiusM
		}
		center := p
		shape := s.emit(models.Shape{
			Kind:    models.KindCircle,
			Center:  &center,
			RadiusM: radius,
		})
		s.Cancel()
		return shape

	case DrawPoint:
		shape := s.emit(models.Shape{
			Kind:   models.KindPoint,
			Points: []geo.Point{p},
		})
		s.Cancel()
		return shape

	case MeasureDistance, MeasureBearing:
		// Keep exactly the last two clicks; a third click restarts the pair.
		if len(s.pending) >= 2 {
			s.pending = []geo.Point{p}
		} else {
			s.pending = append(s.pending, p)
		}
		return nil
	}
	return nil
}

// Finish completes a multi-point shape (double-click). Only polygon
// collection reacts; finishing with fewer than 3 points is a silent
// no-op so an accidental double-click never interrupts drawing.
func (s *Session) Finish() *models.Shape {
	if s.mode != DrawPolygon || len(s.pending) < 3 {
		return nil
	}
	shape := s.emit(models.Shape{
		Kind:   models.KindPolygon,
		Points: s.Pending(),
	})
	s.Cancel()
	return shape
}

// Measurement returns the live readout for the measuring modes. Complete
// is set once two points are down.
func (s *Session) Measurement() *Measurement {
	if s.mode != MeasureDistance && s.mode != MeasureBearing {
		return nil
	}
	m := &Measurement{Points: s.Pending()}
	if len(s.pending) == 2 {
		m.Complete = true
		if s.mode == MeasureDistance {
			m.DistanceKm = geo.Distance(s.pending[0], s.pending[1])
		} else {
			m.Bearing = geo.Bearing(s.pending[0], s.pending[1])
		}
	}
	return m
}

// ClearMeasurement empties the measured pair and returns to idle.
func (s *Session) ClearMeasurement() {
	if s.mode == MeasureDistance || s.mode == MeasureBearing {
		s.Cancel()
	}
}

func (s *Session) emit(shape models.Shape) *models.Shape {
	shape.CreatedAt = time.Now().UTC()
	if s.template != nil {
		shape.ZoneType = s.template.ZoneType
		shape.Color = s.template.Color
		if s.template.Label != "" {
			shape.Label = s.template.Label
		}
	}
	return &shape
}

// boundingBox returns the four corners of the axis-aligned box spanned
// by two opposite corners, in lat/lng space. This is not a geodesic
// rectangle.
func boundingBox(a, b geo.Point) []geo.Point {
	minLat, maxLat := a.Lat, b.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLng, maxLng := a.Lng, b.Lng
	if minLng > maxLng {
		minLng, maxLng = maxLng, minLng
	}
	return []geo.Point{
		{Lat: minLat, Lng: minLng},
		{Lat: minLat, Lng: maxLng},
		{Lat: maxLat, Lng: maxLng},
		{Lat: maxLat, Lng: minLng},
	}
}
