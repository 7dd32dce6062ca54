package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValidationError describes why one shape failed its kind invariants.
type ValidationError struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("shape %d: %s: %s", e.Index, e.Field, e.Reason)
}

// ShapeError pairs an invalid shape's position and label with the error,
// for batch results.
type ShapeError struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Error string `json:"error"`
}

// ValidateShape checks the shape's kind invariants in place and fills in
// a generated id, a default "Zone {n}" label (seq is 1-based), and a
// default color from the zone style table when absent. Malformed shapes
// are rejected with a descriptive error, never coerced.
func ValidateShape(s *Shape, seq int) error {
	switch s.Kind {
	case KindPolygon:
		if len(s.Points) < 3 {
			return &ValidationError{Index: seq - 1, Field: "points", Reason: fmt.Sprintf("polygon requires at least 3 points, got %d", len(s.Points))}
		}
	case KindLine:
		if len(s.Points) < 2 {
			return &ValidationError{Index: seq - 1, Field: "points", Reason: fmt.Sprintf("line requires at least 2 points, got %d", len(s.Points))}
		}
	case KindPoint:
		if len(s.Points) != 1 {
			return &ValidationError{Index: seq - 1, Field: "points", Reason: fmt.Sprintf("point requires exactly 1 coordinate, got %d", len(s.Points))}
		}
	case KindCircle:
		if s.Center == nil {
			return &ValidationError{Index: seq - 1, Field: "center", Reason: "circle requires a center"}
		}
		if s.RadiusM <= 0 {
			return &ValidationError{Index: seq - 1, Field: "radius", Reason: fmt.Sprintf("circle radius must be positive, got %v", s.RadiusM)}
		}
	default:
		return &ValidationError{Index: seq - 1, Field: "kind", Reason: fmt.Sprintf("unknown shape kind %q", s.Kind)}
	}

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Label == "" {
		s.Label = fmt.Sprintf("Zone %d", seq)
	}
	if s.Color == "" {
		s.Color = StyleFor(s.ZoneType).Color
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// ValidateShapes validates each shape independently. Valid shapes are
// returned alongside per-shape errors for the rest; one malformed entry
// never sinks the batch. The caller decides whether errors are warnings
// or failures.
func ValidateShapes(shapes []Shape) ([]Shape, []ShapeError) {
	valid := make([]Shape, 0, len(shapes))
	var errs []ShapeError
	for i := range shapes {
		s := shapes[i].Clone()
		if err := ValidateShape(&s, i+1); err != nil {
			errs = append(errs, ShapeError{Index: i, Label: shapes[i].Label, Error: err.Error()})
			continue
		}
		valid = append(valid, s)
	}
	return valid, errs
}
