package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
)

// GeoJSON wire structures. Coordinates stay raw until the geometry type
// is known because their nesting depth varies per type.
type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Type       string         `json:"type"`
	Geometry   *geoJSONGeom   `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoJSONGeom struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// reserved property keys lifted onto Shape fields; everything else is
// copied into Shape.Data.
var geoJSONReservedProps = map[string]bool{
	"name": true, "label": true, "zoneType": true, "color": true, "radius": true,
}

// DecodeGeoJSON decodes a GeoJSON FeatureCollection into shapes.
// Polygon rings arrive as [lon,lat] and are flipped to (lat,lng);
// MultiPolygon parts become one shape each, labelled "(Part N)". A
// non-standard "Circle" geometry type is accepted by reading a radius
// property — a local extension, not spec-compliant GeoJSON. Features
// with unknown geometry types are skipped with a warning.
func DecodeGeoJSON(raw []byte) (*DecodeResult, error) {
	var fc geoJSONCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, &Error{Format: "geojson", Reason: "invalid JSON", Cause: err}
	}
	if fc.Type != "FeatureCollection" {
		return nil, &Error{Format: "geojson", Reason: fmt.Sprintf("expected a FeatureCollection, got %q", fc.Type)}
	}

	res := &DecodeResult{}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			res.warnf("feature %d: missing geometry, skipped", i)
			continue
		}
		name := propString(f.Properties, "name")
		if name == "" {
			name = propString(f.Properties, "label")
		}

		base := models.Shape{
			ZoneType:  propString(f.Properties, "zoneType"),
			Color:     propString(f.Properties, "color"),
			Label:     name,
			Data:      extraProps(f.Properties, geoJSONReservedProps),
			CreatedAt: time.Now().UTC(),
			Imported:  true,
		}

		switch f.Geometry.Type {
		case "Polygon":
			var coords [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil || len(coords) == 0 {
				res.warnf("feature %d: malformed Polygon coordinates, skipped", i)
				continue
			}
			s := base.Clone()
			s.Kind = models.KindPolygon
			s.Points = lonLatRing(coords[0])
			res.Shapes = append(res.Shapes, s)

		case "MultiPolygon":
			var coords [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
				res.warnf("feature %d: malformed MultiPolygon coordinates, skipped", i)
				continue
			}
			for part, poly := range coords {
				if len(poly) == 0 {
					continue
				}
				s := base.Clone()
				s.Kind = models.KindPolygon
				s.Points = lonLatRing(poly[0])
				if name != "" {
					s.Label = fmt.Sprintf("%s (Part %d)", name, part+1)
				} else {
					s.Label = fmt.Sprintf("(Part %d)", part+1)
				}
				res.Shapes = append(res.Shapes, s)
			}

		case "LineString":
			var coords [][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
				res.warnf("feature %d: malformed LineString coordinates, skipped", i)
				continue
			}
			s := base.Clone()
			s.Kind = models.KindLine
			s.Points = lonLatPoints(coords)
			res.Shapes = append(res.Shapes, s)

		case "Point":
			var coord []float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coord); err != nil || len(coord) < 2 {
				res.warnf("feature %d: malformed Point coordinates, skipped", i)
				continue
			}
			s := base.Clone()
			s.Kind = models.KindPoint
			s.Points = []geo.Point{{Lat: coord[1], Lng: coord[0]}}
			res.Shapes = append(res.Shapes, s)

		case "Circle":
			// Local extension: center as a Point coordinate pair plus a
			// radius (meters) in properties.
			var coord []float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coord); err != nil || len(coord) < 2 {
				res.warnf("feature %d: malformed Circle coordinates, skipped", i)
				continue
			}
			radius := propFloat(f.Properties, "radius")
			if radius <= 0 {
				res.warnf("feature %d: Circle without a positive radius property, skipped", i)
				continue
			}
			s := base.Clone()
			s.Kind = models.KindCircle
			s.Center = &geo.Point{Lat: coord[1], Lng: coord[0]}
			s.RadiusM = radius
			res.Shapes = append(res.Shapes, s)

		default:
			res.warnf("feature %d: unsupported geometry type %q, skipped", i, f.Geometry.Type)
		}
	}
	return res, nil
}

// EncodeGeoJSON encodes shapes as a GeoJSON FeatureCollection. Circles
// are written with the non-standard "Circle" geometry type plus a radius
// property; strict GeoJSON readers will not round-trip them.
func EncodeGeoJSON(project *models.Project, shapes []models.Shape) ([]byte, error) {
	features := make([]map[string]any, 0, len(shapes))
	for _, s := range shapes {
		props := map[string]any{
			"name":     s.Label,
			"zoneType": s.ZoneType,
			"color":    s.Color,
		}
		for k, v := range s.Data {
			props[k] = v
		}

		var geom map[string]any
		switch s.Kind {
		case models.KindPolygon:
			ring := make([][]float64, 0, len(s.Points)+1)
			for _, p := range s.Points {
				ring = append(ring, []float64{p.Lng, p.Lat})
			}
			if len(s.Points) > 0 {
				ring = append(ring, []float64{s.Points[0].Lng, s.Points[0].Lat})
			}
			geom = map[string]any{"type": "Polygon", "coordinates": [][][]float64{ring}}
		case models.KindLine:
			line := make([][]float64, 0, len(s.Points))
			for _, p := range s.Points {
				line = append(line, []float64{p.Lng, p.Lat})
			}
			geom = map[string]any{"type": "LineString", "coordinates": line}
		case models.KindPoint:
			geom = map[string]any{"type": "Point", "coordinates": []float64{s.Points[0].Lng, s.Points[0].Lat}}
		case models.KindCircle:
			props["radius"] = s.RadiusM
			geom = map[string]any{"type": "Circle", "coordinates": []float64{s.Center.Lng, s.Center.Lat}}
		default:
			continue
		}

		features = append(features, map[string]any{
			"type":       "Feature",
			"geometry":   geom,
			"properties": props,
		})
	}

	doc := map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
	if project != nil {
		doc["properties"] = map[string]any{
			"projectName": project.Name,
			"researcher":  project.Researcher,
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func lonLatRing(coords [][]float64) []geo.Point {
	pts := lonLatPoints(coords)
	// Rings arrive closed; store them unclosed.
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func lonLatPoints(coords [][]float64) []geo.Point {
	pts := make([]geo.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, geo.Point{Lat: c[1], Lng: c[0]})
	}
	return pts
}

func propString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func propFloat(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return 0
}

func extraProps(props map[string]any, reserved map[string]bool) map[string]any {
	var out map[string]any
	for k, v := range props {
		if reserved[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}
