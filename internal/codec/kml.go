package codec

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
)

type kmlPlacemark struct {
	Name        string          `xml:"name"`
	Description string          `xml:"description"`
	Polygon     *kmlGeometry    `xml:"Polygon"`
	LineString  *kmlLineOrPoint `xml:"LineString"`
	Point       *kmlLineOrPoint `xml:"Point"`
}

type kmlGeometry struct {
	Coordinates string `xml:"outerBoundaryIs>LinearRing>coordinates"`
}

type kmlLineOrPoint struct {
	Coordinates string `xml:"coordinates"`
}

// DecodeKML extracts shapes from KML Placemark elements at any nesting
// depth (Documents, Folders). A placemark is dispatched on whichever of
// Polygon, LineString, or Point it carries; placemarks with none of the
// three are skipped. Coordinate tuples are "lon,lat[,alt]" — altitude is
// discarded.
func DecodeKML(raw []byte) (*DecodeResult, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	res := &DecodeResult{}
	seen := false
	idx := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &Error{Format: "kml", Reason: "invalid XML", Cause: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local == "kml" || se.Name.Local == "Document" {
			seen = true
			continue
		}
		if se.Name.Local != "Placemark" {
			continue
		}
		seen = true

		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			res.warnf("placemark %d: unreadable, skipped", idx)
			idx++
			continue
		}

		base := models.Shape{
			Label:     pm.Name,
			CreatedAt: time.Now().UTC(),
			Imported:  true,
		}
		if pm.Description != "" {
			base.Data = map[string]any{"description": pm.Description}
		}

		switch {
		case pm.Polygon != nil:
			pts := parseKMLCoordinates(pm.Polygon.Coordinates)
			if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
				pts = pts[:len(pts)-1]
			}
			base.Kind = models.KindPolygon
			base.Points = pts
		case pm.LineString != nil:
			base.Kind = models.KindLine
			base.Points = parseKMLCoordinates(pm.LineString.Coordinates)
		case pm.Point != nil:
			base.Kind = models.KindPoint
			base.Points = parseKMLCoordinates(pm.Point.Coordinates)
		default:
			res.warnf("placemark %d (%s): no recognized geometry, skipped", idx, pm.Name)
			idx++
			continue
		}

		res.Shapes = append(res.Shapes, base)
		idx++
	}

	if !seen {
		return nil, &Error{Format: "kml", Reason: "no kml root element found"}
	}
	return res, nil
}

// parseKMLCoordinates parses a whitespace-separated list of
// "lon,lat[,alt]" tuples into (lat,lng) points. Malformed tuples are
// dropped.
func parseKMLCoordinates(s string) []geo.Point {
	var pts []geo.Point
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lng, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, geo.Point{Lat: lat, Lng: lng})
	}
	return pts
}
