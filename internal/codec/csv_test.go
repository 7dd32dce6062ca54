package codec

import (
	"strings"
	"testing"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
)

func TestDecodeCSVConventionalColumns(t *testing.T) {
	raw := strings.Join([]string{
		`Zone Name,Type,Color,Coordinates,Salinity`,
		`North Reef,coral_reef,#f4511e,"[[7.0,80.0],[7.0,80.1],[7.1,80.1]]",34.5`,
		`Station 4,monitoring_station,#5e35b1,"[6.95,79.85]",33.9`,
	}, "\n")

	res, err := DecodeCSV([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(res.Shapes))
	}

	poly := res.Shapes[0]
	if poly.Kind != models.KindPolygon || len(poly.Points) != 3 {
		t.Fatalf("expected a 3-point polygon, got %+v", poly)
	}
	if poly.Label != "North Reef" || poly.ZoneType != "coral_reef" || poly.Color != "#f4511e" {
		t.Fatalf("conventional columns not consumed: %+v", poly)
	}
	if poly.Data["Salinity"] != "34.5" {
		t.Fatalf("extra column not copied into data: %+v", poly.Data)
	}

	pt := res.Shapes[1]
	if pt.Kind != models.KindPoint || pt.Points[0].Lat != 6.95 || pt.Points[0].Lng != 79.85 {
		t.Fatalf("bare pair not decoded as point: %+v", pt)
	}
}

func TestDecodeCSVSkipsMismatchedRowsOnly(t *testing.T) {
	raw := strings.Join([]string{
		`name,type,color`,
		`Zone A,fishing_zone,#1e88e5`,
		`Zone B,protected_area`, // short row
		`Zone C,anchorage,#546e7a`,
	}, "\n")

	res, err := DecodeCSV([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shapes) != 2 {
		t.Fatalf("expected 2 shapes with the bad row skipped, got %d", len(res.Shapes))
	}
	if res.Shapes[0].Label != "Zone A" || res.Shapes[1].Label != "Zone C" {
		t.Fatalf("wrong rows survived: %+v", res.Shapes)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "row 2") {
		t.Fatalf("expected a warning about row 2, got %v", res.Warnings)
	}
}

func TestDecodeCSVRetainsUnparseableCoordinates(t *testing.T) {
	raw := strings.Join([]string{
		`name,coordinates`,
		`Wreck Site,"7.01N 80.22E"`,
	}, "\n")

	res, err := DecodeCSV([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shapes) != 1 {
		t.Fatalf("row with bad coordinates must survive, got %d shapes", len(res.Shapes))
	}
	s := res.Shapes[0]
	if s.Data["coordinateString"] != "7.01N 80.22E" {
		t.Fatalf("raw coordinate string not retained: %+v", s.Data)
	}
	if s.Kind != models.KindPoint {
		t.Fatalf("expected placeholder point, got %s", s.Kind)
	}
}

func TestDecodeCSVQuotedValuesMayContainCommas(t *testing.T) {
	raw := strings.Join([]string{
		`name,type,notes`,
		`"Bay, East",fishing_zone,"shallow, seasonal"`,
	}, "\n")

	res, err := DecodeCSV([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shapes) != 1 || res.Shapes[0].Label != "Bay, East" {
		t.Fatalf("quoted value mishandled: %+v", res.Shapes)
	}
	if res.Shapes[0].Data["notes"] != "shallow, seasonal" {
		t.Fatalf("quoted data value mishandled: %+v", res.Shapes[0].Data)
	}
}

func TestEncodeCSVRoundTripsConventionalColumns(t *testing.T) {
	shapes := []models.Shape{
		{Kind: models.KindPoint, Label: "Station 1", ZoneType: "monitoring_station", Color: "#5e35b1",
			Points: []geo.Point{{Lat: 6.95, Lng: 79.85}},
			Data:   map[string]any{"Salinity": "33.9"}},
		{Kind: models.KindPolygon, Label: "North Reef", ZoneType: "coral_reef", Color: "#f4511e",
			Points: []geo.Point{{Lat: 7.0, Lng: 80.0}, {Lat: 7.0, Lng: 80.1}, {Lat: 7.1, Lng: 80.1}}},
	}

	out, err := EncodeCSV(shapes)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	res, err := DecodeCSV(out)
	if err != nil {
		t.Fatalf("decode of own output failed: %v", err)
	}
	if len(res.Shapes) != 2 {
		t.Fatalf("expected 2 shapes back, got %d", len(res.Shapes))
	}
	if res.Shapes[0].Kind != models.KindPoint || res.Shapes[0].Label != "Station 1" {
		t.Fatalf("point row did not survive: %+v", res.Shapes[0])
	}
	if res.Shapes[0].Data["Salinity"] != "33.9" {
		t.Fatalf("data column did not survive: %+v", res.Shapes[0].Data)
	}
	if res.Shapes[1].Kind != models.KindPolygon || len(res.Shapes[1].Points) != 3 {
		t.Fatalf("polygon row did not survive: %+v", res.Shapes[1])
	}
}
