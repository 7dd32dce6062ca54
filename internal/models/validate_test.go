package models

import (
	"strings"
	"testing"

	"msp-bknd/internal/geo"
)

func TestValidateShapeKindInvariants(t *testing.T) {
	center := geo.Point{Lat: 7, Lng: 80}
	cases := []struct {
		name    string
		shape   Shape
		wantErr string
	}{
		{"polygon ok", Shape{Kind: KindPolygon, Points: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}}, ""},
		{"polygon too few points", Shape{Kind: KindPolygon, Points: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}}, "at least 3 points"},
		{"line ok", Shape{Kind: KindLine, Points: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}}, ""},
		{"line one point", Shape{Kind: KindLine, Points: []geo.Point{{Lat: 0, Lng: 0}}}, "at least 2 points"},
		{"point ok", Shape{Kind: KindPoint, Points: []geo.Point{{Lat: 0, Lng: 0}}}, ""},
		{"point empty", Shape{Kind: KindPoint}, "exactly 1 coordinate"},
		{"circle ok", Shape{Kind: KindCircle, Center: &center, RadiusM: 500}, ""},
		{"circle no center", Shape{Kind: KindCircle, RadiusM: 500}, "requires a center"},
		{"circle negative radius", Shape{Kind: KindCircle, Center: &center, RadiusM: -5}, "must be positive"},
		{"unknown kind", Shape{Kind: "blob"}, "unknown shape kind"},
	}

	for _, tc := range cases {
		s := tc.shape
		err := ValidateShape(&s, 1)
		if tc.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%s: expected error containing %q, got none", tc.name, tc.wantErr)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %q", tc.name, tc.wantErr, err.Error())
		}
	}
}

func TestValidateShapeAssignsDefaults(t *testing.T) {
	s := Shape{Kind: KindPolygon, ZoneType: "fishing_zone", Points: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}}
	if err := ValidateShape(&s, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected a generated id")
	}
	if s.Label != "Zone 3" {
		t.Fatalf("expected default label %q, got %q", "Zone 3", s.Label)
	}
	if s.Color != StyleFor("fishing_zone").Color {
		t.Fatalf("expected zone-type default color, got %q", s.Color)
	}
	if s.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestValidateShapeKeepsExistingFields(t *testing.T) {
	s := Shape{ID: "keep-me", Kind: KindPoint, Label: "Station A", Color: "#abcdef", Points: []geo.Point{{Lat: 1, Lng: 2}}}
	if err := ValidateShape(&s, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "keep-me" || s.Label != "Station A" || s.Color != "#abcdef" {
		t.Fatalf("existing fields were overwritten: %+v", s)
	}
}

func TestValidateShapesPartialFailure(t *testing.T) {
	center := geo.Point{Lat: 7, Lng: 80}
	batch := []Shape{
		{Kind: KindPolygon, Points: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}},
		{Kind: KindCircle, Label: "Bad Circle", Center: &center, RadiusM: -5},
		{Kind: KindPoint, Points: []geo.Point{{Lat: 7, Lng: 80}}},
	}

	valid, errs := ValidateShapes(batch)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid shapes, got %d", len(valid))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Index != 1 || errs[0].Label != "Bad Circle" {
		t.Fatalf("unexpected error entry: %+v", errs[0])
	}
	// Input batch must not be mutated by defaulting.
	if batch[0].ID != "" {
		t.Fatal("ValidateShapes mutated its input")
	}
}

func TestStyleForFallsBack(t *testing.T) {
	if st := StyleFor("totally_new_designation"); st != DefaultZoneStyle {
		t.Fatalf("expected default style, got %+v", st)
	}
	if st := StyleFor("protected_area"); st.Label != "Protected Area" {
		t.Fatalf("unexpected style for known type: %+v", st)
	}
}
