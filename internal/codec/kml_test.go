package codec

import (
	"testing"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <name>Sanctuary Boundary</name>
        <description>No-take zone</description>
        <Polygon>
          <outerBoundaryIs>
            <LinearRing>
              <coordinates>
                80.0,7.0,0 80.1,7.0,0 80.1,7.1,0 80.0,7.0,0
              </coordinates>
            </LinearRing>
          </outerBoundaryIs>
        </Polygon>
      </Placemark>
      <Placemark>
        <name>Survey Track</name>
        <LineString>
          <coordinates>80.0,7.0 80.2,7.2,15</coordinates>
        </LineString>
      </Placemark>
      <Placemark>
        <name>Mooring</name>
        <Point>
          <coordinates>79.85,6.95</coordinates>
        </Point>
      </Placemark>
      <Placemark>
        <name>Just a note</name>
      </Placemark>
    </Folder>
  </Document>
</kml>`

func TestDecodeKML(t *testing.T) {
	res, err := DecodeKML([]byte(sampleKML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(res.Shapes))
	}

	poly := res.Shapes[0]
	if poly.Kind != models.KindPolygon || poly.Label != "Sanctuary Boundary" {
		t.Fatalf("unexpected polygon shape: %+v", poly)
	}
	// lon,lat,alt tuples flipped to (lat,lng), altitude dropped, closing
	// duplicate removed.
	if len(poly.Points) != 3 {
		t.Fatalf("expected 3 ring points, got %d", len(poly.Points))
	}
	if poly.Points[0] != (geo.Point{Lat: 7.0, Lng: 80.0}) {
		t.Fatalf("coordinates not flipped: %+v", poly.Points[0])
	}
	if poly.Data["description"] != "No-take zone" {
		t.Fatalf("description not retained: %+v", poly.Data)
	}

	line := res.Shapes[1]
	if line.Kind != models.KindLine || len(line.Points) != 2 {
		t.Fatalf("unexpected line shape: %+v", line)
	}

	pt := res.Shapes[2]
	if pt.Kind != models.KindPoint || pt.Points[0] != (geo.Point{Lat: 6.95, Lng: 79.85}) {
		t.Fatalf("unexpected point shape: %+v", pt)
	}

	// The geometry-less placemark is skipped with a warning, not fatal.
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", res.Warnings)
	}
}

func TestDecodeKMLRejectsNonKML(t *testing.T) {
	if _, err := DecodeKML([]byte(`{"type":"FeatureCollection"}`)); err == nil {
		t.Fatal("expected error for non-XML input")
	}
}
