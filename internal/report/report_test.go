package report

import (
	"testing"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"

	"go.uber.org/zap"
)

func sampleShapes() []models.Shape {
	center := geo.Point{Lat: 7, Lng: 80}
	return []models.Shape{
		{ID: "s1", Kind: models.KindPolygon, Label: "Zone 1", ZoneType: "fishing_zone",
			Points: []geo.Point{{Lat: 7.0, Lng: 80.0}, {Lat: 7.0, Lng: 80.1}, {Lat: 7.1, Lng: 80.1}, {Lat: 7.1, Lng: 80.0}}},
		{ID: "s2", Kind: models.KindCircle, Label: "Zone 2", ZoneType: "monitoring_station",
			Center: &center, RadiusM: 1000,
			Data: map[string]any{"ph": 8.1, "notes": "monthly sampling"}},
		{ID: "s3", Kind: models.KindLine, Label: "Transect A", ZoneType: "research_area",
			Points: []geo.Point{{Lat: 7.0, Lng: 80.0}, {Lat: 7.0, Lng: 80.2}}},
		{ID: "s4", Kind: models.KindPoint, Label: "Station 1", ZoneType: "monitoring_station",
			Points: []geo.Point{{Lat: 6.95, Lng: 79.85}}},
	}
}

func sampleProject() *models.Project {
	return &models.Project{
		ID:         "p1",
		Name:       "Trinco Bay Survey",
		Researcher: "K. Perera",
		Date:       "2026-08-12",
		Status:     models.StatusReview,
		Tags:       []string{"coastal", "2026"},
	}
}

func sectionByKind(t *testing.T, r *Report, kind SectionKind) *Section {
	t.Helper()
	for i := range r.Sections {
		if r.Sections[i].Kind == kind {
			return &r.Sections[i]
		}
	}
	t.Fatalf("section %s missing", kind)
	return nil
}

func TestBuildProducesOrderedSections(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	r, filename := b.Build(sampleProject(), sampleShapes(), "map-123.png")

	if r.ID != "p1" {
		t.Fatalf("report id must equal project id, got %q", r.ID)
	}
	order := []SectionKind{SectionCover, SectionSummary, SectionMapSnapshot, SectionZoneDetail, SectionAppendix}
	if len(r.Sections) != len(order) {
		t.Fatalf("expected %d sections, got %d", len(order), len(r.Sections))
	}
	for i, kind := range order {
		if r.Sections[i].Kind != kind {
			t.Fatalf("section %d: expected %s, got %s", i, kind, r.Sections[i].Kind)
		}
	}
	if filename != "Trinco_Bay_Survey_2026-08-12.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestSummarySection(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	r, _ := b.Build(sampleProject(), sampleShapes(), "")

	sum := sectionByKind(t, r, SectionSummary).Summary
	if sum == nil {
		t.Fatal("summary payload missing")
	}
	if sum.TotalShapes != 4 {
		t.Fatalf("expected 4 shapes, got %d", sum.TotalShapes)
	}
	if sum.ZoneTypeCount != 3 {
		t.Fatalf("expected 3 distinct zone types, got %d", sum.ZoneTypeCount)
	}
	if sum.TotalAreaKm2 <= 0 {
		t.Fatalf("expected positive total area, got %v", sum.TotalAreaKm2)
	}
	if sum.TotalLineKm <= 0 {
		t.Fatalf("expected positive line length, got %v", sum.TotalLineKm)
	}

	totalPct := 0.0
	for _, tc := range sum.Distribution {
		totalPct += tc.Percent
	}
	if totalPct < 99.9 || totalPct > 100.1 {
		t.Fatalf("distribution percentages should sum to 100, got %v", totalPct)
	}
	// monitoring_station appears twice: 50%.
	for _, tc := range sum.Distribution {
		if tc.ZoneType == "monitoring_station" && (tc.Count != 2 || tc.Percent != 50) {
			t.Fatalf("unexpected distribution entry: %+v", tc)
		}
	}
}

func TestMapSectionDegradesToPlaceholder(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	r, _ := b.Build(sampleProject(), sampleShapes(), "")
	sec := sectionByKind(t, r, SectionMapSnapshot)
	if sec.Placeholder == "" || sec.Map != nil {
		t.Fatalf("expected placeholder without a map image: %+v", sec)
	}

	r, _ = b.Build(sampleProject(), sampleShapes(), "render-7.png")
	sec = sectionByKind(t, r, SectionMapSnapshot)
	if sec.Map == nil || sec.Map.ImageRef != "render-7.png" {
		t.Fatalf("expected map image ref: %+v", sec)
	}
}

func TestZoneDetailMetricsPerKind(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	r, _ := b.Build(sampleProject(), sampleShapes(), "")
	zones := sectionByKind(t, r, SectionZoneDetail).Zones
	if len(zones) != 4 {
		t.Fatalf("expected 4 zone details, got %d", len(zones))
	}

	poly := zones[0]
	if poly.AreaKm2 <= 0 || poly.PerimeterKm <= 0 {
		t.Fatalf("polygon metrics missing: %+v", poly)
	}
	circle := zones[1]
	if circle.AreaKm2 <= 0 || circle.RadiusM != 1000 {
		t.Fatalf("circle metrics missing: %+v", circle)
	}
	if circle.Data["ph"] != "8.1" || circle.Data["notes"] != "monthly sampling" {
		t.Fatalf("data table missing entries: %+v", circle.Data)
	}
	line := zones[2]
	if line.LengthKm <= 0 || line.AreaKm2 != 0 {
		t.Fatalf("line metrics wrong: %+v", line)
	}
	point := zones[3]
	if point.AreaKm2 != 0 || point.LengthKm != 0 {
		t.Fatalf("point should carry no metrics: %+v", point)
	}
}

func TestAppendixSection(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	r, _ := b.Build(sampleProject(), sampleShapes(), "")
	app := sectionByKind(t, r, SectionAppendix).Appendix
	if app == nil {
		t.Fatal("appendix payload missing")
	}
	if app.ReportID != "p1" {
		t.Fatalf("report id mismatch: %q", app.ReportID)
	}
	if len(app.Methodology) == 0 {
		t.Fatal("methodology notes missing")
	}
	if len(app.Tags) != 2 {
		t.Fatalf("tags not carried: %+v", app.Tags)
	}
	if app.GeneratedAt == "" {
		t.Fatal("generation timestamp missing")
	}
}

func TestSectionFailureYieldsPlaceholderNotAbort(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	// A circle with a nil center would panic during detail building if
	// metrics were computed naively; builders convert panics into
	// placeholders and keep going.
	bad := []models.Shape{{ID: "x", Kind: models.KindCircle, Label: "Broken"}}
	r, _ := b.Build(sampleProject(), bad, "")
	if len(r.Sections) != 5 {
		t.Fatalf("a bad shape must not abort the report, got %d sections", len(r.Sections))
	}
}
