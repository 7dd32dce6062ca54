// Package report assembles the structured MSP project report: an
// ordered sequence of sections computed from a project and its shapes,
// independent of whatever engine finally renders it. Section failures
// degrade to placeholders; one bad section never aborts the report.
package report

import (
	"fmt"
	"sort"
	"time"

	"msp-bknd/internal/codec"
	"msp-bknd/internal/geo"
	"msp-bknd/internal/metrics"
	"msp-bknd/internal/models"

	"go.uber.org/zap"
)

type SectionKind string

const (
	SectionCover       SectionKind = "cover"
	SectionSummary     SectionKind = "summary"
	SectionMapSnapshot SectionKind = "map_snapshot"
	SectionZoneDetail  SectionKind = "zone_detail"
	SectionAppendix    SectionKind = "appendix"
)

// Report is the rendered-engine-independent report structure. The
// report id equals the project id.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Sections    []Section `json:"sections"`
}

// Section is one report section. Exactly one payload field is set for
// its kind; Placeholder carries the degradation notice when the
// section's data could not be gathered.
type Section struct {
	Kind        SectionKind  `json:"kind"`
	Title       string       `json:"title"`
	Placeholder string       `json:"placeholder,omitempty"`
	Cover       *Cover       `json:"cover,omitempty"`
	Summary     *Summary     `json:"summary,omitempty"`
	Map         *MapSnapshot `json:"map,omitempty"`
	Zones       []ZoneDetail `json:"zones,omitempty"`
	Appendix    *Appendix    `json:"appendix,omitempty"`
}

type Cover struct {
	ProjectName string    `json:"projectName"`
	Researcher  string    `json:"researcher,omitempty"`
	Date        string    `json:"date,omitempty"`
	Status      string    `json:"status,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type TypeCount struct {
	ZoneType string  `json:"zoneType"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

type Summary struct {
	TotalShapes   int         `json:"totalShapes"`
	TotalAreaKm2  float64     `json:"totalAreaKm2"`
	TotalLineKm   float64     `json:"totalLineKm"`
	ZoneTypeCount int         `json:"zoneTypeCount"`
	Distribution  []TypeCount `json:"distribution"`
}

type MapSnapshot struct {
	ImageRef string `json:"imageRef"`
}

type ZoneDetail struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Kind        models.ShapeKind  `json:"kind"`
	ZoneType    string            `json:"zoneType,omitempty"`
	AreaKm2     float64           `json:"areaKm2,omitempty"`
	PerimeterKm float64           `json:"perimeterKm,omitempty"`
	LengthKm    float64           `json:"lengthKm,omitempty"`
	RadiusM     float64           `json:"radiusM,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
}

type Appendix struct {
	Methodology []string `json:"methodology"`
	Tags        []string `json:"tags,omitempty"`
	ReportID    string   `json:"reportId"`
	GeneratedAt string   `json:"generatedAt"`
}

// Builder assembles reports. It carries only a logger; all inputs come
// per call so building is deterministic and testable.
type Builder struct {
	logr *zap.Logger
}

func NewBuilder(logr *zap.Logger) *Builder {
	return &Builder{logr: logr}
}

// Build assembles the full report for a project and its shapes.
// mapImageRef is an externally rendered map handle; when empty the map
// section degrades to a text placeholder. Returns the report and the
// suggested download filename.
func (b *Builder) Build(project *models.Project, shapes []models.Shape, mapImageRef string) (*Report, string) {
	now := time.Now().UTC()
	r := &Report{ID: project.ID, GeneratedAt: now}

	r.Sections = append(r.Sections,
		b.section(SectionCover, "Cover", func(s *Section) {
			s.Cover = &Cover{
				ProjectName: project.Name,
				Researcher:  project.Researcher,
				Date:        project.Date,
				Status:      project.Status,
				GeneratedAt: now,
			}
		}),
		b.section(SectionSummary, "Executive Summary", func(s *Section) {
			s.Summary = buildSummary(shapes)
		}),
		b.section(SectionMapSnapshot, "Map Snapshot", func(s *Section) {
			if mapImageRef == "" {
				s.Placeholder = "Map snapshot unavailable"
				return
			}
			s.Map = &MapSnapshot{ImageRef: mapImageRef}
		}),
		b.section(SectionZoneDetail, "Zone Details", func(s *Section) {
			s.Zones = buildZoneDetails(shapes)
		}),
		b.section(SectionAppendix, "Appendix", func(s *Section) {
			s.Appendix = &Appendix{
				Methodology: methodologyNotes(),
				Tags:        project.Tags,
				ReportID:    project.ID,
				GeneratedAt: now.Format(time.RFC3339),
			}
		}),
	)

	metrics.ReportsTotal.Inc()
	return r, codec.ExportFilename(project, "pdf")
}

// section runs one section builder, converting a panic during data
// gathering into a placeholder so the remaining sections still build.
func (b *Builder) section(kind SectionKind, title string, fill func(*Section)) (out Section) {
	out = Section{Kind: kind, Title: title}
	defer func() {
		if rec := recover(); rec != nil {
			b.logr.Warn("report section failed",
				zap.String("section", string(kind)),
				zap.Any("cause", rec))
			out = Section{Kind: kind, Title: title, Placeholder: fmt.Sprintf("%s unavailable", title)}
		}
	}()
	fill(&out)
	return out
}

func buildSummary(shapes []models.Shape) *Summary {
	s := &Summary{TotalShapes: len(shapes)}
	counts := map[string]int{}
	for _, sh := range shapes {
		s.TotalAreaKm2 += sh.AreaKm2()
		if sh.Kind == models.KindLine {
			s.TotalLineKm += sh.LengthKm()
		}
		counts[sh.ZoneType]++
	}
	s.ZoneTypeCount = len(counts)

	types := make([]string, 0, len(counts))
	for zt := range counts {
		types = append(types, zt)
	}
	sort.Strings(types)
	for _, zt := range types {
		pct := 0.0
		if len(shapes) > 0 {
			pct = float64(counts[zt]) / float64(len(shapes)) * 100
		}
		s.Distribution = append(s.Distribution, TypeCount{
			ZoneType: zt,
			Label:    models.StyleFor(zt).Label,
			Count:    counts[zt],
			Percent:  pct,
		})
	}
	return s
}

func buildZoneDetails(shapes []models.Shape) []ZoneDetail {
	details := make([]ZoneDetail, 0, len(shapes))
	for _, sh := range shapes {
		d := ZoneDetail{
			ID:       sh.ID,
			Label:    sh.Label,
			Kind:     sh.Kind,
			ZoneType: sh.ZoneType,
		}
		switch sh.Kind {
		case models.KindPolygon:
			d.AreaKm2 = sh.AreaKm2()
			d.PerimeterKm = geo.Perimeter(sh.Points)
		case models.KindCircle:
			d.AreaKm2 = sh.AreaKm2()
			d.RadiusM = sh.RadiusM
		case models.KindLine:
			d.LengthKm = sh.LengthKm()
		}
		if len(sh.Data) > 0 {
			d.Data = make(map[string]string, len(sh.Data))
			for k, v := range sh.Data {
				d.Data[k] = fmt.Sprintf("%v", v)
			}
		}
		details = append(details, d)
	}
	return details
}

func methodologyNotes() []string {
	return []string{
		"Coordinates are WGS84 decimal degrees (latitude, longitude).",
		fmt.Sprintf("Distances use the Haversine great-circle formula with Earth radius %.0f km.", geo.EarthRadiusKm),
		"Polygon areas use a spherical-excess approximation; small planar zones may differ slightly from legacy planar figures.",
		"Circle areas are computed as pi times the squared radius.",
		"Base map tiles (c) OpenStreetMap contributors.",
	}
}
