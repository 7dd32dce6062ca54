package codec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"msp-bknd/internal/metrics"
	"msp-bknd/internal/models"
)

// ExportFilename builds the suggested download name
// "{ProjectName}_{Date}.{ext}" with spaces replaced by underscores. The
// project's own date is used when set; otherwise today's.
func ExportFilename(project *models.Project, ext string) string {
	name := "untitled"
	if project != nil && project.Name != "" {
		name = project.Name
	}
	date := ""
	if project != nil {
		date = project.Date
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	base := fmt.Sprintf("%s_%s.%s", name, date, ext)
	return strings.ReplaceAll(base, " ", "_")
}

// ExportJSON serializes the project and shapes as an MSP-JSON document.
func ExportJSON(project *models.Project, shapes []models.Shape, researchData, comments json.RawMessage) ([]byte, string, error) {
	payload, err := EncodeMSPJSON(project, shapes, researchData, comments)
	if err != nil {
		return nil, "", err
	}
	metrics.ExportsTotal.WithLabelValues("msp-json").Inc()
	return payload, ExportFilename(project, "json"), nil
}

// ExportGeoJSON serializes shapes as a GeoJSON FeatureCollection.
func ExportGeoJSON(project *models.Project, shapes []models.Shape) ([]byte, string, error) {
	payload, err := EncodeGeoJSON(project, shapes)
	if err != nil {
		return nil, "", err
	}
	metrics.ExportsTotal.WithLabelValues("geojson").Inc()
	return payload, ExportFilename(project, "geojson"), nil
}

// ExportCSV serializes shapes as a CSV table.
func ExportCSV(project *models.Project, shapes []models.Shape) ([]byte, string, error) {
	payload, err := EncodeCSV(shapes)
	if err != nil {
		return nil, "", err
	}
	metrics.ExportsTotal.WithLabelValues("csv").Inc()
	return payload, ExportFilename(project, "csv"), nil
}
