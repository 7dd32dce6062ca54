package codec

import (
	"encoding/json"
	"fmt"

	"msp-bknd/internal/metrics"
	"msp-bknd/internal/models"

	"go.uber.org/zap"
)

// ImportResult is the uniform envelope returned by the import boundary.
// Callers never need to catch errors from ImportFile: failures are
// reported through the Success/Error fields.
type ImportResult struct {
	Success      bool                `json:"success"`
	Format       FileType            `json:"format"`
	Shapes       []models.Shape      `json:"shapes,omitempty"`
	Project      *models.Project     `json:"project,omitempty"`
	ResearchData json.RawMessage     `json:"researchData,omitempty"`
	Comments     json.RawMessage     `json:"comments,omitempty"`
	Skipped      []models.ShapeError `json:"skipped,omitempty"`
	Message      string              `json:"message,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// Importer is the unified import entry point: detect the format,
// dispatch to the matching decoder, validate the decoded shapes, and
// fold per-item problems into warnings. Partial success is the default
// expectation.
type Importer struct {
	logr *zap.Logger
}

func NewImporter(logr *zap.Logger) *Importer {
	return &Importer{logr: logr}
}

// ImportFile decodes raw file content named filename. It never panics
// and never returns a Go error; the result envelope carries the outcome.
func (im *Importer) ImportFile(filename string, content []byte) *ImportResult {
	format := DetectFileType(content, filename)

	var (
		dec     *DecodeResult
		project *models.Project
		doc     *Document
		err     error
	)

	switch format {
	case FormatGeoJSON:
		dec, err = DecodeGeoJSON(content)
	case FormatKML:
		dec, err = DecodeKML(content)
	case FormatCSV:
		dec, err = DecodeCSV(content)
	case FormatMSPJSON:
		doc, err = DecodeMSPJSON(content)
		if err == nil {
			project = doc.Project
			dec = &DecodeResult{Shapes: doc.Project.Shapes}
		}
	default:
		metrics.ImportsTotal.WithLabelValues(string(FormatUnknown), "error").Inc()
		return &ImportResult{
			Success: false,
			Format:  FormatUnknown,
			Error:   fmt.Sprintf("%v: %s", ErrUnsupportedFormat, filename),
		}
	}

	if err != nil {
		im.logr.Warn("import decode failed",
			zap.String("file", filename),
			zap.String("format", string(format)),
			zap.Error(err))
		metrics.ImportsTotal.WithLabelValues(string(format), "error").Inc()
		return &ImportResult{Success: false, Format: format, Error: err.Error()}
	}

	for _, w := range dec.Warnings {
		im.logr.Warn("import warning", zap.String("file", filename), zap.String("warning", w))
	}

	valid, shapeErrs := models.ValidateShapes(dec.Shapes)

	res := &ImportResult{
		Success: true,
		Format:  format,
		Shapes:  valid,
		Project: project,
		Skipped: shapeErrs,
		Message: importMessage(len(valid), len(dec.Warnings)+len(shapeErrs)),
	}
	if doc != nil {
		res.ResearchData = doc.ResearchData
		res.Comments = doc.Comments
	}

	metrics.ImportsTotal.WithLabelValues(string(format), "success").Inc()
	metrics.ImportedShapesTotal.Add(float64(len(valid)))
	im.logr.Info("file imported",
		zap.String("file", filename),
		zap.String("format", string(format)),
		zap.Int("shapes", len(valid)),
		zap.Int("skipped", len(dec.Warnings)+len(shapeErrs)))
	return res
}

func importMessage(accepted, skipped int) string {
	if skipped == 0 {
		return fmt.Sprintf("imported %d shapes", accepted)
	}
	return fmt.Sprintf("imported %d shapes (%d skipped)", accepted, skipped)
}
