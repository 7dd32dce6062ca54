package codec

import (
	"encoding/json"
	"time"

	"msp-bknd/internal/models"
)

// DocumentVersion tags MSP-JSON payloads written by this service.
const DocumentVersion = "1.0"

// Document is the MSP-JSON project container: the project (with its
// owned shapes) plus auxiliary research data and reviewer comments. The
// auxiliary collections are opaque pass-through blobs — the core never
// interprets them.
type Document struct {
	Version      string          `json:"version,omitempty"`
	ExportedAt   string          `json:"exportedAt,omitempty"`
	Project      *models.Project `json:"project"`
	ResearchData json.RawMessage `json:"researchData,omitempty"`
	Comments     json.RawMessage `json:"comments,omitempty"`
}

// DecodeMSPJSON decodes the portal's project round-trip format. A
// top-level "project" object is required.
func DecodeMSPJSON(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Format: "msp-json", Reason: "invalid JSON", Cause: err}
	}
	if doc.Project == nil {
		return nil, &Error{Format: "msp-json", Reason: "missing top-level project object"}
	}
	return &doc, nil
}

// EncodeMSPJSON builds the MSP-JSON document for a project and its
// shapes, stamping version and export time.
func EncodeMSPJSON(project *models.Project, shapes []models.Shape, researchData, comments json.RawMessage) ([]byte, error) {
	p := *project
	p.Shapes = shapes
	doc := Document{
		Version:      DocumentVersion,
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		Project:      &p,
		ResearchData: researchData,
		Comments:     comments,
	}
	return json.MarshalIndent(&doc, "", "  ")
}
