package codec

import (
	"encoding/json"
	"strings"
)

// FileType classifies input content for the unified import entry point.
type FileType string

const (
	FormatGeoJSON FileType = "geojson"
	FormatMSPJSON FileType = "msp-json"
	FormatKML     FileType = "kml"
	FormatCSV     FileType = "csv"
	FormatUnknown FileType = "unknown"
)

// DetectFileType classifies content by sniffing it first and only
// falling back to the filename extension when sniffing is inconclusive.
// Unrecognized content classifies as FormatUnknown; detection never
// fails.
func DetectFileType(content []byte, filename string) FileType {
	trimmed := strings.TrimSpace(string(content))

	switch {
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		var probe map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &probe); err == nil {
			var typeTag string
			if raw, ok := probe["type"]; ok {
				_ = json.Unmarshal(raw, &typeTag)
			}
			if typeTag == "FeatureCollection" {
				return FormatGeoJSON
			}
			if _, ok := probe["project"]; ok {
				return FormatMSPJSON
			}
		}
	case strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<kml"):
		return FormatKML
	default:
		if firstLine, _, _ := strings.Cut(trimmed, "\n"); strings.Contains(firstLine, ",") && firstLine != "" {
			return FormatCSV
		}
	}

	// Sniffing inconclusive: fall back to the extension.
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".geojson") || strings.HasSuffix(lower, ".json"):
		return FormatGeoJSON
	case strings.HasSuffix(lower, ".kml"):
		return FormatKML
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV
	}
	return FormatUnknown
}
