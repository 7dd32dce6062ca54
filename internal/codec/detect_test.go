package codec

import "testing"

func TestDetectFileType(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		filename string
		want     FileType
	}{
		{"geojson by content", `{"type":"FeatureCollection","features":[]}`, "upload.txt", FormatGeoJSON},
		{"msp-json by content", `{"project":{"id":"p1","name":"Survey"}}`, "upload.txt", FormatMSPJSON},
		{"kml by declaration", `<?xml version="1.0"?><kml></kml>`, "upload.txt", FormatKML},
		{"kml by root tag", `<kml xmlns="http://www.opengis.net/kml/2.2"></kml>`, "x", FormatKML},
		{"csv by comma", "name,type,color\nA,fishing_zone,#fff", "upload.txt", FormatCSV},
		{"extension fallback geojson", ``, "zones.geojson", FormatGeoJSON},
		{"extension fallback json", ``, "zones.json", FormatGeoJSON},
		{"extension fallback kml", ``, "zones.kml", FormatKML},
		{"extension fallback csv", ``, "zones.csv", FormatCSV},
		{"unknown", `plain prose with no structure`, "notes.txt", FormatUnknown},
		{"json without markers falls back", `{"foo": 1}`, "data.json", FormatGeoJSON},
	}

	for _, tc := range cases {
		got := DetectFileType([]byte(tc.content), tc.filename)
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
