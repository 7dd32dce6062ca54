package codec

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
)

// Column conventions: the first match wins, case-insensitive.
var (
	csvNameColumns  = []string{"zone name", "name"}
	csvTypeColumns  = []string{"type"}
	csvColorColumns = []string{"color"}
	csvCoordColumns = []string{"coordinates"}
)

// DecodeCSV decodes one shape per data row. The header row names the
// columns; Zone Name/name, Type/type, Color/color, and an optional
// Coordinates column (a JSON array literal) are consumed by convention,
// and every other column lands in the shape's open data map. Rows whose
// column count disagrees with the header are skipped with a warning.
func DecodeCSV(raw []byte) (*DecodeResult, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1 // length checked per row so one bad row can't abort the batch

	header, err := r.Read()
	if err != nil {
		return nil, &Error{Format: "csv", Reason: "missing header row", Cause: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	nameIdx := findColumn(header, csvNameColumns)
	typeIdx := findColumn(header, csvTypeColumns)
	colorIdx := findColumn(header, csvColorColumns)
	coordIdx := findColumn(header, csvCoordColumns)

	res := &DecodeResult{}
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			res.warnf("row %d: unreadable, skipped", row)
			continue
		}
		if len(rec) != len(header) {
			res.warnf("row %d: has %d columns, header has %d, skipped", row, len(rec), len(header))
			continue
		}

		s := models.Shape{
			CreatedAt: time.Now().UTC(),
			Imported:  true,
		}
		if nameIdx >= 0 {
			s.Label = strings.TrimSpace(rec[nameIdx])
		}
		if typeIdx >= 0 {
			s.ZoneType = strings.TrimSpace(rec[typeIdx])
		}
		if colorIdx >= 0 {
			s.Color = strings.TrimSpace(rec[colorIdx])
		}

		for i, col := range header {
			if i == nameIdx || i == typeIdx || i == colorIdx || i == coordIdx {
				continue
			}
			val := strings.TrimSpace(rec[i])
			if val == "" {
				continue
			}
			if s.Data == nil {
				s.Data = make(map[string]any)
			}
			s.Data[col] = val
		}

		coordRaw := ""
		if coordIdx >= 0 {
			coordRaw = strings.TrimSpace(rec[coordIdx])
		}
		applyCSVCoordinates(&s, coordRaw, row, res)

		res.Shapes = append(res.Shapes, s)
	}
	return res, nil
}

// applyCSVCoordinates derives the row's geometry from a JSON array
// literal: more than 2 coordinate pairs make a polygon, a single pair or
// a bare [lat,lng] makes a point. When the literal cannot be understood
// the raw string is retained under data.coordinateString and the row
// becomes a placeholder point at the origin rather than being dropped.
func applyCSVCoordinates(s *models.Shape, raw string, row int, res *DecodeResult) {
	if raw != "" {
		var pairs [][]float64
		if err := json.Unmarshal([]byte(raw), &pairs); err == nil {
			pts := make([]geo.Point, 0, len(pairs))
			for _, p := range pairs {
				if len(p) >= 2 {
					pts = append(pts, geo.Point{Lat: p[0], Lng: p[1]})
				}
			}
			if len(pts) > 2 {
				s.Kind = models.KindPolygon
				s.Points = pts
				return
			}
			if len(pts) == 1 {
				s.Kind = models.KindPoint
				s.Points = pts
				return
			}
		}
		var pair []float64
		if err := json.Unmarshal([]byte(raw), &pair); err == nil && len(pair) == 2 {
			s.Kind = models.KindPoint
			s.Points = []geo.Point{{Lat: pair[0], Lng: pair[1]}}
			return
		}
		if s.Data == nil {
			s.Data = make(map[string]any)
		}
		s.Data["coordinateString"] = raw
		res.warnf("row %d: unparseable coordinates retained as coordinateString", row)
	}
	s.Kind = models.KindPoint
	s.Points = []geo.Point{{Lat: 0, Lng: 0}}
}

// EncodeCSV writes shapes as CSV with the conventional columns plus one
// column per distinct data key, in sorted order for stable output.
func EncodeCSV(shapes []models.Shape) ([]byte, error) {
	dataKeys := collectDataKeys(shapes)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"Zone Name", "Type", "Color", "Coordinates"}, dataKeys...)
	if err := w.Write(header); err != nil {
		return nil, &Error{Format: "csv", Reason: "write failed", Cause: err}
	}

	for _, s := range shapes {
		rec := []string{s.Label, s.ZoneType, s.Color, coordinateLiteral(s)}
		for _, k := range dataKeys {
			if v, ok := s.Data[k]; ok {
				rec = append(rec, fmt.Sprintf("%v", v))
			} else {
				rec = append(rec, "")
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, &Error{Format: "csv", Reason: "write failed", Cause: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &Error{Format: "csv", Reason: "write failed", Cause: err}
	}
	return buf.Bytes(), nil
}

func coordinateLiteral(s models.Shape) string {
	switch s.Kind {
	case models.KindCircle:
		if s.Center == nil {
			return ""
		}
		b, _ := json.Marshal([]float64{s.Center.Lat, s.Center.Lng})
		return string(b)
	default:
		if len(s.Points) == 0 {
			return ""
		}
		if len(s.Points) == 1 {
			b, _ := json.Marshal([]float64{s.Points[0].Lat, s.Points[0].Lng})
			return string(b)
		}
		pairs := make([][]float64, len(s.Points))
		for i, p := range s.Points {
			pairs[i] = []float64{p.Lat, p.Lng}
		}
		b, _ := json.Marshal(pairs)
		return string(b)
	}
}

func collectDataKeys(shapes []models.Shape) []string {
	set := map[string]bool{}
	for _, s := range shapes {
		for k := range s.Data {
			set[k] = true
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func findColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), want) {
				return i
			}
		}
	}
	return -1
}
