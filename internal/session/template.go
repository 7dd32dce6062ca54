package session

import "msp-bknd/internal/models"

// Template is a preset applied to shapes a drawing session emits:
// pre-tagged zone type, color, and, for circles, a placement radius.
type Template struct {
	Name     string  `json:"name"`
	Label    string  `json:"label,omitempty"`
	ZoneType string  `json:"zoneType"`
	Color    string  `json:"color"`
	RadiusM  float64 `json:"radius,omitempty"`
}

// BuiltinTemplates are the presets the portal offers out of the box.
// Colors come from the zone style table so drawn and imported zones of
// the same type match.
func BuiltinTemplates() []Template {
	types := []struct {
		name     string
		zoneType string
		radiusM  float64
	}{
		{"Fishing Zone", "fishing_zone", 0},
		{"Protected Area", "protected_area", 0},
		{"Monitoring Station", "monitoring_station", 500},
		{"Anchorage", "anchorage", 1000},
		{"Aquaculture Site", "aquaculture", 750},
		{"Research Area", "research_area", 0},
	}
	out := make([]Template, 0, len(types))
	for _, t := range types {
		out = append(out, Template{
			Name:     t.name,
			ZoneType: t.zoneType,
			Color:    models.StyleFor(t.zoneType).Color,
			RadiusM:  t.radiusM,
		})
	}
	return out
}

// TemplateByName looks up a builtin template.
func TemplateByName(name string) *Template {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
