package models

// ZoneStyle is the display styling for a known zone type. ZoneType itself
// stays an open string tag so new designations remain representable
// without a schema change; unknown tags fall back to DefaultZoneStyle.
type ZoneStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// DefaultZoneStyle styles any zone type missing from the lookup table.
var DefaultZoneStyle = ZoneStyle{Label: "Custom Zone", Color: "#3388ff", Icon: "map-pin"}

var zoneStyles = map[string]ZoneStyle{
	"fishing_zone":       {Label: "Fishing Zone", Color: "#1e88e5", Icon: "fish"},
	"protected_area":     {Label: "Protected Area", Color: "#43a047", Icon: "shield"},
	"marine_reserve":     {Label: "Marine Reserve", Color: "#2e7d32", Icon: "leaf"},
	"shipping_lane":      {Label: "Shipping Lane", Color: "#6d4c41", Icon: "ship"},
	"anchorage":          {Label: "Anchorage", Color: "#546e7a", Icon: "anchor"},
	"aquaculture":        {Label: "Aquaculture", Color: "#00acc1", Icon: "waves"},
	"research_area":      {Label: "Research Area", Color: "#8e24aa", Icon: "flask"},
	"monitoring_station": {Label: "Monitoring Station", Color: "#5e35b1", Icon: "radio"},
	"coral_reef":         {Label: "Coral Reef", Color: "#f4511e", Icon: "coral"},
	"seagrass_bed":       {Label: "Seagrass Bed", Color: "#7cb342", Icon: "sprout"},
	"mangrove":           {Label: "Mangrove", Color: "#33691e", Icon: "tree"},
	"spawning_ground":    {Label: "Spawning Ground", Color: "#fb8c00", Icon: "egg"},
	"buffer_zone":        {Label: "Buffer Zone", Color: "#fdd835", Icon: "circle-dashed"},
	"restricted_zone":    {Label: "Restricted Zone", Color: "#e53935", Icon: "ban"},
	"military_zone":      {Label: "Military Zone", Color: "#b71c1c", Icon: "alert"},
	"tourism_zone":       {Label: "Tourism Zone", Color: "#ffb300", Icon: "umbrella"},
}

// StyleFor returns the display style for a zone type, falling back to
// DefaultZoneStyle for unrecognized tags.
func StyleFor(zoneType string) ZoneStyle {
	if st, ok := zoneStyles[zoneType]; ok {
		return st
	}
	return DefaultZoneStyle
}

// KnownZoneTypes returns the zone type tags with registered styles.
func KnownZoneTypes() []string {
	out := make([]string, 0, len(zoneStyles))
	for k := range zoneStyles {
		out = append(out, k)
	}
	return out
}
