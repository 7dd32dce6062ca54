package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by all spherical formulas.
const EarthRadiusKm = 6371.0

// degSqKm is the area of one square degree at the equator (111.19 km per
// degree, squared). Used by the planar shoelace approximation.
const degSqKm = 12364.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the Haversine great-circle distance between two points
// in kilometers.
func Distance(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing from a toward b in
// degrees, normalized to [0, 360). Returns 0 when the points coincide.
func Bearing(a, b Point) float64 {
	if a == b {
		return 0
	}
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLng := toRad(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	brg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(brg+360, 360)
}

// Perimeter returns the total length of a ring in kilometers, including
// the closing segment back to the first point. Rings are stored unclosed
// (first point not repeated). Returns 0 for fewer than 2 points.
func Perimeter(ring []Point) float64 {
	if len(ring) < 2 {
		return 0
	}
	total := 0.0
	for i := range ring {
		total += Distance(ring[i], ring[(i+1)%len(ring)])
	}
	return total
}

// PlanarShoelaceArea returns the ring area in km² using a flat-plane
// shoelace over raw decimal degrees scaled by the equatorial square-degree
// constant. Cheap but increasingly wrong at high latitudes and for large
// polygons; kept for parity with legacy exports. Prefer SphericalExcessArea.
func PlanarShoelaceArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	area := 0.0
	j := len(ring) - 1
	for i := range ring {
		area += (ring[j].Lng + ring[i].Lng) * (ring[j].Lat - ring[i].Lat)
		j = i
	}
	return math.Abs(area/2) * degSqKm
}

// SphericalExcessArea returns the ring area in km² using the spherical
// excess approximation on a sphere of radius EarthRadiusKm.
func SphericalExcessArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i := range ring {
		p1 := ring[i]
		p2 := ring[(i+1)%len(ring)]
		sum += toRad(p2.Lng-p1.Lng) * (2 + math.Sin(toRad(p1.Lat)) + math.Sin(toRad(p2.Lat)))
	}
	return math.Abs(sum) * EarthRadiusKm * EarthRadiusKm / 2
}

// RingArea is the authoritative polygon area used across the service.
func RingArea(ring []Point) float64 {
	return SphericalExcessArea(ring)
}

// CircleArea returns the area of a circle of the given radius (meters)
// in km².
func CircleArea(radiusM float64) float64 {
	if radiusM <= 0 {
		return 0
	}
	return math.Pi * radiusM * radiusM / 1e6
}
