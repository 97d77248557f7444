// Package geo provides great-circle geometry helpers used for along-route
// distance accounting and corridor bounding boxes. All distances are in
// statute miles.
package geo

import "math"

// EarthRadiusMiles is the mean Earth radius in statute miles used by all
// distance computations. Changing it changes every along-route measurement,
// so it is fixed here rather than configurable.
const EarthRadiusMiles = 3958.7613

// Point represents a geographic coordinate in WGS84 degrees.
type Point struct {
	Lat float64
	Lon float64
}

// BoundingBox is a latitude/longitude aligned box.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Contains reports whether p falls inside the box (inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.LatMin && p.Lat <= b.LatMax &&
		p.Lon >= b.LonMin && p.Lon <= b.LonMax
}

// DistanceMiles returns the haversine great-circle distance between two
// points in statute miles.
func DistanceMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// CumulativeMiles returns the running along-route distance for each point of
// a polyline, starting at 0. An empty or single-point route yields [0.0].
func CumulativeMiles(points []Point) []float64 {
	if len(points) == 0 {
		return []float64{0.0}
	}

	cumulative := make([]float64, 1, len(points))
	cumulative[0] = 0.0
	for i := 1; i < len(points); i++ {
		cumulative = append(cumulative, cumulative[i-1]+DistanceMiles(points[i-1], points[i]))
	}
	return cumulative
}

// RouteBoundingBox returns the bounding box of a route expanded by
// paddingMiles on every side. Latitude padding uses 69 miles per degree;
// longitude padding is scaled by the cosine of the route's mid latitude,
// floored at 0.2 to avoid blow-up near the poles.
func RouteBoundingBox(points []Point, paddingMiles float64) BoundingBox {
	latMin, latMax := points[0].Lat, points[0].Lat
	lonMin, lonMax := points[0].Lon, points[0].Lon

	for _, p := range points[1:] {
		latMin = math.Min(latMin, p.Lat)
		latMax = math.Max(latMax, p.Lat)
		lonMin = math.Min(lonMin, p.Lon)
		lonMax = math.Max(lonMax, p.Lon)
	}

	latPad := paddingMiles / 69.0
	midLat := (latMin + latMax) / 2.0
	lonDenominator := 69.172 * math.Max(0.2, math.Abs(math.Cos(midLat*math.Pi/180)))
	lonPad := paddingMiles / lonDenominator

	return BoundingBox{
		LatMin: latMin - latPad,
		LatMax: latMax + latPad,
		LonMin: lonMin - lonPad,
		LonMax: lonMax + lonPad,
	}
}
