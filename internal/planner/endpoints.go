package planner

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/fuelroute/fuelroute/internal/geo"
)

// parseCoordinates interprets free text as a coordinate pair. Accepted
// forms are a JSON array ("[lon, lat]") and comma-separated numbers.
// Comma-separated input is nominally "lon, lat", but when exactly one
// component cannot be a latitude the pair is reordered, so the common
// "lat, lon" habit still resolves correctly.
func parseCoordinates(text string) (geo.Point, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return geo.Point{}, false
	}

	var pair []float64
	if err := json.Unmarshal([]byte(text), &pair); err == nil {
		if len(pair) < 2 {
			return geo.Point{}, false
		}
		return geo.Point{Lat: pair[1], Lon: pair[0]}, true
	}

	if !strings.Contains(text, ",") {
		return geo.Point{}, false
	}
	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return geo.Point{}, false
	}
	a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errA != nil || errB != nil {
		return geo.Point{}, false
	}

	switch {
	case math.Abs(a) > 90 && math.Abs(b) <= 90:
		return geo.Point{Lat: b, Lon: a}, true
	case math.Abs(b) > 90 && math.Abs(a) <= 90:
		return geo.Point{Lat: a, Lon: b}, true
	default:
		return geo.Point{Lat: b, Lon: a}, true
	}
}

// isProbablyUS is a coarse continental-plus-Alaska box check. It is a
// sanity filter for the US-only station dataset, not a border test.
func isProbablyUS(p geo.Point) bool {
	return p.Lon >= -179.9 && p.Lon <= -66.0 && p.Lat >= 18.0 && p.Lat <= 72.0
}
