package planner

import (
	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/station"
)

// MapStationsToRoute projects stations onto the route corridor. Each
// station within CorridorRadiusMiles of the route is annotated with the
// cumulative mileage of its nearest sampled route point and its detour
// distance. Input order is preserved, which keeps selection ties stable.
//
// Routes are downsampled to roughly downsampleTarget points before the
// nearest-point search; a bounding-box prefilter padded past the corridor
// radius discards far-away stations before any distance math runs.
func MapStationsToRoute(points []geo.Point, cumulative []float64, stations []station.Station) []MappedStation {
	if len(points) == 0 || len(stations) == 0 {
		return nil
	}

	bbox := geo.RouteBoundingBox(points, CorridorRadiusMiles+bboxSlackMiles)

	candidates := make([]station.Station, 0, len(stations))
	for _, st := range stations {
		if bbox.Contains(geo.Point{Lat: st.Lat, Lon: st.Lon}) {
			candidates = append(candidates, st)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	stride := len(points) / downsampleTarget
	if stride < 1 {
		stride = 1
	}
	sampled := make([]int, 0, len(points)/stride+2)
	for idx := 0; idx < len(points); idx += stride {
		sampled = append(sampled, idx)
	}
	if sampled[len(sampled)-1] != len(points)-1 {
		sampled = append(sampled, len(points)-1)
	}

	mapped := make([]MappedStation, 0, len(candidates))
	for _, st := range candidates {
		stationPoint := geo.Point{Lat: st.Lat, Lon: st.Lon}
		bestDistance := -1.0
		bestIndex := 0
		for _, idx := range sampled {
			distance := geo.DistanceMiles(stationPoint, points[idx])
			if bestDistance < 0 || distance < bestDistance {
				bestDistance = distance
				bestIndex = idx
			}
		}
		if bestDistance > CorridorRadiusMiles {
			continue
		}
		mapped = append(mapped, MappedStation{
			Name:           st.Name,
			City:           st.City,
			State:          st.State,
			PricePerGallon: st.PricePerGallon,
			Lat:            st.Lat,
			Lon:            st.Lon,
			RouteMile:      cumulative[bestIndex],
			DetourMiles:    bestDistance,
		})
	}
	return mapped
}
