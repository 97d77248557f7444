package planner

import "math"

// scoreStation ranks a candidate for a marker. Price dominates; detour
// and distance from the marker act as tie-breakers at their weights.
func scoreStation(st MappedStation, marker float64) float64 {
	return st.PricePerGallon +
		st.DetourMiles*DetourWeight +
		math.Abs(st.RouteMile-marker)*MarkerWeight
}

// SelectStation picks the best station for a waypoint marker, or nil when
// none exists. Selection windows are tried narrow to wide; within a
// window a station must not sit more than the backtrack tolerance behind
// the previous marker. When every window is empty the search falls back
// to any forward station, and finally to the whole corridor. Ties go to
// the earliest candidate in corridor order.
func SelectStation(mapped []MappedStation, marker, previousMarker float64) *MappedStation {
	if len(mapped) == 0 {
		return nil
	}

	floor := previousMarker - backtrackToleranceMiles
	for _, window := range selectionWindowsMiles {
		if best := bestOf(mapped, marker, func(st MappedStation) bool {
			return math.Abs(st.RouteMile-marker) <= window && st.RouteMile >= floor
		}); best != nil {
			return best
		}
	}

	if best := bestOf(mapped, marker, func(st MappedStation) bool {
		return st.RouteMile >= floor
	}); best != nil {
		return best
	}
	return bestOf(mapped, marker, func(MappedStation) bool { return true })
}

func bestOf(mapped []MappedStation, marker float64, keep func(MappedStation) bool) *MappedStation {
	var best *MappedStation
	bestScore := 0.0
	for i := range mapped {
		if !keep(mapped[i]) {
			continue
		}
		score := scoreStation(mapped[i], marker)
		if best == nil || score < bestScore {
			best = &mapped[i]
			bestScore = score
		}
	}
	return best
}
