package planner

// Markers returns the route mileages where a refuel is needed. A trip
// started on a full tank first needs fuel at the range limit; otherwise
// the first stop is at mile zero. Markers step by the vehicle range and
// stay strictly inside the trip, so a trip shorter than one tank on a
// full tank needs no stops at all.
func Markers(totalMiles float64, fullTank bool) []float64 {
	if totalMiles <= 0 {
		return nil
	}
	marker := 0.0
	if fullTank {
		marker = VehicleRangeMiles
	}
	var markers []float64
	for marker < totalMiles {
		markers = append(markers, marker)
		marker += VehicleRangeMiles
	}
	return markers
}
