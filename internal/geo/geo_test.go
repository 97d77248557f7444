package geo

import (
	"math"
	"testing"
)

func TestDistanceMiles_KnownDistance(t *testing.T) {
	// LA to NYC is roughly 2,445 miles great-circle.
	la := Point{Lat: 34.0522, Lon: -118.2437}
	nyc := Point{Lat: 40.7128, Lon: -74.0060}

	d := DistanceMiles(la, nyc)
	if d < 2400 || d > 2500 {
		t.Errorf("expected LA-NYC distance around 2445 miles, got %f", d)
	}
}

func TestDistanceMiles_ZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 35.0, Lon: -101.0}
	if d := DistanceMiles(p, p); d != 0 {
		t.Errorf("expected 0 distance for identical points, got %f", d)
	}
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	a := Point{Lat: 35.0, Lon: -120.0}
	b := Point{Lat: 36.2, Lon: -95.5}

	ab := DistanceMiles(a, b)
	ba := DistanceMiles(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestDistanceMiles_TriangleInequality(t *testing.T) {
	a := Point{Lat: 35.0, Lon: -120.0}
	b := Point{Lat: 35.0, Lon: -90.0}
	c := Point{Lat: 40.0, Lon: -105.0}

	ab := DistanceMiles(a, b)
	ac := DistanceMiles(a, c)
	cb := DistanceMiles(c, b)

	if ab > ac+cb+1e-9 {
		t.Errorf("triangle inequality violated: d(a,b)=%f > d(a,c)+d(c,b)=%f", ab, ac+cb)
	}
}

func TestCumulativeMiles_EmptyAndSinglePoint(t *testing.T) {
	for _, points := range [][]Point{nil, {}, {{Lat: 35, Lon: -120}}} {
		got := CumulativeMiles(points)
		if len(got) == 0 || got[0] != 0.0 {
			t.Errorf("expected leading 0.0 for %d points, got %v", len(points), got)
		}
		if len(points) <= 1 && len(got) != 1 {
			t.Errorf("expected [0.0] for degenerate route, got %v", got)
		}
	}
}

func TestCumulativeMiles_NonDecreasing(t *testing.T) {
	points := []Point{
		{Lat: 35.0, Lon: -120.0},
		{Lat: 35.0, Lon: -115.0},
		{Lat: 35.0, Lon: -110.0},
		{Lat: 35.0, Lon: -110.0}, // repeated point contributes zero
		{Lat: 35.0, Lon: -105.0},
	}

	cumulative := CumulativeMiles(points)
	if len(cumulative) != len(points) {
		t.Fatalf("expected %d entries, got %d", len(points), len(cumulative))
	}
	if cumulative[0] != 0.0 {
		t.Errorf("expected first entry 0.0, got %f", cumulative[0])
	}
	for i := 1; i < len(cumulative); i++ {
		if cumulative[i] < cumulative[i-1] {
			t.Errorf("cumulative mileage decreased at index %d: %v", i, cumulative)
		}
	}
}

func TestRouteBoundingBox_PadsBothAxes(t *testing.T) {
	points := []Point{
		{Lat: 35.0, Lon: -120.0},
		{Lat: 36.0, Lon: -110.0},
	}

	box := RouteBoundingBox(points, 45.0)

	expectedLatPad := 45.0 / 69.0
	if math.Abs((35.0-box.LatMin)-expectedLatPad) > 1e-9 {
		t.Errorf("unexpected lat padding: LatMin=%f", box.LatMin)
	}
	if math.Abs((box.LatMax-36.0)-expectedLatPad) > 1e-9 {
		t.Errorf("unexpected lat padding: LatMax=%f", box.LatMax)
	}

	midLat := 35.5
	expectedLonPad := 45.0 / (69.172 * math.Abs(math.Cos(midLat*math.Pi/180)))
	if math.Abs((-120.0-box.LonMin)-expectedLonPad) > 1e-9 {
		t.Errorf("unexpected lon padding: LonMin=%f", box.LonMin)
	}

	if !box.Contains(Point{Lat: 35.5, Lon: -115.0}) {
		t.Error("expected box to contain interior point")
	}
	if box.Contains(Point{Lat: 50.0, Lon: -115.0}) {
		t.Error("expected box to exclude far-away point")
	}
}
