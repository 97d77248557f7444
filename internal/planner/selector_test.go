package planner

import "testing"

func TestSelectStation_EmptySet(t *testing.T) {
	if got := SelectStation(nil, 500, 0); got != nil {
		t.Errorf("expected nil for empty corridor, got %v", got)
	}
}

func TestSelectStation_PrefersNarrowWindow(t *testing.T) {
	// A cheaper station outside the first window loses to a pricier one
	// inside it.
	mapped := []MappedStation{
		{Name: "Near", PricePerGallon: 3.80, RouteMile: 520, DetourMiles: 5},
		{Name: "Cheap But Far", PricePerGallon: 3.00, RouteMile: 620, DetourMiles: 5},
	}

	got := SelectStation(mapped, 500, 0)
	if got == nil || got.Name != "Near" {
		t.Errorf("expected Near within first window, got %v", got)
	}
}

func TestSelectStation_ScoresWithinWindow(t *testing.T) {
	// Both inside the first window: price dominates the score.
	mapped := []MappedStation{
		{Name: "Pricey", PricePerGallon: 3.90, RouteMile: 500, DetourMiles: 1},
		{Name: "Cheap", PricePerGallon: 3.10, RouteMile: 540, DetourMiles: 10},
	}

	got := SelectStation(mapped, 500, 0)
	if got == nil || got.Name != "Cheap" {
		t.Errorf("expected Cheap to win on score, got %v", got)
	}
}

func TestSelectStation_DetourBreaksPriceTie(t *testing.T) {
	mapped := []MappedStation{
		{Name: "Far Off Route", PricePerGallon: 3.50, RouteMile: 500, DetourMiles: 20},
		{Name: "On Route", PricePerGallon: 3.50, RouteMile: 500, DetourMiles: 1},
	}

	got := SelectStation(mapped, 500, 0)
	if got == nil || got.Name != "On Route" {
		t.Errorf("expected smaller detour to win, got %v", got)
	}
}

func TestSelectStation_BacktrackLimit(t *testing.T) {
	// A station more than the backtrack tolerance behind the previous
	// marker is never selectable through the windows.
	mapped := []MappedStation{
		{Name: "Behind", PricePerGallon: 2.50, RouteMile: 440, DetourMiles: 1},
		{Name: "Ahead", PricePerGallon: 3.90, RouteMile: 1010, DetourMiles: 1},
	}

	got := SelectStation(mapped, 1000, 500)
	if got == nil || got.Name != "Ahead" {
		t.Errorf("expected backtrack limit to exclude Behind, got %v", got)
	}
}

func TestSelectStation_BacktrackToleranceAllowsSlightlyBehind(t *testing.T) {
	mapped := []MappedStation{
		{Name: "Slightly Behind", PricePerGallon: 2.50, RouteMile: 465, DetourMiles: 1},
	}

	// Floor is previousMarker-40 = 460, station at 465 still passes the
	// widest window (|465-1000| <= 320 fails, so fallback applies).
	got := SelectStation(mapped, 1000, 500)
	if got == nil || got.Name != "Slightly Behind" {
		t.Errorf("expected tolerance to admit Slightly Behind, got %v", got)
	}
}

func TestSelectStation_FallbackToWholeSet(t *testing.T) {
	// Everything sits behind the floor: the last resort still returns
	// the best-scoring station rather than nothing.
	mapped := []MappedStation{
		{Name: "Way Back", PricePerGallon: 3.00, RouteMile: 10, DetourMiles: 5},
		{Name: "Further Back", PricePerGallon: 3.60, RouteMile: 5, DetourMiles: 5},
	}

	got := SelectStation(mapped, 2000, 1500)
	if got == nil || got.Name != "Way Back" {
		t.Errorf("expected whole-set fallback to pick Way Back, got %v", got)
	}
}

func TestSelectStation_TieGoesToFirstInCorridorOrder(t *testing.T) {
	mapped := []MappedStation{
		{Name: "First", PricePerGallon: 3.50, RouteMile: 500, DetourMiles: 5},
		{Name: "Second", PricePerGallon: 3.50, RouteMile: 500, DetourMiles: 5},
	}

	got := SelectStation(mapped, 500, 0)
	if got == nil || got.Name != "First" {
		t.Errorf("expected first candidate on exact tie, got %v", got)
	}
}
