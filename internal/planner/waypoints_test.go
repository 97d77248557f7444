package planner

import (
	"reflect"
	"testing"
)

func TestMarkers(t *testing.T) {
	tests := []struct {
		name       string
		totalMiles float64
		fullTank   bool
		want       []float64
	}{
		{
			name:       "zero distance",
			totalMiles: 0,
			fullTank:   false,
			want:       nil,
		},
		{
			name:       "negative distance",
			totalMiles: -10,
			fullTank:   true,
			want:       nil,
		},
		{
			name:       "short trip on full tank needs no stops",
			totalMiles: 450,
			fullTank:   true,
			want:       nil,
		},
		{
			name:       "short trip on empty tank needs an immediate stop",
			totalMiles: 450,
			fullTank:   false,
			want:       []float64{0},
		},
		{
			name:       "long trip on full tank",
			totalMiles: 1700,
			fullTank:   true,
			want:       []float64{500, 1000, 1500},
		},
		{
			name:       "long trip on empty tank",
			totalMiles: 1700,
			fullTank:   false,
			want:       []float64{0, 500, 1000, 1500},
		},
		{
			name:       "marker equal to total is excluded",
			totalMiles: 1000,
			fullTank:   true,
			want:       []float64{500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Markers(tt.totalMiles, tt.fullTank)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Markers(%v, %v) = %v, want %v", tt.totalMiles, tt.fullTank, got, tt.want)
			}
		})
	}
}
