package render_test

import (
	"math"
	"testing"

	"github.com/iburimskiy/pulseviz/internal/render"
)

func TestSmoothFixedPoint(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 1} {
		for _, rate := range [][2]float64{{0.9, 0.2}, {0.15, 0.05}, {1, 1}} {
			if got := render.Smooth(v, v, rate[0], rate[1]); got != v {
				t.Fatalf("Smooth(%v, %v, %v, %v) = %v, want %v", v, v, rate[0], rate[1], got, v)
			}
		}
	}
}

func TestSmoothAttackRelease(t *testing.T) {
	tests := []struct {
		name            string
		current, target float64
		want            float64
	}{
		{"rising uses attack", 0, 1, 0.5},
		{"falling uses release", 1, 0, 0.9},
		{"partial rise", 0.2, 0.6, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render.Smooth(tt.current, tt.target, 0.5, 0.1)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Smooth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSmoothStaysInUnitRange(t *testing.T) {
	v := 0.0
	targets := []float64{1, 0, 0.7, 1, 1, 0, 0, 0.3}
	for i := 0; i < 200; i++ {
		v = render.Smooth(v, targets[i%len(targets)], 0.9, 0.28)
		if v < 0 || v > 1 {
			t.Fatalf("step %d: value %v left [0,1]", i, v)
		}
	}
}
