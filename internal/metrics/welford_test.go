package metrics

import (
	"math"
	"testing"
)

func TestWelford(t *testing.T) {
	var w Welford
	if w.Mean() != 0 || w.StdDev() != 0 || w.Count() != 0 {
		t.Error("zero-value Welford should read all zeros")
	}

	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		w.Update(v)
	}
	if w.Count() != 8 {
		t.Errorf("Count = %d, want 8", w.Count())
	}
	if math.Abs(w.Mean()-5) > 1e-9 {
		t.Errorf("Mean = %v, want 5", w.Mean())
	}
	// Classic example set with population stddev exactly 2.
	if math.Abs(w.StdDev()-2) > 1e-9 {
		t.Errorf("StdDev = %v, want 2", w.StdDev())
	}
}

func TestWelford_SingleObservation(t *testing.T) {
	var w Welford
	w.Update(42)
	if w.Mean() != 42 {
		t.Errorf("Mean = %v, want 42", w.Mean())
	}
	if w.StdDev() != 0 {
		t.Errorf("StdDev = %v, want 0 for a single observation", w.StdDev())
	}
}
