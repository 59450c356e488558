package dsp

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func constSpectrum(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestLevelFirstObservationExact(t *testing.T) {
	l := NewLevelEstimator(0.99, 0.9, 60)
	floor, ceiling := l.Update(constSpectrum(1024, -50))
	if ceiling != -50 {
		t.Fatalf("ceiling %v, want -50", ceiling)
	}
	if floor != -110 {
		t.Fatalf("floor %v, want -110", floor)
	}
}

func TestLevelFirstObservationQuantile(t *testing.T) {
	l := NewLevelEstimator(0.99, 0.9, 60)
	spectrum := make([]float64, 500)
	for i := range spectrum {
		// Unsorted on purpose.
		spectrum[i] = float64((i*7919)%500) - 120
	}
	sorted := make([]float64, len(spectrum))
	copy(sorted, spectrum)
	sort.Float64s(sorted)
	want := stat.Quantile(0.99, stat.Empirical, sorted, nil)

	_, ceiling := l.Update(spectrum)
	if ceiling != want {
		t.Fatalf("ceiling %v, want %v (no smoothing on first observation)", ceiling, want)
	}
}

func TestLevelSmoothing(t *testing.T) {
	l := NewLevelEstimator(0.99, 0.9, 60)
	l.Update(constSpectrum(64, -50))
	_, ceiling := l.Update(constSpectrum(64, -40))
	if want := 0.9*-50 + 0.1*-40; math.Abs(ceiling-want) > 1e-9 {
		t.Fatalf("ceiling %v, want %v", ceiling, want)
	}
	_, ceiling = l.Update(constSpectrum(64, -40))
	if want := 0.9*-49 + 0.1*-40; math.Abs(ceiling-want) > 1e-9 {
		t.Fatalf("ceiling %v, want %v", ceiling, want)
	}
}

func TestLevelReset(t *testing.T) {
	l := NewLevelEstimator(0.99, 0.9, 60)
	l.Update(constSpectrum(64, -50))
	l.Reset()
	if _, ceiling := l.Update(constSpectrum(64, -30)); ceiling != -30 {
		t.Fatalf("ceiling %v after reset, want -30", ceiling)
	}
}

func TestLevelDoesNotMutateSpectrum(t *testing.T) {
	l := NewLevelEstimator(0.99, 0.9, 60)
	spectrum := []float64{-30, -90, -10, -70, -50}
	orig := make([]float64, len(spectrum))
	copy(orig, spectrum)
	l.Update(spectrum)
	for i := range orig {
		if spectrum[i] != orig[i] {
			t.Fatalf("input mutated at %d: %v != %v", i, spectrum[i], orig[i])
		}
	}
}

func TestLevelSetRange(t *testing.T) {
	l := NewLevelEstimator(0.99, 0.9, 60)
	l.Update(constSpectrum(64, -40))
	l.SetRange(80)
	floor, ceiling := l.Update(constSpectrum(64, -40))
	if ceiling != -40 {
		t.Fatalf("ceiling %v, want -40", ceiling)
	}
	if floor != -120 {
		t.Fatalf("floor %v, want -120", floor)
	}
	if l.Range() != 80 {
		t.Fatalf("range %v, want 80", l.Range())
	}
}
