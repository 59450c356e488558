package dsp

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LevelEstimator tracks a smoothed dB ceiling over successive spectra so
// display levels don't pump from tick to tick. The ceiling follows a high
// quantile of each spectrum; the floor trails it by the dynamic range.
type LevelEstimator struct {
	quantile  float64
	smoothing float64
	rangeDB   float64

	ceiling float64
	primed  bool
	scratch []float64
}

// NewLevelEstimator builds an estimator taking the given spectrum quantile
// as the instantaneous ceiling candidate, smoothed as
// smoothing*prev + (1-smoothing)*candidate.
func NewLevelEstimator(quantile, smoothing, rangeDB float64) *LevelEstimator {
	return &LevelEstimator{quantile: quantile, smoothing: smoothing, rangeDB: rangeDB}
}

// Update folds one spectrum into the ceiling estimate and returns the
// display floor and ceiling for it. The first observation is taken as-is.
func (l *LevelEstimator) Update(spectrum []float64) (floor, ceiling float64) {
	if cap(l.scratch) < len(spectrum) {
		l.scratch = make([]float64, len(spectrum))
	}
	s := l.scratch[:len(spectrum)]
	copy(s, spectrum)
	sort.Float64s(s)
	candidate := stat.Quantile(l.quantile, stat.Empirical, s, nil)

	if !l.primed {
		l.ceiling, l.primed = candidate, true
	} else {
		l.ceiling = l.smoothing*l.ceiling + (1-l.smoothing)*candidate
	}
	return l.ceiling - l.rangeDB, l.ceiling
}

// Reset clears the estimate. Spectrum statistics are not comparable across
// fft sizes, so a size change must reset.
func (l *LevelEstimator) Reset() { l.primed = false }

// SetRange adjusts the floor-to-ceiling span without losing the estimate.
func (l *LevelEstimator) SetRange(db float64) { l.rangeDB = db }

func (l *LevelEstimator) Range() float64 { return l.rangeDB }
