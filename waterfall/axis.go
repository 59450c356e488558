package waterfall

import "github.com/chzchzchz/iqfall/radio"

// Axis maps waterfall columns to absolute frequency, consistent with the
// centered spectrum ordering: column 0 is the low band edge.
type Axis struct {
	CenterHz     float64
	SampleRateHz float64
	Bins         int
}

// BinHz is the frequency spacing between adjacent columns.
func (a Axis) BinHz() float64 { return a.SampleRateHz / float64(a.Bins) }

// Freq returns the absolute frequency of a column.
func (a Axis) Freq(col int) float64 {
	return a.CenterHz - a.SampleRateHz/2.0 + float64(col)*a.BinHz()
}

// Range returns the frequencies of the first and last columns.
func (a Axis) Range() (lo, hi float64) {
	return a.Freq(0), a.Freq(a.Bins - 1)
}

func (a Axis) Band() radio.HzBand {
	return radio.HzBand{Center: uint64(a.CenterHz), Width: uint64(a.SampleRateHz)}
}
