// Package dsp holds the streaming spectrum pipeline: block to dB power
// spectrum, and adaptive display leveling over spectra.
package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/runningwild/go-fftw/fftw32"
	"gonum.org/v1/gonum/dsp/window"
)

// Epsilon keeps log10 finite on empty bins.
const Epsilon = 1e-12

var ErrBlockSize = errors.New("block length does not match fft size")

// Analyzer turns one block of baseband samples into a centered power
// spectrum in dB. Bin 0 is the lowest frequency, bin n-1 the highest.
type Analyzer struct {
	n   int
	win []float64
	arr *fftw32.Array
}

// NewAnalyzer precomputes a Hann window for blocks of n samples.
func NewAnalyzer(n int) *Analyzer {
	win := make([]float64, n)
	for i := range win {
		win[i] = 1.0
	}
	window.Hann(win)
	return &Analyzer{n: n, win: win, arr: fftw32.NewArray(n)}
}

func (a *Analyzer) Size() int { return a.n }

// Window returns a copy of the window coefficients.
func (a *Analyzer) Window() []float64 {
	win := make([]float64, len(a.win))
	copy(win, a.win)
	return win
}

// Transform removes the block's DC bias, windows it, and returns the
// frequency-shifted power spectrum as 20*log10(|X|+Epsilon). The fftw
// array is reused scratch; output only depends on the block.
func (a *Analyzer) Transform(block []complex64) ([]float64, error) {
	if len(block) != a.n {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrBlockSize, len(block), a.n)
	}

	var sumRe, sumIm float64
	for _, v := range block {
		sumRe += float64(real(v))
		sumIm += float64(imag(v))
	}
	n := float64(a.n)
	meanRe, meanIm := float32(sumRe/n), float32(sumIm/n)
	for i, v := range block {
		w := float32(a.win[i])
		a.arr.Elems[i] = complex((real(v)-meanRe)*w, (imag(v)-meanIm)*w)
	}

	out := fftw32.FFT(a.arr)

	// Order so the lowest and highest frequencies are at the beginning
	// and end, respectively.
	spectrum := make([]float64, a.n)
	half := a.n / 2
	for i, v := range out.Elems {
		idx := i + half
		if i >= half {
			idx = i - half
		}
		spectrum[idx] = 20 * math.Log10(cmplx.Abs(complex128(v))+Epsilon)
	}
	return spectrum, nil
}
