package dsp

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	gofft "github.com/mjibson/go-dsp/fft"
)

func testBlock(n int) []complex64 {
	block := make([]complex64, n)
	for i := range block {
		// Deterministic, broadband-ish content.
		block[i] = complex(
			float32(math.Sin(0.017*float64(i))+0.3*math.Cos(0.23*float64(i))),
			float32(0.5*math.Sin(0.071*float64(i))))
	}
	return block
}

func TestTransformSizes(t *testing.T) {
	for _, n := range []int{1024, 2048, 4096, 8192} {
		an := NewAnalyzer(n)
		spectrum, err := an.Transform(testBlock(n))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(spectrum) != n {
			t.Fatalf("n=%d: got %d bins", n, len(spectrum))
		}
	}
}

func TestTransformWrongSize(t *testing.T) {
	an := NewAnalyzer(1024)
	if _, err := an.Transform(make([]complex64, 512)); !errors.Is(err, ErrBlockSize) {
		t.Fatalf("expected ErrBlockSize, got %v", err)
	}
}

func TestTransformZeroBlock(t *testing.T) {
	an := NewAnalyzer(1024)
	spectrum, err := an.Transform(make([]complex64, 1024))
	if err != nil {
		t.Fatal(err)
	}
	want := 20 * math.Log10(Epsilon)
	for i, v := range spectrum {
		if v != want {
			t.Fatalf("bin %d: got %v, want %v", i, v, want)
		}
	}
}

func TestTransformRemovesDC(t *testing.T) {
	an := NewAnalyzer(1024)
	block := make([]complex64, 1024)
	for i := range block {
		block[i] = complex(0.5, 0.25)
	}
	spectrum, err := an.Transform(block)
	if err != nil {
		t.Fatal(err)
	}
	// A pure DC block reduces to the zero block after bias removal.
	want := 20 * math.Log10(Epsilon)
	for i, v := range spectrum {
		if v != want {
			t.Fatalf("bin %d: got %v, want %v", i, v, want)
		}
	}
}

func TestTransformDeterministic(t *testing.T) {
	an := NewAnalyzer(2048)
	block := testBlock(2048)
	first, err := an.Transform(block)
	if err != nil {
		t.Fatal(err)
	}
	second, err := an.Transform(block)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("bin %d: %v != %v", i, first[i], second[i])
		}
	}
}

// A complex tone at +f bins lands f columns right of center.
func TestTransformTonePlacement(t *testing.T) {
	n, tone := 2048, 100
	an := NewAnalyzer(n)
	block := make([]complex64, n)
	for i := range block {
		ph := 2 * math.Pi * float64(tone) * float64(i) / float64(n)
		block[i] = complex(float32(math.Cos(ph)), float32(math.Sin(ph)))
	}
	spectrum, err := an.Transform(block)
	if err != nil {
		t.Fatal(err)
	}
	peak := 0
	for i, v := range spectrum {
		if v > spectrum[peak] {
			peak = i
		}
	}
	if want := n/2 + tone; peak != want {
		t.Fatalf("peak at bin %d, want %d", peak, want)
	}
}

func TestTransformMatchesReference(t *testing.T) {
	n := 1024
	an := NewAnalyzer(n)
	block := testBlock(n)
	spectrum, err := an.Transform(block)
	if err != nil {
		t.Fatal(err)
	}

	// Same pipeline in float64 with an independent FFT.
	var meanRe, meanIm float64
	for _, v := range block {
		meanRe += float64(real(v)) / float64(n)
		meanIm += float64(imag(v)) / float64(n)
	}
	win := an.Window()
	in := make([]complex128, n)
	for i, v := range block {
		in[i] = complex(
			(float64(real(v))-meanRe)*win[i],
			(float64(imag(v))-meanIm)*win[i])
	}
	out := gofft.FFT(in)
	ref := make([]float64, n)
	for i, v := range out {
		idx := i + n/2
		if i >= n/2 {
			idx = i - n/2
		}
		ref[idx] = 20 * math.Log10(cmplx.Abs(v)+Epsilon)
	}

	maxRef := ref[0]
	for _, v := range ref {
		if v > maxRef {
			maxRef = v
		}
	}
	for i := range ref {
		// Skip bins deep below the peak; float32 cancellation noise
		// dominates there.
		if ref[i] < maxRef-80 {
			continue
		}
		if diff := math.Abs(ref[i] - spectrum[i]); diff > 0.5 {
			t.Fatalf("bin %d: ref %v, got %v", i, ref[i], spectrum[i])
		}
	}
}
