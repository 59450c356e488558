package waterfall

import (
	"errors"
	"fmt"
	"time"

	"github.com/chzchzchz/iqfall/radio"
)

var (
	ErrCenterOutOfRange = errors.New("center frequency out of range")
	ErrRateOutOfRange   = errors.New("sample rate out of range")
	ErrBadFFTSize       = errors.New("unsupported fft size")
	ErrBadFrameRate     = errors.New("frame rate out of range")
	ErrBadDynamicRange  = errors.New("dynamic range below minimum")
	ErrBadRows          = errors.New("row count out of range")
	ErrBadQuantile      = errors.New("ceiling quantile out of range")
	ErrBadSmoothing     = errors.New("ceiling smoothing out of range")
)

const (
	MinCenterHz     = 1e6
	MaxCenterHz     = 2000e6
	MinSampleRateHz = 0.25e6
	MaxSampleRateHz = 3.2e6
	MinFrameRateHz  = 10
	MaxFrameRateHz  = 60
	MinDynamicRange = 60.0
	MaxRows         = 300
)

// Config is the controller's owned settings block; it is replaced
// atomically between ticks on reconfiguration.
type Config struct {
	CenterHz     float64
	SampleRateHz float64
	Gain         radio.Gain
	FFTSize      int
	FrameRateHz  int

	DynamicRangeDB float64
	Rows           int

	// Ceiling estimator tuning; see dsp.LevelEstimator.
	CeilingQuantile  float64
	CeilingSmoothing float64
}

// DefaultConfig matches an FM broadcast view.
func DefaultConfig() Config {
	return Config{
		CenterHz:         94.9e6,
		SampleRateHz:     2.4e6,
		Gain:             radio.AutoGain(),
		FFTSize:          2048,
		FrameRateHz:      15,
		DynamicRangeDB:   60.0,
		Rows:             300,
		CeilingQuantile:  0.99,
		CeilingSmoothing: 0.9,
	}
}

func validFFTSize(n int) bool {
	switch n {
	case 1024, 2048, 4096, 8192:
		return true
	}
	return false
}

func (c Config) Validate() error {
	if c.CenterHz < MinCenterHz || c.CenterHz > MaxCenterHz {
		return fmt.Errorf("%w: %g", ErrCenterOutOfRange, c.CenterHz)
	}
	if c.SampleRateHz < MinSampleRateHz || c.SampleRateHz > MaxSampleRateHz {
		return fmt.Errorf("%w: %g", ErrRateOutOfRange, c.SampleRateHz)
	}
	if !validFFTSize(c.FFTSize) {
		return fmt.Errorf("%w: %d", ErrBadFFTSize, c.FFTSize)
	}
	if c.FrameRateHz < MinFrameRateHz || c.FrameRateHz > MaxFrameRateHz {
		return fmt.Errorf("%w: %d", ErrBadFrameRate, c.FrameRateHz)
	}
	if c.DynamicRangeDB < MinDynamicRange {
		return fmt.Errorf("%w: %g", ErrBadDynamicRange, c.DynamicRangeDB)
	}
	if c.Rows < 1 || c.Rows > MaxRows {
		return fmt.Errorf("%w: %d", ErrBadRows, c.Rows)
	}
	if c.CeilingQuantile <= 0 || c.CeilingQuantile > 1 {
		return fmt.Errorf("%w: %g", ErrBadQuantile, c.CeilingQuantile)
	}
	if c.CeilingSmoothing < 0 || c.CeilingSmoothing >= 1 {
		return fmt.Errorf("%w: %g", ErrBadSmoothing, c.CeilingSmoothing)
	}
	return nil
}

func (c Config) Band() radio.HzBand {
	return radio.HzBand{Center: uint64(c.CenterHz), Width: uint64(c.SampleRateHz)}
}

func (c Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / float64(c.FrameRateHz))
}

// merged returns c with every invalid field replaced by prev's value, so a
// bad setting never disrupts the pipeline. Rows is fixed post-construction
// and always keeps the prior value.
func (c Config) merged(prev Config) Config {
	if c.CenterHz < MinCenterHz || c.CenterHz > MaxCenterHz {
		c.CenterHz = prev.CenterHz
	}
	if c.SampleRateHz < MinSampleRateHz || c.SampleRateHz > MaxSampleRateHz {
		c.SampleRateHz = prev.SampleRateHz
	}
	if !validFFTSize(c.FFTSize) {
		c.FFTSize = prev.FFTSize
	}
	if c.FrameRateHz < MinFrameRateHz || c.FrameRateHz > MaxFrameRateHz {
		c.FrameRateHz = prev.FrameRateHz
	}
	if c.DynamicRangeDB < MinDynamicRange {
		c.DynamicRangeDB = prev.DynamicRangeDB
	}
	if c.CeilingQuantile <= 0 || c.CeilingQuantile > 1 {
		c.CeilingQuantile = prev.CeilingQuantile
	}
	if c.CeilingSmoothing < 0 || c.CeilingSmoothing >= 1 {
		c.CeilingSmoothing = prev.CeilingSmoothing
	}
	c.Rows = prev.Rows
	return c
}
