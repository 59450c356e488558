package radio

import (
	"context"
	"errors"
)

var ErrRateOutOfRange = errors.New("sample rate out of range")
var ErrFrequencyOutOfRange = errors.New("frequency out of range")

// SampleSource yields fixed-size blocks of complex baseband samples.
//
// ReadBlock blocks until a full block is available; a failed read is a
// device error for the caller to surface. Close is idempotent.
type SampleSource interface {
	Configure(band HzBand, gain Gain) error
	ReadBlock(n int) ([]complex64, error)
	Close() error
}

func NewSDR(ctx context.Context) (SampleSource, error) { return newRTLSDR(ctx, "0") }

func NewSDRWithSerial(ctx context.Context, ser string) (SampleSource, error) {
	return newRTLSDR(ctx, ser)
}
