package radio

// HzBand is a tuned span: center frequency and width (sample rate) in Hz.
type HzBand struct {
	Center uint64 `json:"center_hz"`
	Width  uint64 `json:"width_hz"`
}

func (hzb HzBand) ToMHz() FreqBand {
	return FreqBand{
		float64(hzb.Center) / 1e6,
		float64(hzb.Width) / 1e6,
	}
}

// FreqBand is an HzBand in MHz units for display.
type FreqBand struct {
	Center float64
	Width  float64
}

func (f FreqBand) BeginMHz() float64 { return f.Center - f.Width/2.0 }
func (f FreqBand) EndMHz() float64   { return f.Center + f.Width/2.0 }
