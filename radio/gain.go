package radio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadGain = errors.New("bad gain")

// Gain selects tuner AGC or a fixed tuner gain in dB.
type Gain struct {
	auto bool
	db   float64
}

func AutoGain() Gain          { return Gain{auto: true} }
func FixedGain(db float64) Gain { return Gain{db: db} }

func (g Gain) IsAuto() bool { return g.auto }

// DB returns the fixed gain value; ok is false for auto gain.
func (g Gain) DB() (db float64, ok bool) { return g.db, !g.auto }

func (g Gain) String() string {
	if g.auto {
		return "auto"
	}
	return strconv.FormatFloat(g.db, 'g', -1, 64)
}

// ParseGain accepts "auto" or a numeric dB value like "19.7".
func ParseGain(s string) (Gain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "auto" {
		return AutoGain(), nil
	}
	db, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Gain{}, fmt.Errorf("%w: %q", ErrBadGain, s)
	}
	return FixedGain(db), nil
}
