package radio

import (
	"errors"
	"testing"
)

func TestParseGain(t *testing.T) {
	tests := []struct {
		in   string
		auto bool
		db   float64
		err  bool
	}{
		{in: "auto", auto: true},
		{in: " Auto ", auto: true},
		{in: "AUTO", auto: true},
		{in: "35", db: 35},
		{in: "19.7", db: 19.7},
		{in: "-1.5", db: -1.5},
		{in: "", err: true},
		{in: "loud", err: true},
		{in: "35dB", err: true},
	}
	for _, tt := range tests {
		g, err := ParseGain(tt.in)
		if tt.err {
			if !errors.Is(err, ErrBadGain) {
				t.Errorf("%q: got %v, want ErrBadGain", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if g.IsAuto() != tt.auto {
			t.Errorf("%q: auto=%v, want %v", tt.in, g.IsAuto(), tt.auto)
		}
		if db, ok := g.DB(); !tt.auto && (!ok || db != tt.db) {
			t.Errorf("%q: db=%v ok=%v, want %v", tt.in, db, ok, tt.db)
		}
	}
}

func TestGainString(t *testing.T) {
	if s := AutoGain().String(); s != "auto" {
		t.Fatalf("got %q", s)
	}
	if s := FixedGain(19.7).String(); s != "19.7" {
		t.Fatalf("got %q", s)
	}
	// Round-trips through ParseGain.
	g, err := ParseGain(FixedGain(35).String())
	if err != nil {
		t.Fatal(err)
	}
	if db, _ := g.DB(); db != 35 {
		t.Fatalf("got %v", db)
	}
}
