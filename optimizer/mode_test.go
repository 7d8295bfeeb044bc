// ABOUTME: Tests for energy mode parsing and text encoding
// ABOUTME: Verifies accepted spellings, rejection of unknown modes and cycling

package optimizer

import (
	"errors"
	"testing"
)

// TestParseEnergyMode checks accepted spellings
func TestParseEnergyMode(t *testing.T) {
	tests := map[string]EnergyMode{
		"ramp_up":   RampUp,
		"ramp-up":   RampUp,
		"RAMP_UP":   RampUp,
		"ramp_down": RampDown,
		"ramp-down": RampDown,
		" wave ":    Wave,
	}

	for in, want := range tests {
		got, err := ParseEnergyMode(in)
		if err != nil {
			t.Errorf("ParseEnergyMode(%q) error: %v", in, err)
			continue
		}

		if got != want {
			t.Errorf("ParseEnergyMode(%q) = %s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"", "up", "zigzag"} {
		if _, err := ParseEnergyMode(in); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseEnergyMode(%q) error = %v, want ErrInvalidArgument", in, err)
		}
	}
}

// TestEnergyModeText checks the round trip through text encoding
func TestEnergyModeText(t *testing.T) {
	for _, m := range EnergyModes {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s) error: %v", m, err)
		}

		var decoded EnergyMode
		if err := decoded.UnmarshalText(text); err != nil || decoded != m {
			t.Errorf("UnmarshalText(%s) = %s, %v", text, decoded, err)
		}
	}

	if _, err := EnergyMode(5).MarshalText(); err == nil {
		t.Error("MarshalText(EnergyMode(5)) should fail")
	}
}

// TestEnergyModeNext checks cycling wraps around
func TestEnergyModeNext(t *testing.T) {
	if RampUp.Next() != RampDown || RampDown.Next() != Wave || Wave.Next() != RampUp {
		t.Error("Next() does not cycle ramp_up -> ramp_down -> wave -> ramp_up")
	}
}
