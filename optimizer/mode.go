// ABOUTME: Energy modes describing the tempo trajectory a playlist should follow
// ABOUTME: Parses and prints the text form used by flags, config files and JSON

package optimizer

import (
	"fmt"
	"strings"
)

// EnergyMode is the desired tempo shape of the optimized playlist
type EnergyMode int

const (
	RampUp   EnergyMode = iota // tempo rises through the set
	RampDown                   // tempo falls through the set
	Wave                       // tempo alternates up and down
)

// EnergyModes lists every mode in display order
var EnergyModes = []EnergyMode{RampUp, RampDown, Wave}

// String returns the canonical text form ("ramp_up", "ramp_down", "wave")
func (m EnergyMode) String() string {
	switch m {
	case RampUp:
		return "ramp_up"
	case RampDown:
		return "ramp_down"
	case Wave:
		return "wave"
	default:
		return fmt.Sprintf("EnergyMode(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes
func (m EnergyMode) Valid() bool {
	return m >= RampUp && m <= Wave
}

// Next returns the mode after m, wrapping around
func (m EnergyMode) Next() EnergyMode {
	return EnergyModes[(int(m)+1)%len(EnergyModes)]
}

// ParseEnergyMode accepts "ramp_up", "ramp-up", "ramp_down", "ramp-down" and "wave"
func ParseEnergyMode(s string) (EnergyMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "ramp_up":
		return RampUp, nil
	case "ramp_down":
		return RampDown, nil
	case "wave":
		return Wave, nil
	default:
		return RampUp, fmt.Errorf("%w: unknown energy mode %q (want ramp_up, ramp_down or wave)", ErrInvalidArgument, s)
	}
}

// MarshalText encodes the mode as its canonical string
func (m EnergyMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, m)
	}

	return []byte(m.String()), nil
}

// UnmarshalText decodes any spelling ParseEnergyMode accepts
func (m *EnergyMode) UnmarshalText(text []byte) error {
	parsed, err := ParseEnergyMode(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
