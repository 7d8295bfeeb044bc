// ABOUTME: Input validation for the optimizer entry points
// ABOUTME: Rejects caller contract violations such as negative or non-finite tempos

package optimizer

import (
	"errors"
	"fmt"
	"math"

	"harmonic-sorter/playlist"
)

// ErrInvalidArgument marks input that breaks the optimizer's contract
var ErrInvalidArgument = errors.New("invalid argument")

// validate checks the mode and every track's tempo
func validate(tracks []playlist.Track, mode EnergyMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown energy mode %s", ErrInvalidArgument, mode)
	}

	for i := range tracks {
		bpm := tracks[i].BPM
		if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm < 0 {
			return fmt.Errorf("%w: track %d (%q): bpm %v must be a positive finite number or 0 for unknown",
				ErrInvalidArgument, i, tracks[i].Title, bpm)
		}
	}

	return nil
}
