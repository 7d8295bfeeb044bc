// ABOUTME: Tests for playlist quality scoring
// ABOUTME: Covers harmonic components, tempo flow per energy mode, unknown keys and validation

package optimizer

import (
	"errors"
	"math"
	"testing"

	"harmonic-sorter/playlist"
)

func makeTrack(title, key string, bpm float64) playlist.Track {
	return playlist.Track{Artist: "Artist", Title: title, Key: key, BPM: bpm}
}

func keyedTracks(keys ...string) []playlist.Track {
	tracks := make([]playlist.Track, len(keys))
	for i, k := range keys {
		tracks[i] = makeTrack(k, k, 0)
	}

	return tracks
}

// TestScoreEmpty checks sequences with no transitions score zero
func TestScoreEmpty(t *testing.T) {
	for _, tracks := range [][]playlist.Track{nil, keyedTracks("Am")} {
		s, err := Score(tracks, RampUp)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}

		if s.Overall != 0 || s.TotalTransitions != 0 || len(s.Transitions) != 0 {
			t.Errorf("Score(%d tracks) = %+v, want zero", len(tracks), s)
		}
	}
}

// TestScorePerfectRun checks a run of distance-1 steps
func TestScorePerfectRun(t *testing.T) {
	s, err := Score(keyedTracks("Am", "Em", "Bm", "F#m"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if s.Harmonic < 90 {
		t.Errorf("Harmonic = %d, want >= 90", s.Harmonic)
	}

	if s.Harmonic != 92 {
		t.Errorf("Harmonic = %d, want 92", s.Harmonic)
	}

	if s.PerfectTransitions != 3 || s.TotalTransitions != 3 {
		t.Errorf("Perfect/Total = %d/%d, want 3/3", s.PerfectTransitions, s.TotalTransitions)
	}

	if s.AverageDistance != 1 || s.WorstJump != 1 {
		t.Errorf("AverageDistance = %v, WorstJump = %d, want 1 and 1", s.AverageDistance, s.WorstJump)
	}

	// No tempo at all: every delta is 0, which counts as rising
	if s.TempoFlow != 100 || s.Overall != 94 {
		t.Errorf("TempoFlow = %d, Overall = %d, want 100 and 94", s.TempoFlow, s.Overall)
	}
}

// TestScoreLargeJumps checks distant keys score poorly
func TestScoreLargeJumps(t *testing.T) {
	s, err := Score(keyedTracks("Am", "Ebm", "F#m"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if s.Harmonic >= 50 {
		t.Errorf("Harmonic = %d, want < 50", s.Harmonic)
	}

	if s.WorstJump != 6 {
		t.Errorf("WorstJump = %d, want 6", s.WorstJump)
	}

	if s.AverageDistance != 4.5 {
		t.Errorf("AverageDistance = %v, want 4.5", s.AverageDistance)
	}
}

// TestScoreSameKey checks the worst-jump component stays within 100
func TestScoreSameKey(t *testing.T) {
	s, err := Score(keyedTracks("Am", "8A", "Amin"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if s.Harmonic != 100 || s.Overall != 100 {
		t.Errorf("Harmonic = %d, Overall = %d, want 100 and 100", s.Harmonic, s.Overall)
	}

	if s.WorstJump != 0 {
		t.Errorf("WorstJump = %d, want 0", s.WorstJump)
	}
}

// TestScoreAverageRounding checks the average distance is reported to 2 decimals
func TestScoreAverageRounding(t *testing.T) {
	// 8A->9A = 1, 9A->11A = 2, 11A->1A = 2, average 5/3
	s, err := Score(keyedTracks("8A", "9A", "11A", "1A"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if s.AverageDistance != 1.67 {
		t.Errorf("AverageDistance = %v, want 1.67", s.AverageDistance)
	}
}

// TestTransitionQuality checks tier labels
func TestTransitionQuality(t *testing.T) {
	s, err := Score(keyedTracks("Am", "Em", "G", "D", "Cm", "Bbm", "Gm"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// 8A 9A 9B 10B 5A 3A 6A
	want := []Quality{Perfect, Perfect, Perfect, Clash, Good, Acceptable}
	if len(s.Transitions) != len(want) {
		t.Fatalf("got %d transitions, want %d", len(s.Transitions), len(want))
	}

	for i, q := range want {
		if s.Transitions[i].Quality != q {
			t.Errorf("transition %d quality = %s, want %s (distance %d)",
				i, s.Transitions[i].Quality, q, s.Transitions[i].Distance)
		}
	}
}

// TestQualityForDistance checks tier boundaries including the sentinel
func TestQualityForDistance(t *testing.T) {
	tests := map[int]Quality{
		0:                              Perfect,
		1:                              Perfect,
		2:                              Good,
		3:                              Acceptable,
		4:                              Clash,
		7:                              Clash,
		playlist.IncomparableDistance: Clash,
	}

	for d, want := range tests {
		if got := QualityForDistance(d); got != want {
			t.Errorf("QualityForDistance(%d) = %s, want %s", d, got, want)
		}
	}
}

// TestTempoFlow checks the flow subscore per energy mode
func TestTempoFlow(t *testing.T) {
	rising := []float64{120, 125, 130, 135}
	falling := []float64{135, 130, 125, 120}
	waving := []float64{120, 130, 125, 135, 128}

	tests := []struct {
		name string
		bpms []float64
		mode EnergyMode
		want int
	}{
		{"ramp up rising", rising, RampUp, 100},
		{"ramp down falling", falling, RampDown, 100},
		{"ramp down rising", rising, RampDown, 0},
		{"ramp up falling", falling, RampUp, 0},
		{"wave alternating", waving, Wave, 100},
		{"wave monotonic", rising, Wave, 0},
		{"wave single transition", []float64{120, 130}, Wave, 0},
		{"ramp up mixed", []float64{120, 125, 122, 130}, RampUp, 67},
	}

	keys := []string{"8A", "9A", "10A", "11A", "12A"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := make([]playlist.Track, len(tt.bpms))
			for i, bpm := range tt.bpms {
				tracks[i] = makeTrack(keys[i], keys[i], bpm)
			}

			s, err := Score(tracks, tt.mode)
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}

			if s.TempoFlow != tt.want {
				t.Errorf("TempoFlow = %d, want %d", s.TempoFlow, tt.want)
			}

			if want := roundHalfUp(float64(s.Harmonic)*0.7 + float64(s.TempoFlow)*0.3); s.Overall != want {
				t.Errorf("Overall = %d, want %d", s.Overall, want)
			}
		})
	}
}

// TestScoreUnknownKeys checks transitions touching an unknown key are kept but not scored
func TestScoreUnknownKeys(t *testing.T) {
	s, err := Score(keyedTracks("Am", "???", "Em"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if len(s.Transitions) != 2 {
		t.Fatalf("got %d transitions, want 2", len(s.Transitions))
	}

	for i, tr := range s.Transitions {
		if tr.Distance != playlist.IncomparableDistance || tr.Quality != Clash {
			t.Errorf("transition %d = distance %d quality %s, want sentinel clash", i, tr.Distance, tr.Quality)
		}
	}

	if s.Overall != 0 || s.TotalTransitions != 0 {
		t.Errorf("Overall = %d, TotalTransitions = %d, want 0 and 0", s.Overall, s.TotalTransitions)
	}
}

// TestScoreMixedUnknown checks only valid transitions feed the averages
func TestScoreMixedUnknown(t *testing.T) {
	s, err := Score(keyedTracks("Am", "Em", "???"), RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if s.TotalTransitions != 1 || len(s.Transitions) != 2 {
		t.Errorf("TotalTransitions = %d with %d transitions, want 1 of 2", s.TotalTransitions, len(s.Transitions))
	}

	if s.AverageDistance != 1 {
		t.Errorf("AverageDistance = %v, want 1", s.AverageDistance)
	}
}

// TestScoreBPMDelta checks missing tempo counts as 0 in deltas
func TestScoreBPMDelta(t *testing.T) {
	tracks := []playlist.Track{makeTrack("a", "8A", 128), makeTrack("b", "9A", 0), makeTrack("c", "10A", 126.5)}

	s, err := Score(tracks, RampUp)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if s.Transitions[0].BPMDelta != -128 || s.Transitions[1].BPMDelta != 126.5 {
		t.Errorf("BPMDelta = %v, %v, want -128, 126.5", s.Transitions[0].BPMDelta, s.Transitions[1].BPMDelta)
	}
}

// TestScoreRejectsBadInput checks contract violations are reported
func TestScoreRejectsBadInput(t *testing.T) {
	bad := []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)}

	for _, bpm := range bad {
		_, err := Score([]playlist.Track{makeTrack("x", "8A", bpm)}, RampUp)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Score(bpm=%v) error = %v, want ErrInvalidArgument", bpm, err)
		}
	}

	if _, err := Score(nil, EnergyMode(9)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Score(mode 9) error = %v, want ErrInvalidArgument", err)
	}
}
