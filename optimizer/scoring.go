// ABOUTME: Scores a track sequence from 0-100 for harmonic smoothness and tempo flow
// ABOUTME: Harmonic quality weighs 70% and tempo flow against the energy mode weighs 30%

package optimizer

import (
	"math"

	"harmonic-sorter/playlist"
)

// Score weights
const (
	harmonicWeight = 0.7
	flowWeight     = 0.3

	avgDistanceWeight = 0.5
	perfectWeight     = 0.3
	worstJumpWeight   = 0.2

	// Average distance at which the average component reaches 0
	avgDistanceFloor = 6.0
	// Worst jump above 1 at which the worst-jump component reaches 0
	worstJumpSpan = 5.0
)

// Quality classifies a single transition
type Quality int

const (
	Perfect    Quality = iota // distance <= 1
	Good                      // distance == 2
	Acceptable                // distance == 3
	Clash                     // anything further, or an unknown key
)

// String returns the lowercase tier name
func (q Quality) String() string {
	switch q {
	case Perfect:
		return "perfect"
	case Good:
		return "good"
	case Acceptable:
		return "acceptable"
	default:
		return "clash"
	}
}

// MarshalText encodes the tier name
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// QualityForDistance maps a harmonic distance to its tier
func QualityForDistance(distance int) Quality {
	switch {
	case distance <= 1:
		return Perfect
	case distance == 2:
		return Good
	case distance <= 3:
		return Acceptable
	default:
		return Clash
	}
}

// Transition describes the step between two consecutive tracks
type Transition struct {
	From     playlist.Track `json:"from"`
	To       playlist.Track `json:"to"`
	Distance int            `json:"distance"`
	BPMDelta float64        `json:"bpm_delta"` // missing tempo counts as 0
	Quality  Quality        `json:"quality"`
}

// QualityScore summarizes how well a sequence mixes
type QualityScore struct {
	Overall            int          `json:"overall"`
	Harmonic           int          `json:"harmonic"`
	TempoFlow          int          `json:"tempo_flow"`
	PerfectTransitions int          `json:"perfect_transitions"`
	TotalTransitions   int          `json:"total_transitions"` // transitions with both keys known
	AverageDistance    float64      `json:"average_distance"`  // rounded to 2 decimals
	WorstJump          int          `json:"worst_jump"`
	Transitions        []Transition `json:"transitions"` // every consecutive pair, including unknown keys
}

// Score evaluates tracks in their given order
func Score(tracks []playlist.Track, mode EnergyMode) (QualityScore, error) {
	if err := validate(tracks, mode); err != nil {
		return QualityScore{}, err
	}

	return score(tracks, mode), nil
}

// score assumes validated input
func score(tracks []playlist.Track, mode EnergyMode) QualityScore {
	transitions := make([]Transition, 0, max(len(tracks)-1, 0))

	for i := 1; i < len(tracks); i++ {
		from, to := tracks[i-1], tracks[i]
		distance := playlist.Distance(from.CanonicalKey(), to.CanonicalKey())

		transitions = append(transitions, Transition{
			From:     from,
			To:       to,
			Distance: distance,
			BPMDelta: to.BPM - from.BPM,
			Quality:  QualityForDistance(distance),
		})
	}

	var valid []Transition
	for _, t := range transitions {
		if t.Distance < playlist.IncomparableDistance {
			valid = append(valid, t)
		}
	}

	if len(valid) == 0 {
		return QualityScore{Transitions: transitions}
	}

	total, perfect, worst := 0, 0, 0
	for _, t := range valid {
		total += t.Distance
		if t.Distance <= 1 {
			perfect++
		}
		worst = max(worst, t.Distance)
	}

	count := float64(len(valid))
	avgDistance := float64(total) / count

	avgScore := clampScore(100 - avgDistance/avgDistanceFloor*100)
	perfectPct := float64(perfect) / count * 100
	worstScore := clampScore(100 - float64(worst-1)/worstJumpSpan*100)

	harmonic := roundHalfUp(float64(avgScore)*avgDistanceWeight + perfectPct*perfectWeight + float64(worstScore)*worstJumpWeight)
	flow := tempoFlowScore(valid, mode)

	return QualityScore{
		Overall:            roundHalfUp(float64(harmonic)*harmonicWeight + float64(flow)*flowWeight),
		Harmonic:           harmonic,
		TempoFlow:          flow,
		PerfectTransitions: perfect,
		TotalTransitions:   len(valid),
		AverageDistance:    float64(roundHalfUp(avgDistance*100)) / 100,
		WorstJump:          worst,
		Transitions:        transitions,
	}
}

// tempoFlowScore rates how well the tempo deltas follow mode
func tempoFlowScore(transitions []Transition, mode EnergyMode) int {
	if len(transitions) == 0 {
		return 0
	}

	count := 0

	switch mode {
	case RampUp:
		for _, t := range transitions {
			if t.BPMDelta >= 0 {
				count++
			}
		}

		return roundHalfUp(float64(count) / float64(len(transitions)) * 100)

	case RampDown:
		for _, t := range transitions {
			if t.BPMDelta <= 0 {
				count++
			}
		}

		return roundHalfUp(float64(count) / float64(len(transitions)) * 100)

	default: // Wave
		slots := len(transitions) - 1
		if slots == 0 {
			return 0
		}

		// A zero delta counts as rising
		for i := 1; i < len(transitions); i++ {
			if (transitions[i].BPMDelta >= 0) != (transitions[i-1].BPMDelta >= 0) {
				count++
			}
		}

		return roundHalfUp(float64(count) / float64(slots) * 100)
	}
}

// clampScore rounds x into the 0-100 range
func clampScore(x float64) int {
	return min(max(roundHalfUp(x), 0), 100)
}

// roundHalfUp rounds halves toward positive infinity (-12.5 -> -12, 12.5 -> 13)
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
