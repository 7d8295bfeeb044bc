// ABOUTME: Assembles a full track ordering from the optimal key path and the energy mode
// ABOUTME: Groups tracks by key, orients the path by tempo, sorts within groups and scores the result

// Package optimizer turns a list of tracks into a harmonically ordered playlist
// and scores track sequences for harmonic and tempo quality.
package optimizer

import (
	"cmp"
	"slices"

	"harmonic-sorter/playlist"
	"harmonic-sorter/solver"
)

// Result is the outcome of one optimization run
type Result struct {
	OriginalTracks        []playlist.Track      `json:"original_tracks"`
	OptimizedTracks       []playlist.Track      `json:"optimized_tracks"`
	InvalidTracks         []playlist.Track      `json:"invalid_tracks"` // tracks without a recognizable key, in input order
	HarmonicPath          []playlist.CamelotKey `json:"harmonic_path"`
	OriginalScore         QualityScore          `json:"original_score"`
	OptimizedScore        QualityScore          `json:"optimized_score"`
	ImprovementPercentage int                   `json:"improvement_percentage"`
	EnergyMode            EnergyMode            `json:"energy_mode"`
}

// Optimizer assembles playlists using a configured key path solver
type Optimizer struct {
	solver *solver.Solver
}

// New creates an Optimizer. A nil solver uses the solver defaults.
func New(s *solver.Solver) *Optimizer {
	if s == nil {
		s = solver.New()
	}

	return &Optimizer{solver: s}
}

var defaultOptimizer = New(nil)

// Optimize reorders tracks with the default solver
func Optimize(tracks []playlist.Track, mode EnergyMode) (*Result, error) {
	return defaultOptimizer.Optimize(tracks, mode)
}

// Optimize returns a permutation of tracks that walks the key wheel as smoothly
// as possible and follows mode's tempo shape. Tracks without a recognizable key
// are appended at the end in their original order. The input is not modified.
func (o *Optimizer) Optimize(tracks []playlist.Track, mode EnergyMode) (*Result, error) {
	if err := validate(tracks, mode); err != nil {
		return nil, err
	}

	original := slices.Clone(tracks)

	keyed := make([]playlist.Track, len(tracks))
	for i := range tracks {
		keyed[i] = tracks[i]
		keyed[i].ParsedKey = tracks[i].CanonicalKey()
	}

	var valid, invalid []playlist.Track
	for _, t := range keyed {
		if t.ParsedKey != nil {
			valid = append(valid, t)
		} else {
			invalid = append(invalid, t)
		}
	}

	originalScore := score(original, mode)

	if len(valid) == 0 {
		return &Result{
			OriginalTracks:  original,
			OptimizedTracks: slices.Clone(keyed),
			InvalidTracks:   invalid,
			HarmonicPath:    []playlist.CamelotKey{},
			OriginalScore:   originalScore,
			OptimizedScore:  originalScore,
			EnergyMode:      mode,
		}, nil
	}

	groups, keys := groupByKey(valid)
	path := o.solver.Solve(keys)

	if len(path) >= 2 && slices.ContainsFunc(valid, func(t playlist.Track) bool { return t.HasBPM() }) {
		first := averageBPM(groups[path[0]])
		last := averageBPM(groups[path[len(path)-1]])

		if (mode == RampUp && first > last) || (mode == RampDown && first < last) {
			slices.Reverse(path)
		}
	}

	optimized := make([]playlist.Track, 0, len(tracks))

	for idx, key := range path {
		group := slices.Clone(groups[key])
		sortGroup(group, mode, idx)
		optimized = append(optimized, group...)
	}

	optimized = append(optimized, invalid...)

	optimizedScore := score(optimized, mode)

	return &Result{
		OriginalTracks:        original,
		OptimizedTracks:       optimized,
		InvalidTracks:         invalid,
		HarmonicPath:          path,
		OriginalScore:         originalScore,
		OptimizedScore:        optimizedScore,
		ImprovementPercentage: improvement(originalScore.Overall, optimizedScore.Overall),
		EnergyMode:            mode,
	}, nil
}

// groupByKey buckets tracks by canonical key, returning the distinct keys in
// first-appearance order. Each bucket keeps input order.
func groupByKey(tracks []playlist.Track) (map[playlist.CamelotKey][]playlist.Track, []playlist.CamelotKey) {
	groups := make(map[playlist.CamelotKey][]playlist.Track)

	var keys []playlist.CamelotKey

	for _, t := range tracks {
		k := *t.ParsedKey
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], t)
	}

	return groups, keys
}

// averageBPM averages the known tempos of tracks, 0 if none are known
func averageBPM(tracks []playlist.Track) float64 {
	sum, n := 0.0, 0
	for _, t := range tracks {
		if t.HasBPM() {
			sum += t.BPM
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / float64(n)
}

// sortGroup orders one key group by tempo for its position on the path.
// Groups without any tempo keep input order.
func sortGroup(group []playlist.Track, mode EnergyMode, pathIndex int) {
	if !slices.ContainsFunc(group, func(t playlist.Track) bool { return t.HasBPM() }) {
		return
	}

	ascending := func(a, b playlist.Track) int { return cmp.Compare(a.BPM, b.BPM) }
	descending := func(a, b playlist.Track) int { return cmp.Compare(b.BPM, a.BPM) }

	switch mode {
	case RampUp:
		slices.SortStableFunc(group, ascending)
	case RampDown:
		slices.SortStableFunc(group, descending)
	case Wave:
		if pathIndex%2 == 0 {
			slices.SortStableFunc(group, ascending)
		} else {
			slices.SortStableFunc(group, descending)
		}
	}
}

// improvement is the relative change in overall score, in whole percent
func improvement(original, optimized int) int {
	switch {
	case original > 0:
		return roundHalfUp(float64(optimized-original) / float64(original) * 100)
	case optimized > 0:
		return 100
	default:
		return 0
	}
}
