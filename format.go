// ABOUTME: Text formatting for CLI and batch output
// ABOUTME: Renders scores, score changes, key paths, tempos and elapsed times

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// formatScore summarizes a quality score on one line
func formatScore(s optimizer.QualityScore) string {
	if s.TotalTransitions == 0 {
		return fmt.Sprintf("%3d (no comparable transitions)", s.Overall)
	}

	return fmt.Sprintf("%3d  harmonic %d, tempo %d, perfect %d/%d, avg distance %.2f, worst jump %d",
		s.Overall, s.Harmonic, s.TempoFlow, s.PerfectTransitions, s.TotalTransitions, s.AverageDistance, s.WorstJump)
}

// formatImprovement renders "54 -> 81 (+50%)"
func formatImprovement(original, optimized, percent int) string {
	return fmt.Sprintf("%d -> %d (%+d%%)", original, optimized, percent)
}

// formatPath joins a key path as "8A -> 9A -> 9B"
func formatPath(path []playlist.CamelotKey) string {
	if len(path) == 0 {
		return "(none)"
	}

	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = k.String()
	}

	return strings.Join(parts, " -> ")
}

// formatBPM prints a tempo without trailing zeros, or "-" when unknown
func formatBPM(bpm float64) string {
	if bpm <= 0 {
		return "-"
	}

	return strconv.FormatFloat(bpm, 'f', -1, 64)
}

// formatCamelot prints a track's canonical key, or "?" when unrecognized
func formatCamelot(t *playlist.Track) string {
	if k := t.CanonicalKey(); k != nil {
		return k.String()
	}

	return "?"
}

// formatElapsed renders a duration right-aligned to 6 characters, e.g. " 1m05s"
func formatElapsed(d time.Duration) string {
	var s string
	if d >= time.Minute {
		s = fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		s = fmt.Sprintf("%ds", int(d.Seconds()))
	}

	return fmt.Sprintf("%6s", s)
}
