// ABOUTME: Maps loosely named spreadsheet headers to track fields
// ABOUTME: Converts rows from CSV and TXT exports into tracks, skipping rows without a key or name

package formats

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"harmonic-sorter/playlist"
)

// Header patterns as written by Rekordbox, Serato, Traktor and spreadsheets
var (
	titleHeader  = regexp.MustCompile(`(?i)^(track\s*title|title|name|track\s*name)$`)
	artistHeader = regexp.MustCompile(`(?i)^(artist|artist\s*name|dj)$`)
	bpmHeader    = regexp.MustCompile(`(?i)^(bpm|tempo|average\s*bpm|averagebpm)$`)
	keyHeader    = regexp.MustCompile(`(?i)^(key|tonality|musical\s*key)$`)
)

const (
	unknownTitle  = "Unknown Title"
	unknownArtist = "Unknown Artist"
)

// columnMap holds the column index for each field, -1 if absent
type columnMap struct {
	title, artist, bpm, key int
}

// usable reports whether rows can produce tracks at all
func (c columnMap) usable() bool {
	return c.key >= 0 && (c.title >= 0 || c.artist >= 0)
}

// matchColumns finds the first header matching each field
func matchColumns(headers []string) columnMap {
	cols := columnMap{title: -1, artist: -1, bpm: -1, key: -1}

	assign := func(idx *int, re *regexp.Regexp, i int, h string) {
		if *idx == -1 && re.MatchString(h) {
			*idx = i
		}
	}

	for i, raw := range headers {
		h := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))

		assign(&cols.title, titleHeader, i, h)
		assign(&cols.artist, artistHeader, i, h)
		assign(&cols.bpm, bpmHeader, i, h)
		assign(&cols.key, keyHeader, i, h)
	}

	return cols
}

// rowToTrack builds a track from a row, or returns false when the row has no
// key or has neither title nor artist
func rowToTrack(row []string, cols columnMap) (playlist.Track, bool) {
	title := cell(row, cols.title)
	artist := cell(row, cols.artist)
	key := cell(row, cols.key)

	if title == "" && artist == "" {
		return playlist.Track{}, false
	}

	if key == "" {
		return playlist.Track{}, false
	}

	return newTrack(title, artist, key, cell(row, cols.bpm)), true
}

// newTrack applies the shared defaults and tempo parsing
func newTrack(title, artist, key, bpm string) playlist.Track {
	if title == "" {
		title = unknownTitle
	}

	if artist == "" {
		artist = unknownArtist
	}

	return playlist.Track{
		Title:  title,
		Artist: artist,
		Key:    strings.TrimSpace(key),
		BPM:    parseBPM(bpm),
	}
}

// cell returns the trimmed value at idx, "" if out of range
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseBPM reads a positive tempo rounded to 2 decimals, 0 otherwise
func parseBPM(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	// Some exports use a decimal comma
	bpm, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm <= 0 {
		return 0
	}

	return math.Round(bpm*100) / 100
}
