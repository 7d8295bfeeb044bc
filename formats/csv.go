// ABOUTME: Reads CSV track lists exported from DJ software or spreadsheets
// ABOUTME: Detects comma, semicolon or tab delimiters from the header line

package formats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"harmonic-sorter/playlist"
)

// ParseCSV reads tracks from CSV text with a header row.
// Files without a recognizable key column, or without a title or artist
// column, yield no tracks.
func ParseCSV(r io.Reader) ([]playlist.Track, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(firstLine(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return recordsToTracks(records), nil
}

// recordsToTracks treats the first record as the header
func recordsToTracks(records [][]string) []playlist.Track {
	if len(records) < 2 {
		return nil
	}

	cols := matchColumns(records[0])
	if !cols.usable() {
		return nil
	}

	var tracks []playlist.Track

	for _, row := range records[1:] {
		if track, ok := rowToTrack(row, cols); ok {
			tracks = append(tracks, track)
		}
	}

	return tracks
}

// detectDelimiter prefers tab, then semicolon, then comma by header counts
func detectDelimiter(header string) rune {
	commas := strings.Count(header, ",")
	semicolons := strings.Count(header, ";")
	tabs := strings.Count(header, "\t")

	switch {
	case tabs >= commas && tabs >= semicolons && tabs > 0:
		return '\t'
	case semicolons > commas:
		return ';'
	default:
		return ','
	}
}

// firstLine returns the first non-blank line of data
func firstLine(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			return line
		}
	}

	return ""
}
