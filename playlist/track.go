// ABOUTME: Defines Track struct and metadata fetching directly from audio files
// ABOUTME: Reads tags for artist, title, musical key and BPM used by the harmonic optimizer

package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Track represents a music track with the metadata needed for harmonic sorting
type Track struct {
	Path      string      `json:"path,omitempty"`          // Location in playlist (e.g., "Aperio/Dreams/00 Dreams.mp3")
	Key       string      `json:"key"`                     // Raw key as read from the source (e.g., "Am", "8A", "08A")
	ParsedKey *CamelotKey `json:"canonical_key,omitempty"` // Canonical key, nil when unrecognized
	Artist    string      `json:"artist"`
	Album     string      `json:"album,omitempty"`
	Title     string      `json:"title"`
	BPM       float64     `json:"bpm,omitempty"` // Beats per minute (0 if not available)
	Index     int         `json:"-"`             // Position in the source playlist
}

// CanonicalKey returns the parsed key, normalizing the raw key only when
// none has been assigned yet
func (t *Track) CanonicalKey() *CamelotKey {
	if t.ParsedKey != nil {
		return t.ParsedKey
	}

	return NormalizeKey(t.Key)
}

// HasBPM reports whether the track carries a tempo
func (t *Track) HasBPM() bool {
	return t.BPM > 0
}

// Mixed In Key style comment: "8A - Energy 6"
var commentKeyRegex = regexp.MustCompile(`^\s*(\S+)\s*-\s*Energy`)

// Tag names that carry the initial key or BPM across formats
var (
	keyTagNames = []string{"TKEY", "TKE", "initialkey", "INITIALKEY", "key", "KEY"}
	bpmTagNames = []string{"TBPM", "TBP", "BPM", "bpm", "tmpo", "tempo"}
)

// GetTrackMetadata fetches metadata for a track by reading the file directly.
// The trackPath can be absolute or relative. Relative paths are resolved against
// the provided baseDir (typically the playlist's directory).
func GetTrackMetadata(trackPath string, baseDir string) (*Track, error) {
	fullPath := trackPath
	if !filepath.IsAbs(trackPath) && baseDir != "" {
		fullPath = filepath.Join(baseDir, trackPath)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	title := metadata.Title()
	if title == "" {
		title = filepath.Base(trackPath)
	}

	raw := metadata.Raw()

	key := rawString(raw, keyTagNames)
	if key == "" {
		key = extractCommentKey(metadata.Comment())
	}

	return &Track{
		Path:      trackPath,
		Key:       key,
		ParsedKey: NormalizeKey(key),
		Artist:    metadata.Artist(),
		Album:     metadata.Album(),
		Title:     title,
		BPM:       rawBPM(raw),
	}, nil
}

// rawString returns the first non-empty string value among the given tag names
func rawString(raw map[string]interface{}, names []string) string {
	for _, name := range names {
		if s, ok := raw[name].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	return ""
}

// rawBPM reads a positive tempo from the raw tags, 0 if none
func rawBPM(raw map[string]interface{}) float64 {
	for _, name := range bpmTagNames {
		var bpm float64

		switch v := raw[name].(type) {
		case string:
			bpm, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
		case int:
			bpm = float64(v)
		case float64:
			bpm = v
		}

		if bpm > 0 {
			return bpm
		}
	}

	return 0
}

// extractCommentKey extracts the key from a comment
// Example: "8A - Energy 6" -> "8A"
func extractCommentKey(comments string) string {
	matches := commentKeyRegex.FindStringSubmatch(comments)
	if len(matches) > 1 && NormalizeKey(matches[1]) != nil {
		return matches[1]
	}

	return ""
}

// String returns a formatted string representation of the track
func (t *Track) String() string {
	key := "-"
	if k := t.CanonicalKey(); k != nil {
		key = k.String()
	}

	return fmt.Sprintf("%-30s - Key: %-3s BPM: %.0f", t.Artist, key, t.BPM)
}
