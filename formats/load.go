// ABOUTME: Chooses a reader or writer for a playlist file from its extension
// ABOUTME: Supports M3U/M3U8 with audio tags, CSV, tab-delimited TXT and Rekordbox XML

// Package formats reads track lists from the file formats DJ software exports
// and writes optimized playlists back out.
package formats

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"harmonic-sorter/playlist"
)

// ErrUnsupportedFormat is returned for unknown extensions or format names
var ErrUnsupportedFormat = errors.New("unsupported playlist format")

// Format identifies a playlist file format
type Format int

const (
	M3U8 Format = iota
	CSV
	TXT
	Rekordbox
)

// String returns the format name used by flags and config
func (f Format) String() string {
	switch f {
	case M3U8:
		return "m3u8"
	case CSV:
		return "csv"
	case TXT:
		return "txt"
	case Rekordbox:
		return "rekordbox"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension written for f
func (f Format) Extension() string {
	if f == Rekordbox {
		return ".xml"
	}

	return "." + f.String()
}

// ParseFormat converts a format name or extension to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "m3u", "m3u8":
		return M3U8, nil
	case "csv":
		return CSV, nil
	case "txt":
		return TXT, nil
	case "xml", "rekordbox":
		return Rekordbox, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat picks the format from a file's extension
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}

	return ParseFormat(ext)
}

// LoadOptions tunes M3U8 loading, which reads tags from audio files
type LoadOptions struct {
	Workers int  // concurrent tag readers (0 = default)
	Verbose bool // print progress
}

// Load reads tracks from path using the format implied by its extension.
// Every track gets its canonical key and its position in the file.
func Load(ctx context.Context, path string, opts LoadOptions) ([]playlist.Track, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == M3U8 {
		return playlist.LoadPlaylistWithMetadata(ctx, path, opts.Workers, opts.Verbose)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	return Parse(file, format)
}

// Parse reads tracks from r. M3U8 input yields path-only tracks.
func Parse(r io.Reader, format Format) ([]playlist.Track, error) {
	var (
		tracks []playlist.Track
		err    error
	)

	switch format {
	case CSV:
		tracks, err = ParseCSV(r)
	case TXT:
		tracks, err = ParseTXT(r)
	case Rekordbox:
		tracks, err = ParseRekordboxXML(r)
	case M3U8:
		tracks, err = parseM3U8(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}

	for i := range tracks {
		tracks[i].Index = i
		tracks[i].ParsedKey = playlist.NormalizeKey(tracks[i].Key)
	}

	return tracks, nil
}

// parseM3U8 reads entry lines, skipping comments and directives
func parseM3U8(r io.Reader) ([]playlist.Track, error) {
	var tracks []playlist.Track

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tracks = append(tracks, playlist.Track{Path: line, Title: filepath.Base(line)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return tracks, nil
}

// Write encodes tracks to w in the given format. name labels the playlist
// where the format has a place for it.
func Write(w io.Writer, tracks []playlist.Track, format Format, name string) error {
	switch format {
	case CSV:
		return WriteCSV(w, tracks)
	case Rekordbox:
		return WriteRekordboxXML(w, tracks, name)
	case M3U8:
		return writeM3U8(w, tracks)
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
}

// writeM3U8 writes one path per line
func writeM3U8(w io.Writer, tracks []playlist.Track) error {
	bw := bufio.NewWriter(w)

	for _, t := range tracks {
		if t.Path == "" {
			return fmt.Errorf("track %q has no file path", t.Title)
		}

		if _, err := bw.WriteString(t.Path + "\n"); err != nil {
			return fmt.Errorf("failed to write track: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

// Save writes tracks to path in the format implied by its extension.
// M3U8 files are written with a .bak backup of the previous file.
func Save(path string, tracks []playlist.Track, name string) (err error) {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	if format == M3U8 {
		return playlist.WritePlaylist(path, tracks)
	}

	if format == TXT {
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	return Write(file, tracks, format, name)
}

// DefaultOutputPath is where an optimized copy of input is written.
// M3U8 playlists are rewritten in place; other inputs get a sibling file,
// e.g. set.csv -> set-optimized.csv. TXT input is exported as CSV.
func DefaultOutputPath(input string) string {
	format, err := DetectFormat(input)
	if err != nil {
		return input + "-optimized.m3u8"
	}

	if format == M3U8 {
		return input
	}

	if format == TXT {
		format = CSV
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))

	return base + "-optimized" + format.Extension()
}
