// ABOUTME: Handles reading and writing M3U8 playlist files
// ABOUTME: Loads track tags concurrently and saves reordered playlists back to disk with a backup

// Package playlist handles M3U8 playlist files and music metadata.
// It reads playlists, extracts metadata directly from audio file tags (ID3, Vorbis, etc.),
// and provides key normalization and harmonic distance based on the Camelot wheel.
package playlist

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultLoadWorkers bounds concurrent tag reads when the caller passes 0
const DefaultLoadWorkers = 8

// ReadPlaylist reads an M3U8 playlist file and returns one Track per entry.
// Only Path and Index are set.
func ReadPlaylist(path string) ([]Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var tracks []Track

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tracks = append(tracks, Track{Path: line, Index: len(tracks)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return tracks, nil
}

// LoadPlaylistWithMetadata reads a playlist and fetches tag metadata for each track
// using up to workers concurrent readers. Tracks whose tags cannot be read stay in
// the result with only their path and file name, so they are kept (at the end) when
// the playlist is written back.
func LoadPlaylistWithMetadata(ctx context.Context, path string, workers int, verbose bool) ([]Track, error) {
	tracks, err := ReadPlaylist(path)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = DefaultLoadWorkers
	}

	if verbose {
		fmt.Printf("Loading metadata for %d tracks...\n", len(tracks))
	}

	baseDir := filepath.Dir(path)
	loaded := make([]Track, len(tracks))

	var done atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range tracks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			metadata, err := GetTrackMetadata(tracks[i].Path, baseDir)
			if err != nil {
				if verbose {
					fmt.Printf("[!] No metadata for track (kept unsorted): %s: %v\n", tracks[i].Path, err)
				}

				loaded[i] = Track{Path: tracks[i].Path, Title: filepath.Base(tracks[i].Path)}
			} else {
				loaded[i] = *metadata
			}

			loaded[i].Index = i

			if n := done.Add(1); verbose && n%10 == 0 {
				fmt.Printf("[+] Processed %d/%d tracks...\n", n, len(tracks))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load playlist metadata: %w", err)
	}

	return loaded, nil
}

// WritePlaylist writes a slice of tracks to an M3U8 playlist file
// Only writes the Path field of each track (not metadata)
// Creates a backup (.bak) of the existing file before overwriting
func WritePlaylist(path string, tracks []Track) (err error) {
	for _, track := range tracks {
		if track.Path == "" {
			return fmt.Errorf("track %q has no file path", track.Title)
		}
	}

	// Create backup if file exists
	if _, statErr := os.Stat(path); statErr == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	for _, track := range tracks {
		if _, err := writer.WriteString(track.Path + "\n"); err != nil {
			return fmt.Errorf("failed to write track: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
