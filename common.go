// ABOUTME: Shared setup code for the CLI, batch, viewer and server modes
// ABOUTME: Playlist loading with validation, output path resolution and debug logging

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"harmonic-sorter/config"
	"harmonic-sorter/formats"
	"harmonic-sorter/playlist"
)

const debugLogFile = "harmonic-sorter-debug.log"

var debugLog *log.Logger

// RunOptions contains command-line options for all modes
type RunOptions struct {
	PlaylistPaths []string
	OutputPath    string // only valid with a single playlist
	DryRun        bool
	DebugLog      bool
	Config        config.Config
}

// loadTracks reads a playlist in any supported format and rejects empty ones
func loadTracks(ctx context.Context, path string, cfg config.Config, verbose bool) ([]playlist.Track, error) {
	if verbose {
		fmt.Printf("Reading playlist: %s\n", path)
	}

	tracks, err := formats.Load(ctx, path, formats.LoadOptions{Workers: cfg.LoadWorkers, Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}

	if len(tracks) == 0 {
		return nil, errors.New("playlist is empty")
	}

	return tracks, nil
}

// resolveOutputPath picks where the optimized playlist goes. An explicit path
// wins; otherwise the configured output format (if any) replaces the extension
// of the default sibling path.
func resolveOutputPath(input, explicit, formatName string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	out := formats.DefaultOutputPath(input)
	if formatName == "" {
		return out, nil
	}

	format, err := formats.ParseFormat(formatName)
	if err != nil {
		return "", err
	}

	if format == formats.TXT {
		return "", fmt.Errorf("%w: cannot write %s", formats.ErrUnsupportedFormat, format)
	}

	if current, err := formats.DetectFormat(out); err == nil && current == format {
		return out, nil
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if !strings.HasSuffix(base, "-optimized") {
		base += "-optimized"
	}

	return base + format.Extension(), nil
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// truncate shortens s to maxLen runes, adding "..." if needed
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}
