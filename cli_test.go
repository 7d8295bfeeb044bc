// ABOUTME: Tests for CLI and batch modes
// ABOUTME: Runs both end to end against CSV playlists in a temp directory

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"harmonic-sorter/config"
	"harmonic-sorter/formats"
	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

const testCSV = `Title,Artist,Key,BPM
Opener,DJ One,Am,122
Clash,DJ Two,3B,128
Neighbour,DJ Three,9A,124
Relative,DJ Four,8B,123
Mystery,DJ Five,??,125
`

func writeTestPlaylist(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}

	return path
}

func testOptions(paths ...string) RunOptions {
	return RunOptions{PlaylistPaths: paths, Config: config.DefaultConfig()}
}

func TestRunCLI_WritesSibling(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPlaylist(t, dir, "set.csv", testCSV)

	if err := RunCLI(context.Background(), testOptions(input)); err != nil {
		t.Fatalf("RunCLI() error = %v", err)
	}

	tracks, err := formats.Load(context.Background(), filepath.Join(dir, "set-optimized.csv"), formats.LoadOptions{})
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if len(tracks) != 5 {
		t.Fatalf("output has %d tracks, want 5", len(tracks))
	}

	if tracks[len(tracks)-1].Title != "Mystery" {
		t.Errorf("unkeyed track should be last, got %q", tracks[len(tracks)-1].Title)
	}

	original, _ := os.ReadFile(input)
	if string(original) != testCSV {
		t.Error("CSV input should not be modified")
	}
}

func TestRunCLI_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPlaylist(t, dir, "set.csv", testCSV)

	opts := testOptions(input)
	opts.DryRun = true

	if err := RunCLI(context.Background(), opts); err != nil {
		t.Fatalf("RunCLI() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "set-optimized.csv")); !os.IsNotExist(err) {
		t.Error("dry run should not write output")
	}
}

func TestRunCLI_EmptyPlaylist(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPlaylist(t, dir, "empty.csv", "Title,Artist,Key,BPM\n")

	if err := RunCLI(context.Background(), testOptions(input)); err == nil {
		t.Error("expected an error for an empty playlist")
	}
}

func TestPrintResult(t *testing.T) {
	tracks := []playlist.Track{
		{Title: "A", Artist: "X", Key: "8A", BPM: 120},
		{Title: "B", Artist: "Y", Key: "3B", BPM: 122},
		{Title: "C", Artist: "Z", Key: "9A", BPM: 121},
		{Title: "D", Key: "nope"},
	}

	result, err := optimizer.Optimize(tracks, optimizer.RampUp)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printResult(&buf, result)
	out := buf.String()

	for _, want := range []string{"Optimized playlist (ramp_up)", "Camelot", "Original score:", "Optimized score:", "Improvement:", "Harmonic path:", "-> 8A ->", "placed at the end", "  - D"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTransitionLabel(t *testing.T) {
	if got := transitionLabel(optimizer.Transition{Distance: 1, Quality: optimizer.Perfect}); got != "1 perfect" {
		t.Errorf("transitionLabel() = %q", got)
	}

	if got := transitionLabel(optimizer.Transition{Distance: playlist.IncomparableDistance, Quality: optimizer.Clash}); got != "?" {
		t.Errorf("transitionLabel(unknown) = %q", got)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	first := writeTestPlaylist(t, dir, "first.csv", testCSV)
	second := writeTestPlaylist(t, dir, "second.csv", testCSV)

	var out bytes.Buffer
	if err := RunBatch(context.Background(), testOptions(first, second), &out); err != nil {
		t.Fatalf("RunBatch() error = %v\n%s", err, out.String())
	}

	for _, name := range []string{"first-optimized.csv", "second-optimized.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	log := out.String()
	for _, want := range []string{"Optimizing 2 playlists", "[1/2]", "[2/2]", "Completed 2 playlists"} {
		if !strings.Contains(log, want) {
			t.Errorf("batch output missing %q:\n%s", want, log)
		}
	}
}

func TestRunBatch_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeTestPlaylist(t, dir, "good.csv", testCSV)
	missing := filepath.Join(dir, "missing.csv")

	var out bytes.Buffer

	err := RunBatch(context.Background(), testOptions(good, missing), &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("RunBatch() error = %v, want 1 of 2 failed", err)
	}

	if !strings.Contains(out.String(), "FAILED") {
		t.Errorf("batch output should report the failure:\n%s", out.String())
	}

	if _, err := os.Stat(filepath.Join(dir, "good-optimized.csv")); err != nil {
		t.Errorf("good playlist should still be written: %v", err)
	}
}

func TestRunBatch_RejectsOutput(t *testing.T) {
	opts := testOptions("a.csv", "b.csv")
	opts.OutputPath = "out.csv"

	if err := RunBatch(context.Background(), opts, &bytes.Buffer{}); err == nil {
		t.Error("expected -output to be rejected in batch mode")
	}
}
