// ABOUTME: Progress reporting for batch optimization
// ABOUTME: Serializes per-playlist result lines from concurrent workers

package main

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// batchOutcome is the result of optimizing one playlist in a batch
type batchOutcome struct {
	Path       string
	OutputPath string
	Tracks     int
	Original   int
	Optimized  int
	Percent    int
	Err        error
}

// progressTracker prints one line per finished playlist
type progressTracker struct {
	mu        sync.Mutex
	out       io.Writer
	total     int
	done      int
	failed    int
	startTime time.Time
}

func newProgressTracker(out io.Writer, total int) *progressTracker {
	return &progressTracker{out: out, total: total, startTime: time.Now()}
}

// report records a finished playlist; safe for concurrent use
func (pt *progressTracker) report(o batchOutcome) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.done++

	prefix := fmt.Sprintf("%s [%d/%d]", formatElapsed(time.Since(pt.startTime)), pt.done, pt.total)

	if o.Err != nil {
		pt.failed++
		fmt.Fprintf(pt.out, "%s %s: FAILED: %v\n", prefix, o.Path, o.Err)

		return
	}

	line := fmt.Sprintf("%s %s: %d tracks, score %s", prefix, o.Path, o.Tracks, formatImprovement(o.Original, o.Optimized, o.Percent))
	if o.OutputPath != "" {
		line += " -> " + o.OutputPath
	}

	fmt.Fprintln(pt.out, line)
}

// summary returns the counts of finished and failed playlists
func (pt *progressTracker) summary() (done, failed int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	return pt.done, pt.failed
}
