// ABOUTME: Batch mode optimizing several playlists concurrently
// ABOUTME: Fans playlists out over a bounded worker pool and reports each as it finishes

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"harmonic-sorter/formats"
	"harmonic-sorter/optimizer"
	"harmonic-sorter/pool"
)

// RunBatch optimizes every playlist in opts and returns an error if any failed
func RunBatch(ctx context.Context, opts RunOptions, out io.Writer) error {
	if opts.OutputPath != "" {
		return fmt.Errorf("-output cannot be used with %d playlists", len(opts.PlaylistPaths))
	}

	cfg := opts.Config
	opt := optimizer.New(cfg.Solver(debugf))

	workers := pool.NewWorkerPool(cfg.BatchWorkers, len(opts.PlaylistPaths))
	defer workers.Close()

	fmt.Fprintf(out, "Optimizing %d playlists (%s) with %d workers\n", len(opts.PlaylistPaths), cfg.EnergyMode, workers.Workers())

	progress := newProgressTracker(out, len(opts.PlaylistPaths))
	start := time.Now()

	workers.Each(ctx, len(opts.PlaylistPaths), func(ctx context.Context, i int) error {
		outcome := optimizeOne(ctx, opt, opts, opts.PlaylistPaths[i])
		progress.report(outcome)

		return outcome.Err
	})

	done, failed := progress.summary()
	fmt.Fprintf(out, "\nCompleted %d playlists in %v", done, time.Since(start).Round(time.Millisecond))

	if opts.DryRun {
		fmt.Fprint(out, " (--dry-run mode: nothing written)")
	}

	fmt.Fprintln(out)

	if skipped := len(opts.PlaylistPaths) - done; skipped > 0 {
		failed += skipped
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d playlists failed", failed, len(opts.PlaylistPaths))
	}

	return nil
}

// optimizeOne loads, optimizes and (unless dry-run) saves a single playlist
func optimizeOne(ctx context.Context, opt *optimizer.Optimizer, opts RunOptions, path string) batchOutcome {
	outcome := batchOutcome{Path: path}

	tracks, err := loadTracks(ctx, path, opts.Config, false)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	result, err := opt.Optimize(tracks, opts.Config.EnergyMode)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to optimize playlist: %w", err)
		return outcome
	}

	outcome.Tracks = len(tracks)
	outcome.Original = result.OriginalScore.Overall
	outcome.Optimized = result.OptimizedScore.Overall
	outcome.Percent = result.ImprovementPercentage

	debugf("[BATCH] %s: %d tracks, path %s", path, len(tracks), formatPath(result.HarmonicPath))

	if opts.DryRun {
		return outcome
	}

	outputPath, err := resolveOutputPath(path, "", opts.Config.OutputFormat)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	if err := formats.Save(outputPath, result.OptimizedTracks, formats.DefaultPlaylistName); err != nil {
		outcome.Err = fmt.Errorf("failed to write playlist: %w", err)
		return outcome
	}

	outcome.OutputPath = outputPath

	return outcome
}
