// ABOUTME: CLI mode for optimizing a single playlist
// ABOUTME: Prints the new order, scores and harmonic path, then writes the result

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"harmonic-sorter/formats"
	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// RunCLI optimizes one playlist and reports the result on stdout
func RunCLI(ctx context.Context, opts RunOptions) error {
	path := opts.PlaylistPaths[0]
	cfg := opts.Config

	tracks, err := loadTracks(ctx, path, cfg, true)
	if err != nil {
		return err
	}

	start := time.Now()
	opt := optimizer.New(cfg.Solver(debugf))

	result, err := opt.Optimize(tracks, cfg.EnergyMode)
	if err != nil {
		return fmt.Errorf("failed to optimize playlist: %w", err)
	}

	debugf("[CLI] Optimized %d tracks in %v", len(tracks), time.Since(start))

	printResult(os.Stdout, result)

	if opts.DryRun {
		fmt.Println("\n--dry-run mode: playlist not modified")
		return nil
	}

	outputPath, err := resolveOutputPath(path, opts.OutputPath, cfg.OutputFormat)
	if err != nil {
		return err
	}

	fmt.Printf("\nWriting optimized playlist to: %s\n", outputPath)

	if err := formats.Save(outputPath, result.OptimizedTracks, formats.DefaultPlaylistName); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}

	fmt.Println("Done!")

	return nil
}

// printResult writes the optimized order followed by the score comparison
func printResult(out io.Writer, result *optimizer.Result) {
	fmt.Fprintf(out, "\nOptimized playlist (%s):\n", result.EnergyMode)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "#\tKey\tCamelot\tBPM\tMix\tArtist\tTitle"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(w, "---\t---\t-------\t---\t---\t------\t-----"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	transitions := result.OptimizedScore.Transitions

	for i := range result.OptimizedTracks {
		track := &result.OptimizedTracks[i]

		mix := ""
		if i > 0 && i-1 < len(transitions) {
			mix = transitionLabel(transitions[i-1])
		}

		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			track.Key,
			formatCamelot(track),
			formatBPM(track.BPM),
			mix,
			truncate(track.Artist, 20),
			truncate(track.Title, 30),
		); err != nil {
			log.Printf("Warning: failed to write track %d: %v", i+1, err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}

	fmt.Fprintf(out, "\nOriginal score:  %s\n", formatScore(result.OriginalScore))
	fmt.Fprintf(out, "Optimized score: %s\n", formatScore(result.OptimizedScore))
	fmt.Fprintf(out, "Improvement:     %s\n", formatImprovement(result.OriginalScore.Overall, result.OptimizedScore.Overall, result.ImprovementPercentage))
	fmt.Fprintf(out, "Harmonic path:   %s\n", formatPath(result.HarmonicPath))

	if len(result.InvalidTracks) > 0 {
		fmt.Fprintf(out, "\n%d track(s) without a recognizable key were placed at the end:\n", len(result.InvalidTracks))

		for i := range result.InvalidTracks {
			fmt.Fprintf(out, "  - %s\n", trackLabel(&result.InvalidTracks[i]))
		}
	}
}

// transitionLabel shows the distance into a track and its quality tier
func transitionLabel(t optimizer.Transition) string {
	if t.Distance >= playlist.IncomparableDistance {
		return "?"
	}

	return fmt.Sprintf("%d %s", t.Distance, t.Quality)
}

// trackLabel names a track as "Artist - Title", falling back to its path
func trackLabel(t *playlist.Track) string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return t.Path
	}
}
