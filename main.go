// ABOUTME: Entry point for the harmonic playlist sorter
// ABOUTME: Parses flags, merges them over the config file and routes to CLI, batch, viewer or server mode

// Package main provides the entry point for harmonic-sorter, a Camelot-wheel playlist optimizer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"harmonic-sorter/config"
	"harmonic-sorter/formats"
	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
	"harmonic-sorter/server"
	"harmonic-sorter/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	configPath := flag.String("config", "", "config file (default: ./harmonic-sorter.toml or ~/.config/harmonic-sorter/config.toml)")
	mode := flag.String("mode", "", "energy mode: ramp_up, ramp_down or wave (default from config: ramp_up)")
	visual := flag.Bool("visual", false, "open the interactive viewer")
	serve := flag.Bool("serve", false, "serve the HTTP API instead of optimizing files")
	addr := flag.String("addr", "", "HTTP listen address for -serve (default from config: 127.0.0.1:8080)")
	workers := flag.Int("workers", -1, "playlists optimized concurrently in batch mode (0 = CPU count)")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogFile)
	dryRun := flag.Bool("dry-run", false, "preview optimization without writing changes")
	output := flag.String("output", "", "write the optimized playlist to this file (default: overwrite .m3u8 input, <name>-optimized.<ext> otherwise)")
	flag.Parse()

	args := flag.Args()
	if !*serve && len(args) == 0 {
		fmt.Println("Usage: harmonic-sorter [flags] <playlist> [more playlists...]")
		fmt.Println("       harmonic-sorter -serve [-addr 127.0.0.1:8080]")
		fmt.Println("Supported inputs: .m3u8/.m3u, .csv, .txt (tab separated), .xml (Rekordbox)")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if *debug {
		if err := SetupDebugLog(debugLogFile); err != nil {
			log.Printf("Failed to setup debug log: %v", err)
			return 1
		}
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Config error: %v", err)
		return 1
	}

	if *mode != "" {
		if cfg.EnergyMode, err = optimizer.ParseEnergyMode(*mode); err != nil {
			log.Printf("Invalid -mode: %v", err)
			return 1
		}
	}

	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	if *workers >= 0 {
		cfg.BatchWorkers = *workers
	}

	debugf("[MAIN] Config %s: %+v", path, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := RunOptions{
		PlaylistPaths: args,
		OutputPath:    *output,
		DryRun:        *dryRun,
		DebugLog:      *debug,
		Config:        cfg,
	}

	switch {
	case *serve:
		err = runServer(cfg)
	case *visual:
		err = runViewer(ctx, opts)
	case len(args) > 1:
		err = RunBatch(ctx, opts, os.Stdout)
	default:
		err = RunCLI(ctx, opts)
	}

	if err != nil {
		log.Printf("CLI error: %v", err)
		return 1
	}

	return 0
}

// runServer serves the HTTP API until interrupted
func runServer(cfg config.Config) error {
	srv := server.NewServer(server.Config{
		Addr:      cfg.ListenAddr,
		Optimizer: optimizer.New(cfg.Solver(debugf)),
		Debugf:    debugf,
	})

	return srv.Run()
}

// runViewer opens the interactive viewer on the first playlist
func runViewer(ctx context.Context, opts RunOptions) error {
	if len(opts.PlaylistPaths) != 1 {
		return fmt.Errorf("-visual takes exactly one playlist, got %d", len(opts.PlaylistPaths))
	}

	input := opts.PlaylistPaths[0]

	outputPath, err := resolveOutputPath(input, opts.OutputPath, opts.Config.OutputFormat)
	if err != nil {
		return err
	}

	cfg := opts.Config

	return tui.Run(ctx, tui.Options{
		PlaylistPath:    input,
		OutputPath:      outputPath,
		DryRun:          opts.DryRun,
		EnergyMode:      cfg.EnergyMode,
		OptimizeOnStart: true,
		Watch:           true,
	}, tui.Dependencies{
		Optimizer: optimizer.New(cfg.Solver(debugf)),
		Load: func(ctx context.Context, path string) ([]playlist.Track, error) {
			return loadTracks(ctx, path, cfg, false)
		},
		Save: func(path string, tracks []playlist.Track) error {
			return formats.Save(path, tracks, formats.DefaultPlaylistName)
		},
		Debugf: debugf,
	})
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)
		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
