// ABOUTME: Viewer options and injected collaborators
// ABOUTME: Loading, saving and optimization are passed in so the model stays testable

package tui

import (
	"context"

	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// Options contains configuration for running the viewer
type Options struct {
	PlaylistPath    string               // Path to input playlist
	OutputPath      string               // Path for saving (defaults to PlaylistPath)
	DryRun          bool                 // If true, never write to disk
	EnergyMode      optimizer.EnergyMode // Initial energy mode
	OptimizeOnStart bool                 // Run one optimization as soon as the viewer opens
	Watch           bool                 // Reload when the input file changes on disk
}

// LoadFunc reads a playlist from disk
type LoadFunc func(ctx context.Context, path string) ([]playlist.Track, error)

// SaveFunc writes a playlist to disk
type SaveFunc func(path string, tracks []playlist.Track) error

// Dependencies holds the collaborators the viewer calls out to
type Dependencies struct {
	Optimizer *optimizer.Optimizer // nil uses the default solver
	Load      LoadFunc
	Save      SaveFunc
	Debugf    func(format string, args ...interface{})
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Optimizer == nil {
		d.Optimizer = optimizer.New(nil)
	}

	if d.Debugf == nil {
		d.Debugf = func(string, ...interface{}) {}
	}

	return d
}
