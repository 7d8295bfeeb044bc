// ABOUTME: Background commands for the viewer
// ABOUTME: File watching, reloading, saving and optimization run off the UI goroutine

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// fileChangedMsg is sent when the watched playlist file is written
type fileChangedMsg struct{}

// reloadedMsg carries a freshly loaded playlist
type reloadedMsg struct {
	tracks []playlist.Track
	err    error
}

// savedMsg reports the outcome of a save
type savedMsg struct {
	path  string
	count int
	err   error
}

// optimizedMsg carries an optimization result for the edit epoch it started in
type optimizedMsg struct {
	result *optimizer.Result
	err    error
	epoch  int
}

// waitForFileChange blocks until the watched file is written or recreated
func waitForFileChange(watcher *fsnotify.Watcher, debugf func(string, ...interface{})) tea.Cmd {
	if watcher == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					time.Sleep(reloadDebounce)
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadCmd loads path in the background
func reloadCmd(load LoadFunc, path string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := load(context.Background(), path)
		return reloadedMsg{tracks: tracks, err: err}
	}
}

// saveCmd writes tracks in the background
func saveCmd(save SaveFunc, path string, tracks []playlist.Track) tea.Cmd {
	return func() tea.Msg {
		err := save(path, tracks)
		return savedMsg{path: path, count: len(tracks), err: err}
	}
}

// optimizeCmd runs the optimizer in the background
func optimizeCmd(opt *optimizer.Optimizer, tracks []playlist.Track, mode optimizer.EnergyMode, epoch int) tea.Cmd {
	return func() tea.Msg {
		result, err := opt.Optimize(tracks, mode)
		return optimizedMsg{result: result, err: err, epoch: epoch}
	}
}
