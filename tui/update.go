// ABOUTME: Event handling and state updates for the viewer
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-2, minViewportWidth)
		m.viewport.Height = max(msg.Height-totalUIChrome, minViewportHeight)
		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case optimizedMsg:
		return m.handleOptimized(msg), nil

	case fileChangedMsg:
		if time.Since(m.lastSave) < selfWriteGrace {
			m.debugf("[TUI] Ignoring change from our own save")
			return m, waitForFileChange(m.watcher, m.debugf)
		}

		m.setStatusMsg("Playlist changed on disk, reloading...")

		return m, tea.Batch(reloadCmd(m.load, m.playlistPath), waitForFileChange(m.watcher, m.debugf))

	case reloadedMsg:
		m.handleReloaded(msg)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.debugf("[TUI] Save failed: %v", msg.err)
			m.setStatusMsg(fmt.Sprintf("Save failed: %v", msg.err))

			return m, nil
		}

		m.dirty = false
		m.lastSave = time.Now()
		m.setStatusMsg(fmt.Sprintf("Saved %d tracks to %s", msg.count, msg.path))

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey dispatches a key press
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.MoveUp):
		m.moveTrack(-1)

	case key.Matches(msg, keys.MoveDown):
		m.moveTrack(1)

	case key.Matches(msg, keys.Up):
		m.moveCursor(m.cursorPos - 1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(m.cursorPos + 1)

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(m.cursorPos - pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(m.cursorPos + pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.moveCursor(0)

	case key.Matches(msg, keys.End):
		m.moveCursor(len(m.tracks) - 1)

	case key.Matches(msg, keys.Optimize):
		return m, m.startOptimize()

	case key.Matches(msg, keys.Mode):
		return m, m.cycleMode()

	case key.Matches(msg, keys.Undo):
		m.undo()

	case key.Matches(msg, keys.Redo):
		m.redo()

	case key.Matches(msg, keys.Save):
		return m, m.startSave()

	case key.Matches(msg, keys.Reload):
		m.setStatusMsg("Reloading...")
		return m, reloadCmd(m.load, m.playlistPath)
	}

	return m, nil
}

// moveCursor places the cursor at pos, clamped to the track list
func (m *model) moveCursor(pos int) {
	m.cursorPos = pos
	m.clampCursor()
	m.ensureCursorVisible()
	m.updateViewportContent()
}

// handleOptimized applies a finished optimization unless the order was edited meanwhile
func (m model) handleOptimized(msg optimizedMsg) model {
	if msg.epoch != m.epoch {
		m.debugf("[TUI] Ignoring stale optimization: epoch %d != current %d", msg.epoch, m.epoch)
		return m
	}

	m.optimizing = false

	if msg.err != nil {
		m.setStatusMsg(fmt.Sprintf("Optimization failed: %v", msg.err))
		return m
	}

	result := msg.result
	m.pushUndo()
	m.lastResult = result
	m.cursorPos = 0
	m.dirty = true
	m.applyTracks(result.OptimizedTracks)

	m.debugf("[TUI] Optimized %d tracks (%s): %d -> %d",
		len(result.OptimizedTracks), result.EnergyMode, result.OriginalScore.Overall, result.OptimizedScore.Overall)
	m.setStatusMsg(fmt.Sprintf("Optimized (%s): %d -> %d (%+d%%)",
		result.EnergyMode, result.OriginalScore.Overall, result.OptimizedScore.Overall, result.ImprovementPercentage))

	return m
}

// handleReloaded swaps in a reloaded playlist, keeping the old order undoable
func (m *model) handleReloaded(msg reloadedMsg) {
	if msg.err != nil {
		m.debugf("[TUI] Reload failed: %v", msg.err)
		m.setStatusMsg(fmt.Sprintf("Reload failed: %v", msg.err))

		return
	}

	m.pushUndo()
	m.dirty = false
	m.lastResult = nil
	m.applyTracks(msg.tracks)
	m.baseline = m.score.Overall
	m.setStatusMsg(fmt.Sprintf("Reloaded %d tracks | score %d", len(m.tracks), m.score.Overall))
}
