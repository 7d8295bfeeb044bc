// ABOUTME: Interactive harmonic playlist viewer state
// ABOUTME: Bubble Tea model holding the current order, its live score, edit history and file watcher

// Package tui provides an interactive terminal viewer for harmonic playlist ordering.
package tui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// Layout constants for UI dimensions
const (
	titleHeight     = 2 // Title bar plus blank line
	headerHeight    = 1 // Column headers
	statusBarHeight = 1
	scoreHeight     = 1 // Score breakdown line
	helpHeight      = 1
	spacingHeight   = 1
	totalUIChrome   = titleHeight + headerHeight + statusBarHeight + scoreHeight + helpHeight + spacingHeight

	minViewportWidth  = 20
	minViewportHeight = 5
)

// Navigation and interaction constants
const (
	pageJumpSize          = 10
	statusMessageDuration = 5 * time.Second
	maxUndoStackSize      = 50

	// Write events this soon after our own save are ignored
	selfWriteGrace = 2 * time.Second
	// Wait for editors that write in several steps
	reloadDebounce = 100 * time.Millisecond
)

// model holds the viewer state
type model struct {
	optimizer *optimizer.Optimizer
	load      LoadFunc
	save      SaveFunc
	debugf    func(string, ...interface{})

	// File I/O
	playlistPath string
	outputPath   string
	dryRun       bool
	watcher      *fsnotify.Watcher
	lastSave     time.Time

	// Playlist state
	tracks     []playlist.Track
	mode       optimizer.EnergyMode
	score      optimizer.QualityScore
	scoreErr   error
	baseline   int               // overall score of the order as loaded
	lastResult *optimizer.Result // most recent optimization, nil until one finishes
	optimizing bool
	epoch      int  // bumped on every edit so stale optimizations are dropped
	dirty      bool // edited since the last load or save

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string
	statusMsgAge time.Time
	cursorPos    int
	viewport     viewport.Model
	undoMgr      *UndoManager
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Optimize key.Binding
	Mode     key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Save     key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first track"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last track"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move track up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move track down"),
	),
	Optimize: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "optimize"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "next energy mode"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))

	compatibleKeyStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("13"))

	unknownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	qualityStyles = map[optimizer.Quality]lipgloss.Style{
		optimizer.Perfect:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		optimizer.Good:       lipgloss.NewStyle().Foreground(lipgloss.Color("148")),
		optimizer.Acceptable: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		optimizer.Clash:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Run loads the playlist and starts the viewer
func Run(ctx context.Context, opts Options, deps Dependencies) error {
	deps = deps.withDefaults()

	tracks, err := deps.Load(ctx, opts.PlaylistPath)
	if err != nil {
		return err
	}

	m := initModel(tracks, opts, deps)

	if opts.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}

		defer func() {
			_ = watcher.Close()
		}()

		if err := watcher.Add(opts.PlaylistPath); err != nil {
			return fmt.Errorf("failed to watch playlist file: %w", err)
		}

		m.watcher = watcher
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final, ok := finalModel.(model)
	if !ok || !final.dirty {
		return nil
	}

	if final.dryRun {
		fmt.Println("\n--dry-run mode: playlist not modified")
		return nil
	}

	if err := deps.Save(final.outputPath, final.tracks); err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}

	fmt.Printf("\nSaved playlist to: %s\n", final.outputPath)

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(tracks []playlist.Track, opts Options, deps Dependencies) model {
	deps = deps.withDefaults()

	outputPath := opts.PlaylistPath
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	mode := opts.EnergyMode
	if !mode.Valid() {
		mode = optimizer.RampUp
	}

	m := model{
		optimizer:    deps.Optimizer,
		load:         deps.Load,
		save:         deps.Save,
		debugf:       deps.Debugf,
		playlistPath: opts.PlaylistPath,
		outputPath:   outputPath,
		dryRun:       opts.DryRun,
		tracks:       slices.Clone(tracks),
		mode:         mode,
		optimizing:   opts.OptimizeOnStart,
		viewport:     viewport.New(0, 0), // sized on first WindowSizeMsg
		undoMgr:      NewUndoManager(maxUndoStackSize),
	}

	m.rescore()
	m.baseline = m.score.Overall

	return m
}

// Init starts the optional initial optimization and the file watcher
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, waitForFileChange(m.watcher, m.debugf)}

	if m.optimizing {
		cmds = append(cmds, optimizeCmd(m.optimizer, m.tracks, m.mode, m.epoch))
	}

	return tea.Batch(cmds...)
}

// ========== State helpers ==========

// rescore recomputes the live score of the current order
func (m *model) rescore() {
	m.score, m.scoreErr = optimizer.Score(m.tracks, m.mode)
	if m.scoreErr != nil {
		m.debugf("[TUI] Score failed: %v", m.scoreErr)
	}
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// ensureCursorVisible keeps the cursor row on screen with middle-of-screen scrolling
func (m *model) ensureCursorVisible() {
	m.viewport.SetYOffset(scrollOffset(m.viewport.Height, m.cursorPos, len(m.tracks)))
}

// clampCursor keeps the cursor inside the track list
func (m *model) clampCursor() {
	m.cursorPos = max(min(m.cursorPos, len(m.tracks)-1), 0)
}

func (m *model) currentState() PlaylistState {
	return PlaylistState{Tracks: m.tracks, CursorPos: m.cursorPos}
}

// pushUndo saves the current order before an edit
func (m *model) pushUndo() {
	m.undoMgr.Push(m.currentState())
}

// applyTracks replaces the shown order, invalidating in-flight optimizations
func (m *model) applyTracks(tracks []playlist.Track) {
	m.tracks = tracks
	m.epoch++
	m.optimizing = false
	m.clampCursor()
	m.rescore()
	m.ensureCursorVisible()
	m.updateViewportContent()
}

// moveTrack swaps the cursor track with its neighbour in direction delta
func (m *model) moveTrack(delta int) {
	target := m.cursorPos + delta
	if len(m.tracks) == 0 || target < 0 || target >= len(m.tracks) {
		return
	}

	m.pushUndo()

	tracks := slices.Clone(m.tracks)
	tracks[m.cursorPos], tracks[target] = tracks[target], tracks[m.cursorPos]
	m.cursorPos = target
	m.dirty = true
	m.applyTracks(tracks)

	m.setStatusMsg(fmt.Sprintf("Moved track to %d | score %d (Undo: %d, Redo: %d)",
		target+1, m.score.Overall, m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

// undo restores the previous order
func (m *model) undo() {
	state, ok := m.undoMgr.Undo(m.currentState())
	if !ok {
		m.setStatusMsg("Nothing to undo")
		return
	}

	m.cursorPos = state.CursorPos
	m.dirty = true
	m.applyTracks(state.Tracks)
	m.setStatusMsg(fmt.Sprintf("Undo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

// redo re-applies the most recently undone order
func (m *model) redo() {
	state, ok := m.undoMgr.Redo(m.currentState())
	if !ok {
		m.setStatusMsg("Nothing to redo")
		return
	}

	m.cursorPos = state.CursorPos
	m.dirty = true
	m.applyTracks(state.Tracks)
	m.setStatusMsg(fmt.Sprintf("Redo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

// startOptimize schedules an optimization of the current order
func (m *model) startOptimize() tea.Cmd {
	if len(m.tracks) == 0 {
		m.setStatusMsg("Nothing to optimize")
		return nil
	}

	m.epoch++
	m.optimizing = true
	m.setStatusMsg(fmt.Sprintf("Optimizing %d tracks (%s)...", len(m.tracks), m.mode))

	return optimizeCmd(m.optimizer, m.tracks, m.mode, m.epoch)
}

// cycleMode switches to the next energy mode and re-optimizes
func (m *model) cycleMode() tea.Cmd {
	m.mode = m.mode.Next()
	m.rescore()
	m.updateViewportContent()

	return m.startOptimize()
}

// startSave schedules a write of the current order
func (m *model) startSave() tea.Cmd {
	if m.dryRun {
		m.setStatusMsg("--dry-run mode: not saved")
		return nil
	}

	m.lastSave = time.Now()

	return saveCmd(m.save, m.outputPath, m.tracks)
}

// ========== Helpers ==========

// truncate shortens a string to maxLen runes, adding "..." if truncated
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
