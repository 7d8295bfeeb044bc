// ABOUTME: Bounded undo/redo history for viewer edits
// ABOUTME: Snapshots track order and cursor so any edit or optimization can be reverted

package tui

import (
	"slices"

	"harmonic-sorter/playlist"
)

// PlaylistState captures a snapshot of the playlist for undo/redo
type PlaylistState struct {
	Tracks    []playlist.Track
	CursorPos int
}

func (s PlaylistState) clone() PlaylistState {
	return PlaylistState{Tracks: slices.Clone(s.Tracks), CursorPos: s.CursorPos}
}

// boundedStack drops its oldest entry once it holds more than limit items
type boundedStack struct {
	items []PlaylistState
	limit int
}

func (s *boundedStack) push(state PlaylistState) {
	s.items = append(s.items, state.clone())
	if len(s.items) > s.limit {
		s.items = slices.Delete(s.items, 0, 1)
	}
}

func (s *boundedStack) pop() (PlaylistState, bool) {
	if len(s.items) == 0 {
		return PlaylistState{}, false
	}

	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]

	return last, true
}

// UndoManager keeps undo and redo stacks of at most maxSize states each
type UndoManager struct {
	undo boundedStack
	redo boundedStack
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{
		undo: boundedStack{limit: maxSize},
		redo: boundedStack{limit: maxSize},
	}
}

// Push records state before an edit. A new edit invalidates the redo history.
func (um *UndoManager) Push(state PlaylistState) {
	um.undo.push(state)
	um.redo.items = nil
}

// Undo returns the previous state and remembers current for Redo
func (um *UndoManager) Undo(current PlaylistState) (PlaylistState, bool) {
	state, ok := um.undo.pop()
	if !ok {
		return PlaylistState{}, false
	}

	um.redo.push(current)

	return state, true
}

// Redo returns the state most recently undone and remembers current for Undo
func (um *UndoManager) Redo(current PlaylistState) (PlaylistState, bool) {
	state, ok := um.redo.pop()
	if !ok {
		return PlaylistState{}, false
	}

	um.undo.push(current)

	return state, true
}

// UndoSize returns the number of states that can be undone
func (um *UndoManager) UndoSize() int { return len(um.undo.items) }

// RedoSize returns the number of states that can be redone
func (um *UndoManager) RedoSize() int { return len(um.redo.items) }

// Clear drops all history
func (um *UndoManager) Clear() {
	um.undo.items = nil
	um.redo.items = nil
}
