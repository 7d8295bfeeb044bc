// ABOUTME: Rendering functions for the viewer
// ABOUTME: Track table with transition colours, score line, status bar and help

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// View renders the viewer
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Exiting...\n"
	}

	var b strings.Builder

	b.WriteString(m.renderTitle() + "\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-5s %-5s %-6s %-4s %-20s %-30s",
		"#", "Key", "Cam", "BPM", "Δ", "Artist", "Title")) + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.renderScore() + "\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderTitle names the file and the active energy mode
func (m model) renderTitle() string {
	title := fmt.Sprintf("Harmonic sorter | %s | mode: %s", m.playlistPath, m.mode)
	if m.dirty {
		title += " [modified]"
	}

	if m.optimizing {
		title += " [optimizing]"
	}

	return titleStyle.Render(title)
}

// updateViewportContent builds and sets the viewport content
// Renders ALL tracks - the viewport handles scrolling
func (m *model) updateViewportContent() {
	var cursorKey *playlist.CamelotKey
	if m.cursorPos < len(m.tracks) {
		cursorKey = m.tracks[m.cursorPos].CanonicalKey()
	}

	var b strings.Builder

	for i := range m.tracks {
		b.WriteString(m.renderTrackLine(i, cursorKey))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// renderTrackLine renders row i. The distance column belongs to the transition
// into this track; keys mixable with the cursor track are highlighted.
func (m *model) renderTrackLine(i int, cursorKey *playlist.CamelotKey) string {
	track := &m.tracks[i]
	canonical := track.CanonicalKey()

	camelot := "-"
	if canonical != nil {
		camelot = canonical.String()
	}

	bpm := "-"
	if track.HasBPM() {
		bpm = fmt.Sprintf("%.1f", track.BPM)
	}

	delta := ""

	var transition *optimizer.Transition
	if i > 0 && i-1 < len(m.score.Transitions) {
		transition = &m.score.Transitions[i-1]
		delta = "?"

		if transition.Distance < playlist.IncomparableDistance {
			delta = fmt.Sprintf("%d", transition.Distance)
		}
	}

	keyCell := fmt.Sprintf("%-5s", truncate(track.Key, 5))
	camCell := fmt.Sprintf("%-5s", camelot)
	deltaCell := fmt.Sprintf("%-4s", delta)
	rest := fmt.Sprintf("%-20s %-30s", truncate(track.Artist, 20), truncate(track.Title, 30))

	if i == m.cursorPos {
		return cursorStyle.Render(fmt.Sprintf("%-4d %s %s %-6s %s %s", i+1, keyCell, camCell, bpm, deltaCell, rest))
	}

	switch {
	case canonical == nil:
		camCell = unknownStyle.Render(camCell)
	case cursorKey != nil && playlist.Distance(cursorKey, canonical) <= 1:
		camCell = compatibleKeyStyle.Render(camCell)
	}

	if transition != nil {
		if transition.Distance >= playlist.IncomparableDistance {
			deltaCell = unknownStyle.Render(deltaCell)
		} else {
			deltaCell = qualityStyles[transition.Quality].Render(deltaCell)
		}
	}

	return fmt.Sprintf("%-4d %s %s %-6s %s %s", i+1, keyCell, camCell, bpm, deltaCell, rest)
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	position := 0
	if len(m.tracks) > 0 {
		position = m.cursorPos + 1
	}

	status := fmt.Sprintf("%d tracks | Track %d/%d | U:%d R:%d",
		len(m.tracks), position, len(m.tracks), m.undoMgr.UndoSize(), m.undoMgr.RedoSize())

	if m.lastResult != nil {
		status += fmt.Sprintf(" | path: %s", formatPath(m.lastResult.HarmonicPath))
	}

	return statusStyle.Width(m.width).Render(status)
}

// renderScore renders the live quality score of the current order
func (m model) renderScore() string {
	if m.scoreErr != nil {
		return errorStyle.Render(" Score unavailable: " + m.scoreErr.Error())
	}

	s := m.score

	return helpStyle.Render(fmt.Sprintf(" Score: %d (loaded %d) | Harmonic: %d | Tempo: %d | Perfect: %d/%d | Avg: %.2f | Worst: %d",
		s.Overall, m.baseline, s.Harmonic, s.TempoFlow, s.PerfectTransitions, s.TotalTransitions, s.AverageDistance, s.WorstJump))
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	return helpStyle.Render(" ↑/↓/j/k: navigate | K/J: move track | o: optimize | m: mode | u: undo | ctrl+r: redo | w: save | r: reload | q: quit")
}

// formatPath joins a key path as "8A → 9A → 9B"
func formatPath(path []playlist.CamelotKey) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = k.String()
	}

	return strings.Join(parts, " → ")
}
