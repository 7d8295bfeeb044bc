// ABOUTME: Cursor-to-middle scrolling for the track table
// ABOUTME: Computes the viewport offset that keeps the cursor row visible

package tui

// ScrollPhase describes where the cursor sits relative to the scrolling window
type ScrollPhase int

const (
	TopPhase    ScrollPhase = iota // cursor moves, window pinned to the first row
	MiddlePhase                    // cursor pinned to the middle, content scrolls
	BottomPhase                    // cursor moves, window pinned to the last row
)

// scrollPhase classifies cursor for a window of height rows over total rows
func scrollPhase(height, cursor, total int) ScrollPhase {
	if total == 0 || height < 1 {
		return TopPhase
	}

	middle := height / 2

	switch {
	case cursor < middle:
		return TopPhase
	case cursor < total-height+middle:
		return MiddlePhase
	default:
		return BottomPhase
	}
}

// scrollOffset returns the first visible row, scrolling vim/less style:
// the cursor walks to the middle, then the content moves under it.
func scrollOffset(height, cursor, total int) int {
	switch scrollPhase(height, cursor, total) {
	case MiddlePhase:
		return cursor - height/2
	case BottomPhase:
		return max(total-height, 0)
	default:
		return 0
	}
}
