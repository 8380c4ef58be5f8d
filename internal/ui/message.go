package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"favtrax/internal/transform"
)

// StateMsg reports one row's transform state change to the TUI.
type StateMsg struct {
	ID    int
	State transform.State
}

var _ tea.Msg = StateMsg{}

// describeState renders a state for the row list.
func describeState(st transform.State) string {
	switch st.Kind {
	case transform.KindIdle:
		return "idle"
	case transform.KindQueueing:
		return styles.warn.Render("queued")
	case transform.KindPending:
		return styles.warn.Render("resolving " + st.Status)
	case transform.KindSuccess:
		if st.Song != nil {
			return styles.ok.Render("✓ " + st.Song.Title)
		}
		return styles.ok.Render("✓ resolved")
	case transform.KindFailed:
		if st.Err != nil {
			return styles.err.Render("✗ " + st.Err.Error())
		}
		return styles.err.Render("✗ failed")
	case transform.KindReleased:
		return styles.help.Render("released")
	case transform.KindStopped:
		return styles.help.Render("stopped")
	default:
		return "unknown"
	}
}
