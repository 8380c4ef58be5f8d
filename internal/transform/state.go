// package transform implements the per-row resolution pipeline: a shared
// search capability future, a cancellable session per row, the row transform
// state machine and the batch manager that fans transforms out over imported
// rows.
package transform

import (
	"favtrax/internal/models"
)

// Kind enumerates the states of a row transform.
type Kind int

const (
	KindIdle Kind = iota
	KindQueueing
	KindPending
	KindSuccess
	KindFailed
	KindReleased // Cancelled while waiting in queue or mid-flight
	KindStopped  // Cancelled by explicit user action
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindQueueing:
		return "queueing"
	case KindPending:
		return "pending"
	case KindSuccess:
		return "success"
	case KindFailed:
		return "failed"
	case KindReleased:
		return "released"
	case KindStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is one snapshot of a row transform.
//
// States are immutable values: every transition produces a new State, so an
// observer holding one always sees a consistent snapshot. Exactly one variant
// is current per row at any time.
type State struct {
	Kind   Kind
	Place  int          // Queue position, queueing only
	Status string       // Progress text, pending only
	Song   *models.Song // Resolved output, success only
	Score  float64      // Match confidence, success only
	Err    error        // Failure payload, failed only
}

func Idle() State                  { return State{Kind: KindIdle} }
func Queueing(place int) State     { return State{Kind: KindQueueing, Place: place} }
func Pending(status string) State  { return State{Kind: KindPending, Status: status} }
func Failed(err error) State       { return State{Kind: KindFailed, Err: err} }
func Released() State              { return State{Kind: KindReleased} }
func Stopped() State               { return State{Kind: KindStopped} }

func Success(song *models.Song, score float64) State {
	return State{Kind: KindSuccess, Song: song, Score: score}
}

// Terminal reports whether no further transitions can leave this state
// without an explicit restart or stop.
func (s State) Terminal() bool {
	switch s.Kind {
	case KindSuccess, KindFailed, KindReleased, KindStopped:
		return true
	default:
		return false
	}
}

// Active reports whether the transform currently holds or awaits the
// capability.
func (s State) Active() bool {
	return s.Kind == KindQueueing || s.Kind == KindPending
}
