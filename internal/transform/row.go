package transform

import (
	"context"
	"errors"
	"sync"

	"favtrax/internal/models"
	"favtrax/internal/shared"

	"github.com/charmbracelet/log"
)

// RowTransform resolves one imported row into a Song, or a terminal
// failure/cancellation state.
//
// Transitions (initial idle):
//
//	idle     -> queueing   on start
//	queueing -> released   session released while waiting for admission
//	queueing -> pending    admitted, search in flight
//	pending  -> success    row resolved to a validated Song
//	pending  -> failed     resolution error, no candidate, or schema failure
//	pending  -> released   session released mid-flight
//	any      -> stopped    explicit user stop, cancels the row's context
//	failed   -> queueing   manual restart, the only recovery path
//	stopped  -> queueing   manual start after an explicit stop
type RowTransform struct {
	id      int
	source  models.Row
	session *Session
	notify  func(State)
	logger  *log.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// NewRowTransform creates an idle transform for one row.
//
// notify is invoked on every transition with the new state, in transition
// order, while the transform's lock is held: observers must hand the state
// off (channel send, snapshot copy) rather than call back into the transform.
func NewRowTransform(id int, source models.Row, session *Session, notify func(State), logger *log.Logger) *RowTransform {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RowTransform{
		id:      id,
		source:  source,
		session: session,
		notify:  notify,
		logger:  shared.WithLogger(logger, "row", id),
		state:   Idle(),
	}
}

// ID returns the transform's row index within its batch.
func (t *RowTransform) ID() int { return t.id }

// Source returns the imported row backing this transform.
func (t *RowTransform) Source() models.Row { return t.source }

// State returns the current state snapshot.
func (t *RowTransform) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// CanStart reports whether a start would be admitted: true unless a run is
// already queued or in flight.
func (t *RowTransform) CanStart() bool {
	return !t.State().Active()
}

// Start begins (or restarts) resolution. Returns false without any state
// change when a run is already queued or in flight.
func (t *RowTransform) Start() bool {
	t.mu.Lock()
	if t.state.Active() {
		t.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.apply(Queueing(1))
	t.mu.Unlock()

	go t.run(ctx)
	return true
}

// Stop cancels the transform from any state and moves it to stopped.
func (t *RowTransform) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	if t.state.Kind != KindStopped {
		t.apply(Stopped())
	}
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Release signals the transform's session; a queued or in-flight run settles
// in released at its next check point.
func (t *RowTransform) Release() {
	t.session.Release()
}

// apply records and publishes a new state. Callers hold t.mu.
func (t *RowTransform) apply(next State) {
	t.state = next
	if t.notify != nil {
		t.notify(next)
	}
}

// transition moves to next unless a terminal cancellation state already won.
func (t *RowTransform) transition(next State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Kind == KindStopped || t.state.Kind == KindReleased {
		return false
	}

	t.apply(next)
	return true
}

func (t *RowTransform) run(ctx context.Context) {
	fn, err := t.session.Queue(ctx)
	if err != nil {
		t.settle(err)
		return
	}

	if !t.transition(Pending("resolving")) {
		return
	}

	song, score, err := resolveRow(ctx, fn, t.session, t.source)
	if err != nil {
		t.settle(err)
		return
	}

	if t.transition(Success(song, score)) {
		t.logger.Debug("row resolved", "id", song.ID, "score", score)
	}
}

// settle maps a run error to its terminal state. The cancellation marker is
// caught here and only here; it never surfaces as a failure.
func (t *RowTransform) settle(err error) {
	switch {
	case errors.Is(err, shared.ErrTransformReleased):
		t.transition(Released())
	case errors.Is(err, context.Canceled):
		// Stop already moved the state; transition refuses anyway.
		t.transition(Released())
	default:
		t.logger.Debug("row failed", "err", err)
		t.transition(Failed(err))
	}
}
