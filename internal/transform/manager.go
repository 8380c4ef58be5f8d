package transform

import (
	"fmt"
	"sync"

	"favtrax/internal/models"
	"favtrax/internal/shared"

	"github.com/charmbracelet/log"
)

// Manager fans out one RowTransform per imported row and tracks the batch.
//
// Every row gets its own fresh Session sharing the batch's capability, so
// cancelling one row never affects its siblings. Loading a new row set tears
// the previous batch down first; two batches never run concurrently against
// the same indices.
type Manager struct {
	capability *Capability
	notify     func(id int, state State)
	logger     *log.Logger

	mu         sync.Mutex
	transforms []*RowTransform
	batchID    string
}

// NewManager creates a manager over the shared capability.
//
// notify receives every per-row state change; per-row ordering is strict, no
// ordering holds across rows. It is called from transform goroutines and
// must not block or call back into the manager synchronously.
func NewManager(capability *Capability, notify func(int, State), logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		capability: capability,
		notify:     notify,
		logger:     logger,
	}
}

// Load replaces the current batch with one transform per row and starts each
// immediately.
func (m *Manager) Load(rows []models.Row) {
	m.mu.Lock()
	previous := m.transforms

	transforms := make([]*RowTransform, len(rows))
	for i, row := range rows {
		id := i
		session := NewSession(m.capability)
		var notify func(State)
		if m.notify != nil {
			notify = func(st State) { m.notify(id, st) }
		}
		transforms[i] = NewRowTransform(id, row, session, notify, m.logger)
	}

	m.transforms = transforms
	m.batchID = shared.GenerateID()
	m.mu.Unlock()

	for _, t := range previous {
		t.Release()
	}

	m.logger.Info("batch loaded", "batch", m.BatchID(), "rows", len(rows))
	for _, t := range transforms {
		t.Start()
	}
}

// BatchID identifies the currently loaded batch.
func (m *Manager) BatchID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchID
}

// Len returns the number of rows in the current batch.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transforms)
}

// Transform returns the transform at the given row index.
func (m *Manager) Transform(i int) (*RowTransform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.transforms) {
		return nil, fmt.Errorf("%w: row index %d out of range", shared.ErrInvalidArgument, i)
	}
	return m.transforms[i], nil
}

// CanStart reports whether the row can be (re)started: false while it is
// queued or in flight.
func (m *Manager) CanStart(i int) bool {
	t, err := m.Transform(i)
	if err != nil {
		return false
	}
	return t.CanStart()
}

// Start restarts the row's transform, guarded by CanStart. Starting a queued
// or in-flight row is a no-op.
func (m *Manager) Start(i int) error {
	t, err := m.Transform(i)
	if err != nil {
		return err
	}
	t.Start()
	return nil
}

// Stop cancels the row's transform. Always permitted.
func (m *Manager) Stop(i int) error {
	t, err := m.Transform(i)
	if err != nil {
		return err
	}
	t.Stop()
	return nil
}

// States returns a snapshot of every row's current state, indexed by row.
func (m *Manager) States() []State {
	m.mu.Lock()
	transforms := m.transforms
	m.mu.Unlock()

	states := make([]State, len(transforms))
	for i, t := range transforms {
		states[i] = t.State()
	}
	return states
}

// Settled reports whether every row of the batch reached a terminal state.
func (m *Manager) Settled() bool {
	for _, st := range m.States() {
		if !st.Terminal() {
			return false
		}
	}
	return true
}

// Release tears the current batch down: every active transform's session is
// signalled. Called when the row set changes or the consumer shuts down.
func (m *Manager) Release() {
	m.mu.Lock()
	transforms := m.transforms
	m.mu.Unlock()

	for _, t := range transforms {
		t.Release()
	}
}
