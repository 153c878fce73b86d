// Package session owns the live simulation: one circuit state, its voltage
// history and the parameters that drive it. State is replaced whole, under a
// single lock, by either the tick loop or the power toggle; parameter changes
// are queued and picked up at the next tick boundary.
package session

import (
	"sync"

	"antipop/internal/circuit"
	"antipop/internal/history"
	"antipop/internal/logging"

	"github.com/google/uuid"
)

// Snapshot is an immutable copy of the session at a committed tick.
type Snapshot struct {
	Tick    uint64
	State   circuit.State
	Samples []history.Sample
	Params  circuit.Params
}

// Playing reports whether the amplifier is unmuted in this snapshot.
func (s Snapshot) Playing() bool {
	return s.State.Playing(s.Params)
}

// Options configures a new Session.
type Options struct {
	Params          circuit.Params
	HistoryCapacity int
	Policy          history.Policy
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Params:          circuit.DefaultParams(),
		HistoryCapacity: history.DefaultCapacity,
		Policy:          history.EveryTick,
	}
}

// Session is the explicit state container for one display session.
type Session struct {
	id string

	// commitMu spans commit and publish so subscribers see commits in order
	commitMu sync.Mutex

	mu     sync.RWMutex
	tick   uint64
	state  circuit.State
	series history.Series
	params circuit.Params
	policy history.Policy

	// Parameters waiting for the next tick boundary; latest wins
	pendingMu sync.Mutex
	pending   *circuit.Params

	subsMu  sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a session in the initial unpowered state.
func New(opts Options) (*Session, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.Policy == "" {
		opts.Policy = history.EveryTick
	}

	s := &Session{
		id:     uuid.New().String(),
		state:  circuit.Initial(),
		series: history.NewSeries(opts.HistoryCapacity),
		params: opts.Params,
		policy: opts.Policy,
		subs:   make(map[int]chan Snapshot),
	}
	logging.Session("Session %s created (tick=%v policy=%s capacity=%d)",
		s.id, opts.Params.Tick, opts.Policy, s.series.Capacity())
	return s, nil
}

// ID is the session's UUID, used to key persisted chat turns.
func (s *Session) ID() string { return s.id }

// TogglePower flips the power input and clears the history series,
// whichever direction the flip goes. Derived fields follow on the next tick.
func (s *Session) TogglePower() Snapshot {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	s.state = s.state.TogglePower()
	s.series = s.series.Reset()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	logging.Session("Session %s: power toggled %s at t=%.2fs", s.id, onOff(snap.State.Powered), snap.State.TimeElapsed)
	s.publish(snap)
	return snap
}

// SetParams validates p and queues it to take effect at the next tick.
func (s *Session) SetParams(p circuit.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.pendingMu.Lock()
	s.pending = &p
	s.pendingMu.Unlock()
	return nil
}

// Snapshot returns the last committed state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Tick:    s.tick,
		State:   s.state,
		Samples: s.series.Samples(),
		Params:  s.params,
	}
}

// Advance runs n ticks synchronously and returns the final snapshot. It is
// meant for headless runs and tests; do not mix it with a running loop.
func (s *Session) Advance(n int) Snapshot {
	for i := 0; i < n; i++ {
		s.processTick()
	}
	return s.Snapshot()
}

// processTick applies pending parameters, steps the circuit once, records
// the history sample and publishes the result.
func (s *Session) processTick() {
	pending := s.takePending()

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if pending != nil {
		s.params = *pending
		logging.Session("Session %s: params updated (threshold=%.2f rate=%.3f tick=%v)",
			s.id, pending.ChargeThreshold, pending.ChargeRate, pending.Tick)
	}
	s.state = circuit.Step(s.state, s.params)
	s.series = s.policy.Record(s.series, s.state)
	s.tick++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	st := snap.State
	logging.SimDebug("tick=%d powered=%v charge=%.3f q1=%s sdz=%.2f",
		snap.Tick, st.Powered, st.CapacitorCharge, st.Transistor, st.GatingVoltage)
	s.publish(snap)
}

func (s *Session) takePending() *circuit.Params {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
