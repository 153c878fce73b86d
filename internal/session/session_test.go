package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"antipop/internal/circuit"
	"antipop/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestNewStartsUnpowered(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, uint64(0), snap.Tick)
	assert.Equal(t, circuit.Initial(), snap.State)
	assert.Empty(t, snap.Samples)
	assert.False(t, snap.Playing())
}

func TestNewRejectsInvalidParams(t *testing.T) {
	opts := DefaultOptions()
	opts.Params.ChargeRate = 0
	_, err := New(opts)
	assert.True(t, errors.Is(err, circuit.ErrInvalidParams))
}

func TestTogglePowerClearsHistory(t *testing.T) {
	s := newTestSession(t)

	snap := s.Advance(10)
	require.Len(t, snap.Samples, 10)

	snap = s.TogglePower()
	assert.True(t, snap.State.Powered)
	assert.Empty(t, snap.Samples)

	snap = s.Advance(5)
	assert.Len(t, snap.Samples, 5)
	assert.InDelta(t, 0.10, snap.State.CapacitorCharge, 1e-9)
	assert.Equal(t, circuit.TransistorOn, snap.State.Transistor)

	// Turning off clears it again.
	snap = s.TogglePower()
	assert.False(t, snap.State.Powered)
	assert.Empty(t, snap.Samples)
}

func TestHistoryBoundedAndChronological(t *testing.T) {
	s := newTestSession(t)
	s.TogglePower()

	snap := s.Advance(137)
	require.Len(t, snap.Samples, history.DefaultCapacity)
	for i := 1; i < len(snap.Samples); i++ {
		assert.LessOrEqual(t, snap.Samples[i-1].Time, snap.Samples[i].Time)
	}
	last := snap.Samples[len(snap.Samples)-1]
	assert.InDelta(t, snap.State.GatingVoltage, last.Voltage, 1e-9)
}

func TestPowerUpUnmutesAfterThreshold(t *testing.T) {
	s := newTestSession(t)
	s.TogglePower()

	snap := s.Advance(41)
	assert.Equal(t, circuit.TransistorOn, snap.State.Transistor)
	assert.False(t, snap.Playing())

	snap = s.Advance(2)
	assert.Equal(t, circuit.TransistorOff, snap.State.Transistor)
	assert.InDelta(t, 21.4, snap.State.GatingVoltage, 0.05)
	assert.True(t, snap.Playing())
}

func TestAdvanceIsDeterministic(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	a.TogglePower()
	b.TogglePower()

	sa := a.Advance(75)
	sb := b.Advance(75)
	assert.Equal(t, sa.State, sb.State)
	assert.Equal(t, sa.Samples, sb.Samples)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSetParamsAppliesAtNextTick(t *testing.T) {
	s := newTestSession(t)
	s.TogglePower()

	p := circuit.DefaultParams()
	p.ChargeRate = 0.5
	require.NoError(t, s.SetParams(p))

	// Nothing changes until a tick commits.
	assert.Equal(t, circuit.DefaultParams(), s.Snapshot().Params)

	snap := s.Advance(1)
	assert.Equal(t, 0.5, snap.Params.ChargeRate)
	assert.InDelta(t, 0.5, snap.State.CapacitorCharge, 1e-9)
}

func TestSetParamsLatestWins(t *testing.T) {
	s := newTestSession(t)

	first := circuit.DefaultParams()
	first.ChargeThreshold = 0.5
	second := circuit.DefaultParams()
	second.ChargeThreshold = 0.6
	require.NoError(t, s.SetParams(first))
	require.NoError(t, s.SetParams(second))

	snap := s.Advance(1)
	assert.Equal(t, 0.6, snap.Params.ChargeThreshold)
}

func TestSetParamsRejectsInvalid(t *testing.T) {
	s := newTestSession(t)
	p := circuit.DefaultParams()
	p.ChargeThreshold = 1.5

	err := s.SetParams(p)
	assert.True(t, errors.Is(err, circuit.ErrInvalidParams))
	assert.Equal(t, circuit.DefaultParams(), s.Advance(1).Params)
}

func TestOnChangePolicySkipsSteadyState(t *testing.T) {
	opts := DefaultOptions()
	opts.Policy = history.OnChange
	s, err := New(opts)
	require.NoError(t, err)

	// Unpowered and fully discharged: SDZ stays at 0 V.
	snap := s.Advance(20)
	assert.Len(t, snap.Samples, 1)
}

func TestSubscribeLatestWins(t *testing.T) {
	s := newTestSession(t)
	ch, cancel := s.Subscribe()
	assert.Equal(t, 1, s.Subscribers())

	s.Advance(5)

	got := <-ch
	assert.Equal(t, uint64(5), got.Tick)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued snapshot at tick %d", extra.Tick)
	default:
	}

	cancel()
	cancel()
	assert.Equal(t, 0, s.Subscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestSubscribeSeesToggle(t *testing.T) {
	s := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.TogglePower()
	got := <-ch
	assert.True(t, got.State.Powered)
	assert.Equal(t, uint64(0), got.Tick)
}

func TestTogglesAndTicksPublishInCommitOrder(t *testing.T) {
	for round := 0; round < 20; round++ {
		s := fastSession(t)
		ch, cancel := s.Subscribe()
		require.NoError(t, s.Start(context.Background()))

		for i := 0; i < 25; i++ {
			s.TogglePower()
			time.Sleep(200 * time.Microsecond)
		}
		s.Stop()

		// Nobody read the channel, so it holds the last published snapshot.
		var last Snapshot
		select {
		case last = <-ch:
		default:
			t.Fatal("no snapshot published")
		}
		final := s.Snapshot()
		assert.Equal(t, final.Tick, last.Tick)
		assert.Equal(t, final.State, last.State)
		assert.Equal(t, final.Samples, last.Samples)
		cancel()
	}
}

func fastSession(t *testing.T) *Session {
	t.Helper()
	opts := DefaultOptions()
	opts.Params.Tick = time.Millisecond
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func TestStartStop(t *testing.T) {
	s := fastSession(t)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), ErrAlreadyRunning)

	require.Eventually(t, func() bool {
		return s.Snapshot().Tick >= 10
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := s.Snapshot().Tick
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, s.Snapshot().Tick)

	// Stop is idempotent and the loop can be restarted.
	s.Stop()
	require.NoError(t, s.Start(ctx))
	s.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	s := newTestSession(t)
	assert.NotPanics(t, s.Stop)
}

func TestRunClosesSubscribersOnCancel(t *testing.T) {
	s := fastSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case snap := <-ch:
		assert.Greater(t, snap.Tick, uint64(0))
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}

	stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	// Drain whatever was buffered; the channel must end closed.
	for range ch {
	}
	assert.Equal(t, 0, s.Subscribers())
}

func TestTickPeriodFollowsParams(t *testing.T) {
	s := fastSession(t)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	p := circuit.DefaultParams()
	p.Tick = 2 * time.Millisecond
	require.NoError(t, s.SetParams(p))

	require.Eventually(t, func() bool {
		return s.Snapshot().Params.Tick == 2*time.Millisecond
	}, 2*time.Second, 5*time.Millisecond)
}
