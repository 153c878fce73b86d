package history

import (
	"testing"

	"antipop/internal/circuit"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_KeepsMostRecentInOrder(t *testing.T) {
	s := NewSeries(DefaultCapacity)
	const n = 137
	for i := 0; i < n; i++ {
		s = s.Append(Sample{Time: float64(i), Voltage: float64(i % 7)})
	}

	require.Equal(t, DefaultCapacity, s.Len())
	got := s.Samples()
	for i, sample := range got {
		assert.Equal(t, float64(n-DefaultCapacity+i), sample.Time)
	}
}

func TestSeries_AppendDoesNotAlterPreviousValue(t *testing.T) {
	a := NewSeries(3).Append(Sample{Time: 1}).Append(Sample{Time: 2}).Append(Sample{Time: 3})
	before := a.Samples()

	b := a.Append(Sample{Time: 4})
	c := a.Append(Sample{Time: 5})

	if diff := cmp.Diff(before, a.Samples()); diff != "" {
		t.Fatalf("original series changed (-want +got):\n%s", diff)
	}
	want := []Sample{{Time: 2}, {Time: 3}, {Time: 4}}
	if diff := cmp.Diff(want, b.Samples()); diff != "" {
		t.Errorf("b mismatch (-want +got):\n%s", diff)
	}
	want = []Sample{{Time: 2}, {Time: 3}, {Time: 5}}
	if diff := cmp.Diff(want, c.Samples()); diff != "" {
		t.Errorf("c mismatch (-want +got):\n%s", diff)
	}
}

func TestSeries_Reset(t *testing.T) {
	s := NewSeries(5).Append(Sample{Time: 1}).Append(Sample{Time: 2})
	r := s.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 5, r.Capacity())
	assert.Equal(t, 2, s.Len())
	_, ok := r.Last()
	assert.False(t, ok)
}

func TestSeries_ZeroValueUsesDefaultCapacity(t *testing.T) {
	var s Series
	for i := 0; i < 60; i++ {
		s = s.Append(Sample{Time: float64(i)})
	}
	assert.Equal(t, DefaultCapacity, s.Len())
	assert.Equal(t, DefaultCapacity, NewSeries(-1).Capacity())
}

func TestSampleOf_RoundsTime(t *testing.T) {
	s := SampleOf(circuit.State{TimeElapsed: 1.2345, GatingVoltage: 21.4})
	assert.Equal(t, Sample{Time: 1.2, Voltage: 21.4}, s)
}

func TestPolicy_Record(t *testing.T) {
	steady := circuit.State{Powered: true, GatingVoltage: 21.4}

	s := NewSeries(10)
	for i := 0; i < 4; i++ {
		s = EveryTick.Record(s, steady)
	}
	assert.Equal(t, 4, s.Len())

	s = NewSeries(10)
	for i := 0; i < 4; i++ {
		s = OnChange.Record(s, steady)
	}
	assert.Equal(t, 1, s.Len())
	s = OnChange.Record(s, circuit.State{GatingVoltage: 0})
	assert.Equal(t, 2, s.Len())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, EveryTick, p)

	p, err = ParsePolicy("on_change")
	require.NoError(t, err)
	assert.Equal(t, OnChange, p)

	_, err = ParsePolicy("sometimes")
	assert.Error(t, err)
}
