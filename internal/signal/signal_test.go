package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeSet(t *testing.T) {
	s := New[int]()
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestLateSubscriberReceivesRetainedValue(t *testing.T) {
	s := New[string]()
	s.Set("first")
	s.Set("second")

	ch, cancel := s.Subscribe()
	defer cancel()
	assert.Equal(t, "second", <-ch)
}

func TestNewWithRetainsInitialValue(t *testing.T) {
	s := NewWith(42)
	v, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestFanOut(t *testing.T) {
	s := New[int]()
	a, cancelA := s.Subscribe()
	defer cancelA()
	b, cancelB := s.Subscribe()
	defer cancelB()

	s.Set(7)
	assert.Equal(t, 7, <-a)
	assert.Equal(t, 7, <-b)
}

func TestSlowSubscriberOnlyLosesIntermediateValues(t *testing.T) {
	s := New[int]()
	ch, cancel := s.Subscribe()
	defer cancel()

	// Nobody draining: later sets replace the buffered value.
	s.Set(1)
	s.Set(2)
	s.Set(3)
	assert.Equal(t, 3, <-ch)
}

func TestCancelClosesChannel(t *testing.T) {
	s := New[int]()
	ch, cancel := s.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Set after cancel must not panic or deliver.
	s.Set(1)
	cancel() // second cancel is a no-op
}
