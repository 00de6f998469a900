package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder[T any] struct {
	mu    sync.Mutex
	fired []SettledValue[T]
}

func (r *recorder[T]) fire(v SettledValue[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, v)
}

func (r *recorder[T]) values() []SettledValue[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SettledValue[T](nil), r.fired...)
}

func TestController_KeystrokesWithinWindowFireOnceWithLastValue(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder[string]{}
	c := New("", rec.fire, WithClock(clock))

	for _, v := range []string{"a", "al", "ali"} {
		c.Input(v)
		assert.Equal(t, Pending, c.State())
		clock.Advance(399 * time.Millisecond)
	}
	assert.Empty(t, rec.values())

	clock.Advance(time.Millisecond)

	fired := rec.values()
	require.Len(t, fired, 1)
	assert.Equal(t, "ali", fired[0].Value)
	assert.Equal(t, uint64(1), fired[0].Seq)
	assert.Equal(t, Settled, c.State())
	assert.Equal(t, 0, clock.Armed())
}

func TestController_SameSettledValueDoesNotFireAgain(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder[string]{}
	c := New("", rec.fire, WithClock(clock))

	c.Input("x")
	clock.Advance(DefaultDelay)
	c.Input("xy")
	c.Input("x")
	clock.Advance(DefaultDelay)

	fired := rec.values()
	require.Len(t, fired, 1)
	assert.Equal(t, "x", c.Last())
}

func TestController_ForgetLetsSameValueFireAgain(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder[string]{}
	c := New("", rec.fire, WithClock(clock))

	c.Input("x")
	clock.Advance(DefaultDelay)
	c.Forget()
	c.Input("x")
	clock.Advance(DefaultDelay)

	fired := rec.values()
	require.Len(t, fired, 2)
	assert.Equal(t, "x", fired[1].Value)
	assert.Equal(t, uint64(2), fired[1].Seq)

	c.Input("x")
	clock.Advance(DefaultDelay)
	assert.Len(t, rec.values(), 2)
}

func TestController_ReturningToInitialValueDoesNotFire(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder[string]{}
	c := New("", rec.fire, WithClock(clock))

	c.Input("a")
	c.Input("")
	clock.Advance(DefaultDelay)

	assert.Empty(t, rec.values())
}

func TestController_SequenceIsMonotonic(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder[int]{}
	c := New(0, rec.fire, WithClock(clock), WithDelay(100*time.Millisecond))

	for i := 1; i <= 3; i++ {
		c.Input(i)
		clock.Advance(100 * time.Millisecond)
	}

	fired := rec.values()
	require.Len(t, fired, 3)
	for i, f := range fired {
		assert.Equal(t, i+1, f.Value)
		assert.Equal(t, uint64(i+1), f.Seq)
	}
}

func TestController_FlushAndStop(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder[string]{}
	c := New("", rec.fire, WithClock(clock))

	assert.False(t, c.Flush())

	c.Input("now")
	assert.Equal(t, "now", c.Value())
	assert.True(t, c.Flush())
	require.Len(t, rec.values(), 1)

	clock.Advance(DefaultDelay)
	assert.Len(t, rec.values(), 1)

	c.Input("later")
	c.Stop()
	clock.Advance(DefaultDelay)
	c.Input("ignored")
	assert.Len(t, rec.values(), 1)
	assert.Equal(t, Settled, c.State())
}

func TestController_RealClock(t *testing.T) {
	done := make(chan SettledValue[string], 1)
	c := New("", func(v SettledValue[string]) { done <- v }, WithDelay(10*time.Millisecond))

	c.Input("a")
	c.Input("ab")

	select {
	case v := <-done:
		assert.Equal(t, "ab", v.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never settled")
	}
}

func TestSequence(t *testing.T) {
	var s Sequence
	first := s.Next()
	second := s.Next()

	assert.False(t, s.IsCurrent(first))
	assert.True(t, s.IsCurrent(second))
	assert.Equal(t, second, s.Current())
}
