package listquery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runUntil(policy PollPolicy, clock clockwork.Clock, ctx context.Context, pending func(context.Context) (bool, error)) <-chan error {
	done := make(chan error, 1)
	go func() { done <- policy.Until(ctx, clock, pending) }()
	return done
}

func TestUntilStopsWhenPredicateClears(t *testing.T) {
	clock := clockwork.NewFakeClock()
	policy := PollPolicy{Interval: time.Second, MaxAttempts: 5}
	evals := 0
	done := runUntil(policy, clock, context.Background(), func(context.Context) (bool, error) {
		evals++
		return evals < 2, nil
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
		clock.Advance(time.Second)
	}
	require.NoError(t, <-done)
	assert.Equal(t, 2, evals)
}

func TestUntilExhausts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	policy := PollPolicy{Interval: time.Second, MaxAttempts: 3}
	var mu sync.Mutex
	evals := 0
	done := runUntil(policy, clock, context.Background(), func(context.Context) (bool, error) {
		mu.Lock()
		evals++
		mu.Unlock()
		return true, nil
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
		clock.Advance(time.Second)
	}
	assert.ErrorIs(t, <-done, ErrPollExhausted)
	mu.Lock()
	assert.Equal(t, 3, evals)
	mu.Unlock()
}

func TestUntilReturnsPredicateError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	boom := errors.New("boom")
	done := runUntil(PollPolicy{Interval: time.Second, MaxAttempts: 3}, clock, context.Background(), func(context.Context) (bool, error) {
		return false, boom
	})
	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Second)
	assert.ErrorIs(t, <-done, boom)
}

func TestUntilHonoursContext(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	done := runUntil(DefaultPollPolicy(), clock, ctx, func(context.Context) (bool, error) {
		t.Error("predicate must not run before the first interval")
		return true, nil
	})
	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDebouncerDeliversLastValue(t *testing.T) {
	clock := clockwork.NewFakeClock()
	got := make(chan string, 4)
	d := NewDebouncer(clock, 500*time.Millisecond, func(v string) { got <- v })

	d.Set("a")
	clock.Advance(499 * time.Millisecond)
	d.Set("ab")
	clock.Advance(499 * time.Millisecond)
	d.Set("abc")
	assert.True(t, d.Pending())
	clock.Advance(500 * time.Millisecond)

	select {
	case v := <-got:
		assert.Equal(t, "abc", v)
	case <-time.After(waitFor):
		t.Fatal("debounced value not delivered")
	}
	require.Never(t, func() bool { return len(got) > 0 }, 30*time.Millisecond, tick)
	assert.False(t, d.Pending())
}

func TestDebouncerStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := make(chan string, 1)
	d := NewDebouncer(clock, time.Second, func(v string) { fired <- v })
	d.Set("x")
	d.Stop()
	d.Set("y")
	clock.Advance(time.Minute)
	require.Never(t, func() bool { return len(fired) > 0 }, 30*time.Millisecond, tick)
}

func TestKeyStringSeparatesNamespaces(t *testing.T) {
	a := newKey("project-lists", Request{Page: 1, Limit: 10, Filters: Filters{"status": "ACTIVE", "project_type": ""}})
	b := newKey("project-lists", Request{Page: 1, Limit: 10, Filters: Filters{"status": "ACTIVE"}})
	c := newKey("project-lists-archive", Request{Page: 1, Limit: 10, Filters: Filters{"status": "ACTIVE"}})

	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
	assert.NotContains(t, c.String(), namespacePrefix("project-lists"))
	assert.Contains(t, a.String(), `status="ACTIVE"`)
}
