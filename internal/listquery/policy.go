package listquery

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultPollInterval    = 3000 * time.Millisecond
	DefaultPollMaxAttempts = 8
)

// ErrPollExhausted is returned by PollPolicy.Until when the predicate was still
// true after MaxAttempts evaluations.
var ErrPollExhausted = errors.New("listquery: polling attempts exhausted")

var errStillPending = errors.New("listquery: still pending")

// PollPolicy is a fixed-interval, bounded re-check policy.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultPollPolicy polls every 3s, 8 times at most.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Interval: DefaultPollInterval, MaxAttempts: DefaultPollMaxAttempts}
}

func (p PollPolicy) normalized() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPollMaxAttempts
	}
	return p
}

// Until waits Interval, then evaluates pending, and repeats while it reports true.
// The caller has already observed the pending condition once, so the first
// evaluation happens only after the first interval.
//
// It returns nil when pending reports false, ErrPollExhausted after MaxAttempts
// evaluations that all reported true, the predicate's error if it fails, or the
// context error.
func (p PollPolicy) Until(ctx context.Context, clock clockwork.Clock, pending func(context.Context) (bool, error)) error {
	p = p.normalized()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(p.MaxAttempts)),
		ctx,
	)

	observed := false
	op := func() error {
		if !observed {
			observed = true
			return errStillPending
		}
		still, err := pending(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if still {
			return errStillPending
		}
		return nil
	}

	err := backoff.RetryNotifyWithTimer(op, b, nil, &clockTimer{clock: clock})
	if errors.Is(err, errStillPending) {
		return ErrPollExhausted
	}
	return err
}

// clockTimer adapts a clockwork clock to backoff.Timer.
type clockTimer struct {
	clock clockwork.Clock
	timer clockwork.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = t.clock.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.Chan()
}
