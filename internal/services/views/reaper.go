package views

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultIdleTTL   = 30 * time.Minute
	DefaultReapEvery = time.Minute
)

// Reaper closes views whose client went away without closing them.
type Reaper struct {
	manager   *Manager
	idle      time.Duration
	reapEvery time.Duration
	clock     clockwork.Clock
}

// NewReaper creates a reaper for the manager's views
func NewReaper(manager *Manager, idle, reapEvery time.Duration, clock clockwork.Clock) *Reaper {
	if idle <= 0 {
		idle = DefaultIdleTTL
	}
	if reapEvery <= 0 {
		reapEvery = DefaultReapEvery
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reaper{manager: manager, idle: idle, reapEvery: reapEvery, clock: clock}
}

// Run reaps idle views until ctx is cancelled
func (r *Reaper) Run(ctx context.Context) {
	log.Info().
		Dur("idle_ttl", r.idle).
		Dur("reap_every", r.reapEvery).
		Msg("view reaper started")

	ticker := r.clock.NewTicker(r.reapEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("view reaper stopping")
			return
		case <-ticker.Chan():
			if n := r.manager.Reap(r.clock.Now(), r.idle); n > 0 {
				log.Info().Int("closed", n).Int("open", r.manager.Count()).Msg("idle views closed")
			}
		}
	}
}
