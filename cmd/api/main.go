package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"adminconsole/internal/config"
	httpx "adminconsole/internal/http"
	"adminconsole/internal/listquery"
	"adminconsole/internal/observability"
	sessionsvc "adminconsole/internal/services/session"
	"adminconsole/internal/services/views"
	redisstore "adminconsole/internal/store/redis"
	"adminconsole/internal/upstream"
)

func main() {
	cfg := config.Load()
	observability.SetupLogging(cfg.App.Env, cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Redis
	rdb := redisstore.MustOpen(ctx, cfg.Redis.Addr)
	defer rdb.Close()

	backend := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.TimeoutSec)
	metrics := observability.NewMetrics()

	manager := views.NewManager(views.DefaultRegistry(), backend, views.Options{
		CacheTTL:     cfg.Views.CacheTTL,
		FetchTimeout: time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		Debounce:     cfg.Views.SearchDebounce,
		Poll: listquery.PollPolicy{
			Interval:    cfg.Views.PollInterval,
			MaxAttempts: cfg.Views.PollMaxAttempts,
		},
		Registerer: metrics.Registerer(),
	})
	defer manager.Shutdown()
	metrics.TrackOpenViews(manager.Count)

	sessions := sessionsvc.NewService(redisstore.NewSessionRepository(rdb), backend, manager, cfg.Session.TTL, nil)

	// Close views whose clients went away
	reaper := views.NewReaper(manager, cfg.Views.IdleTTL, 0, nil)
	go reaper.Run(ctx)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:   cfg,
		Sessions: sessions,
		Views:    manager,
		Backend:  backend,
		Metrics:  metrics,
	})

	// No WriteTimeout: view event streams stay open.
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("upstream", cfg.Upstream.BaseURL).Msgf("admin console API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
