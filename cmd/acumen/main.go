package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindloop/acumen/internal/adapters/http/api"
	"github.com/mindloop/acumen/internal/app"
	"github.com/mindloop/acumen/internal/config"
	"github.com/mindloop/acumen/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// The engine serves its own registry; keep the default Go collectors
	// from duplicating metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithShardCount(cfg.ShardCount),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithJournalQueueSize(cfg.JournalQueueSize),
		app.WithJournalWorkerCount(cfg.JournalWorkerCount),
		app.WithTierXP(cfg.TierXP),
		app.WithMinXP(cfg.MinXP),
		app.WithConversionFactor(cfg.ConversionFactor),
		app.WithDailySkillCap(cfg.DailySkillCapXP),
		app.WithWeeklyCategoryCaps(cfg.WeeklyCategoryCaps),
		app.WithDefaultWeeklyCap(cfg.DefaultWeeklyCategoryCap),
		app.WithDetoxTarget(cfg.DetoxTargetMinutes),
		app.WithWeeklySessionTarget(cfg.WeeklySessionTarget),
		app.WithRQConsistencyWindow(cfg.RQConsistencyWindow),
		app.WithRQInactivityThreshold(time.Duration(cfg.RQInactivityDays)*24*time.Hour),
		app.WithRQDecayPerWeek(cfg.RQDecayPerWeek),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown did not complete cleanly", logger.Error(err))
	}
}
