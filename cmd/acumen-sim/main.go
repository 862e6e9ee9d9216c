package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindloop/acumen/internal/simulate"
	"github.com/mindloop/acumen/pkg/logger"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8090", "engine base URL")
	users := flag.Int("users", 20, "number of synthetic users")
	events := flag.Int("events", 50, "events per user")
	resubmit := flag.Int("resubmit", 25, "events replayed to exercise idempotency")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := simulate.NewRunner(simulate.Config{
		BaseURL:       *baseURL,
		Users:         *users,
		EventsPerUser: *events,
		Resubmit:      *resubmit,
		Timeout:       *timeout,
	})
	if _, err := runner.Run(ctx); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
