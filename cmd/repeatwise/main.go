// Command repeatwise hosts the scheduling engine as a long-running process.
// The transport surface (HTTP, RPC) is owned by the embedding service; this
// host wires the engine against PostgreSQL and runs the session-expiry sweep,
// the one piece of time-based policy the engine itself refuses to own.
//
// Exit codes: 0 = clean shutdown, 1 = startup error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/ntgptit/repeatwise-sub002/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer a.Close()

	idle := a.Cfg.SRS.SessionIdleTimeout
	ticker := time.NewTicker(idle / 4)
	defer ticker.Stop()

	a.Log.Info("host running",
		slog.Duration("session_idle_timeout", idle),
	)

	for {
		select {
		case <-ctx.Done():
			a.Log.Info("shutting down")
			return
		case <-ticker.C:
			if n := a.Engine.ExpireSessions(time.Now().Add(-idle)); n > 0 {
				a.Log.Info("idle sessions expired", slog.Int("count", n))
			}
		}
	}
}
