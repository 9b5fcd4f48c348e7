// Command remind logs every user that has due cards today, with their due
// count. It is intended to be invoked by an external cron job that feeds a
// notification pipeline; the delivery channel itself lives outside this repo.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ntgptit/repeatwise-sub002/internal/app"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	reminders, err := a.Engine.DueReminders(ctx, "")
	if err != nil {
		a.Log.Error("collect due reminders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, r := range reminders {
		a.Log.Info("due reminder",
			slog.String("user_id", r.UserID.String()),
			slog.Int("due_count", r.DueCount),
		)
	}

	a.Log.Info("reminder scan completed", slog.Int("users", len(reminders)))
}
