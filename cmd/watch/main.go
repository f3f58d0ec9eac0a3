// Command watch follows one submission from the terminal: it polls the
// backend's REST API until the submission reaches a terminal status, the
// poll times out, or the user interrupts.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"github.com/arenaoj/backend/conf"
	"github.com/arenaoj/backend/http"
	"github.com/arenaoj/backend/poll"
	"github.com/arenaoj/backend/subm"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	baseURL := flag.String("url", "http://localhost:8080", "backend base url")
	cfgPath := flag.String("config", "config.toml", "config file path")
	flag.Parse()

	if flag.NArg() != 1 {
		slog.Error("usage: watch [-url ...] [-config ...] <submission-uuid>")
		os.Exit(2)
	}
	id, err := uuid.Parse(flag.Arg(0))
	if err != nil {
		slog.Error("invalid submission uuid", "error", err)
		os.Exit(2)
	}

	pollCfg := poll.Config{}
	if cfg, err := conf.Read(*cfgPath); err == nil {
		pollCfg = cfg.PollConfig()
	} else {
		slog.Warn("using default poll config", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	coord := poll.NewCoordinator()
	session := coord.StartPolling(ctx, http.NewClient(*baseURL), id, poll.Callbacks{
		OnUpdate: func(snapshot *subm.Submission, err error) {
			if err != nil {
				slog.Warn("poll update", "error", err)
				return
			}
			slog.Info("poll update",
				"status", snapshot.Status, "score", snapshot.Score,
				"cases", len(snapshot.TestRes))
		},
		OnComplete: func(final *subm.Submission) {
			slog.Info("submission graded",
				"status", final.Status, "score", final.Score)
		},
	}, pollCfg)
	if session == nil {
		slog.Error("no poll session started")
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
		session.Stop()
		<-session.Done()
	case <-session.Done():
	}
}
