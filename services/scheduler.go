package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSessionSweeper evicts idle tournament sessions from memory on a fixed interval.
// The caller owns the returned scheduler and must Shutdown it.
func StartSessionSweeper(svc CardsService, interval, idleTTL time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := svc.EvictIdle(idleTTL); n > 0 {
				logger.Info("idle cards sessions evicted", slog.Int("count", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule session sweeper: %w", err)
	}

	sched.Start()
	logger.Info("session sweeper started", slog.Duration("interval", interval), slog.Duration("idle_ttl", idleTTL))
	return sched, nil
}
