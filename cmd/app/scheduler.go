package main

import (
	"fmt"
	"time"

	"verm_airdrop/internal/ratelimit"
	"verm_airdrop/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// startScheduler runs background jobs. The purge job is only registered when
// rate limit counters live in process memory.
func startScheduler(purgeInterval time.Duration, limiterStore *ratelimit.MemoryStore) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	if limiterStore != nil {
		_, err = sched.NewJob(
			gocron.DurationJob(purgeInterval),
			gocron.NewTask(func() {
				if purged := limiterStore.Purge(); purged > 0 {
					logger.Logger().Debug("purged expired rate limit windows", zap.Int("count", purged))
				}
			}),
			gocron.WithName("ratelimit-purge"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule rate limit purge: %w", err)
		}
	}

	sched.Start()

	return sched, nil
}
