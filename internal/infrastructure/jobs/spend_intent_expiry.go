package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/pkg/logger"
)

// SpendIntentExpiryJob sweeps active-but-expired spend intents to the
// expired status. Matching queries already exclude expired rows by
// timestamp, so this job is reporting hygiene, not a correctness dependency.
type SpendIntentExpiryJob struct {
	repo     repositories.SpendIntentRepository
	interval time.Duration
	stop     chan struct{}
}

func NewSpendIntentExpiryJob(repo repositories.SpendIntentRepository) *SpendIntentExpiryJob {
	return &SpendIntentExpiryJob{
		repo:     repo,
		interval: time.Minute,
		stop:     make(chan struct{}),
	}
}

func (j *SpendIntentExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "spend intent expiry job started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "spend intent expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "spend intent expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SpendIntentExpiryJob) Stop() {
	close(j.stop)
}

func (j *SpendIntentExpiryJob) sweep(ctx context.Context) {
	expired, err := j.repo.ExpireStale(ctx, time.Now().UTC(), 100)
	if err != nil {
		logger.Error(ctx, "expiring stale spend intents failed", zap.Error(err))
		return
	}
	if expired > 0 {
		logger.Info(ctx, "expired stale spend intents", zap.Int64("count", expired))
	}
}
