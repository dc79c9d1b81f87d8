package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"loyalty-ledger.backend/internal/domain/entities"
)

type fakeIntentRepo struct {
	mu     sync.Mutex
	sweeps int
}

func (f *fakeIntentRepo) ExpireStale(_ context.Context, _ time.Time, _ int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return 1, nil
}

func (f *fakeIntentRepo) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

func (f *fakeIntentRepo) CreateIfNoneActive(context.Context, *entities.SpendIntent) (*entities.SpendIntent, error) {
	return nil, nil
}

func (f *fakeIntentRepo) GetActiveByUser(context.Context, int64) (*entities.SpendIntent, error) {
	return nil, nil
}

func (f *fakeIntentRepo) Consume(context.Context, int64, string) (*entities.Transaction, bool, error) {
	return nil, false, nil
}

func (f *fakeIntentRepo) Cancel(context.Context, int64, string) (bool, error) {
	return false, nil
}

func TestSpendIntentExpiryJob_SweepsPeriodically(t *testing.T) {
	repo := &fakeIntentRepo{}
	job := NewSpendIntentExpiryJob(repo)
	job.interval = 10 * time.Millisecond

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		return repo.sweepCount() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	job.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop")
	}
}

func TestSpendIntentExpiryJob_StopsOnContextCancel(t *testing.T) {
	repo := &fakeIntentRepo{}
	job := NewSpendIntentExpiryJob(repo)
	job.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop on context cancel")
	}
	assert.Equal(t, 0, repo.sweepCount())
}
