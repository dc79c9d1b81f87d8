package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/pkg/logger"
	"loyalty-ledger.backend/pkg/metrics"
)

const defaultIntentTTL = 15 * time.Minute

// SpendIntentUsecase handles spend intent business logic
type SpendIntentUsecase struct {
	intentRepo repositories.SpendIntentRepository
	walletRepo repositories.WalletRepository
	ledger     *LedgerUsecase
}

// NewSpendIntentUsecase creates a new spend intent usecase
func NewSpendIntentUsecase(intentRepo repositories.SpendIntentRepository, walletRepo repositories.WalletRepository, ledger *LedgerUsecase) *SpendIntentUsecase {
	return &SpendIntentUsecase{
		intentRepo: intentRepo,
		walletRepo: walletRepo,
		ledger:     ledger,
	}
}

// CreateSpendIntent creates a single-active-per-user redemption authorization.
// The balance must cover the amount and no active intent may exist; both
// rejections are structured results, not errors.
func (u *SpendIntentUsecase) CreateSpendIntent(ctx context.Context, userID, amountPts int64, ttl time.Duration) (*entities.SpendIntentResult, error) {
	if amountPts <= 0 {
		return nil, domainerrors.ErrBadRequest
	}
	if ttl <= 0 {
		ttl = defaultIntentTTL
	}

	// Balance read goes straight to storage; the cached value is allowed to
	// be stale but an authorization check is not.
	balance, err := u.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < amountPts {
		return &entities.SpendIntentResult{OK: false, Code: entities.IntentCodeInsufficientBalance}, nil
	}

	intent := &entities.SpendIntent{
		UserID:    userID,
		Token:     uuid.NewString(),
		AmountPts: amountPts,
		Status:    entities.SpendIntentStatusActive,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	created, err := u.intentRepo.CreateIfNoneActive(ctx, intent)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return &entities.SpendIntentResult{OK: false, Code: entities.IntentCodePending}, nil
	}

	logger.Info(ctx, "spend intent created",
		zap.Int64("user_id", userID),
		zap.Int64("amount_pts", amountPts),
		zap.Time("expires_at", created.ExpiresAt),
	)
	return &entities.SpendIntentResult{OK: true, Code: entities.IntentCodeOK, Intent: created}, nil
}

// GetActiveIntent returns the user's pending intent, if any.
func (u *SpendIntentUsecase) GetActiveIntent(ctx context.Context, userID int64) (*entities.SpendIntent, error) {
	return u.intentRepo.GetActiveByUser(ctx, userID)
}

// ConsumeSpendIntent redeems an active intent exactly once. A repeated call
// with the same token, an expired intent or an insufficient balance all
// produce ok=false with no partial effects.
func (u *SpendIntentUsecase) ConsumeSpendIntent(ctx context.Context, userID int64, token string) (*entities.ConsumeResult, error) {
	if token == "" {
		return nil, domainerrors.ErrBadRequest
	}

	tx, consumed, err := u.intentRepo.Consume(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return &entities.ConsumeResult{OK: false, Code: entities.IntentCodeNoActiveIntent}, nil
	}

	metrics.LedgerTransactions.WithLabelValues(string(entities.TransactionKindRedeem)).Inc()
	u.ledger.RefreshAfterMutation(ctx, userID, tx.BalanceAfter)

	logger.Info(ctx, "spend intent consumed",
		zap.Int64("user_id", userID),
		zap.Int64("delta_pts", tx.DeltaPts),
		zap.Int64("balance_after", tx.BalanceAfter),
	)
	return &entities.ConsumeResult{OK: true, Code: entities.IntentCodeOK, Balance: tx.BalanceAfter}, nil
}

// CancelSpendIntent explicitly cancels an active intent.
func (u *SpendIntentUsecase) CancelSpendIntent(ctx context.Context, userID int64, token string) (bool, error) {
	if token == "" {
		return false, domainerrors.ErrBadRequest
	}
	canceled, err := u.intentRepo.Cancel(ctx, userID, token)
	if err != nil {
		return false, err
	}
	return canceled, nil
}
