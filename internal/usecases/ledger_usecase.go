package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/pkg/cache"
	"loyalty-ledger.backend/pkg/logger"
	"loyalty-ledger.backend/pkg/metrics"
	"loyalty-ledger.backend/pkg/utils"
)

// Cache key layout. Masks are glob-style and travel over the invalidation
// broadcast, so every instance can clear its matching entries.
func balanceKey(userID int64) string {
	return fmt.Sprintf("wallet:balance:%d", userID)
}

func transactionsKey(userID int64, page, limit int) string {
	return fmt.Sprintf("wallet:txs:%d:p%d:l%d", userID, page, limit)
}

func transactionsMask(userID int64) string {
	return fmt.Sprintf("wallet:txs:%d:*", userID)
}

// TransactionPage is the cached shape of one transactions page
type TransactionPage struct {
	Items []*entities.Transaction `json:"items"`
	Meta  utils.PaginationMeta    `json:"meta"`
}

// LedgerUsecase handles wallet balance and transaction log business logic.
// Storage failures fail the call loudly; cache failures only cost speed.
type LedgerUsecase struct {
	walletRepo repositories.WalletRepository
	store      cache.Store
	ttls       CacheTTLs
}

// CacheTTLs carries the per-aggregate staleness bounds
type CacheTTLs struct {
	Balance      time.Duration
	Transactions time.Duration
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(walletRepo repositories.WalletRepository, store cache.Store, ttls CacheTTLs) *LedgerUsecase {
	return &LedgerUsecase{walletRepo: walletRepo, store: store, ttls: ttls}
}

// GetBalance returns the current balance, read-through cached.
func (u *LedgerUsecase) GetBalance(ctx context.Context, userID int64) (int64, error) {
	key := balanceKey(userID)
	if val, err := u.store.Get(ctx, key); err == nil {
		if balance, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
			metrics.CacheHits.Inc()
			return balance, nil
		}
	}
	metrics.CacheMisses.Inc()

	balance, err := u.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	u.writeBalance(ctx, userID, balance)
	return balance, nil
}

// AdjustBalance applies a delta classified by its sign. Negative deltas may
// not push the balance below zero; only AdminAdjust can.
func (u *LedgerUsecase) AdjustBalance(ctx context.Context, userID, delta int64, note, ref, idemKey string) (*entities.Transaction, error) {
	return u.apply(ctx, userID, delta, entities.KindForDelta(delta), note, ref, idemKey, false)
}

// AdminAdjust applies an explicit administrative adjustment. This is the only
// path that may take a balance negative.
func (u *LedgerUsecase) AdminAdjust(ctx context.Context, userID, delta int64, note, ref, idemKey string) (*entities.Transaction, error) {
	return u.apply(ctx, userID, delta, entities.TransactionKindAdjust, note, ref, idemKey, true)
}

func (u *LedgerUsecase) apply(ctx context.Context, userID, delta int64, kind entities.TransactionKind, note, ref, idemKey string, allowNegative bool) (*entities.Transaction, error) {
	if delta == 0 {
		return nil, domainerrors.ErrBadRequest
	}

	tx, err := u.walletRepo.ApplyDelta(ctx, userID, delta, kind, note, ref, idemKey, allowNegative)
	if err != nil {
		return nil, err
	}

	metrics.LedgerTransactions.WithLabelValues(string(tx.Kind)).Inc()
	u.RefreshAfterMutation(ctx, userID, tx.BalanceAfter)
	return tx, nil
}

// GetTransactions returns ledger entries newest-first, per-page cached.
func (u *LedgerUsecase) GetTransactions(ctx context.Context, userID int64, page, limit int) (*TransactionPage, error) {
	params := utils.GetPaginationParams(page, limit)
	key := transactionsKey(userID, params.Page, params.Limit)

	if val, err := u.store.Get(ctx, key); err == nil {
		var cached TransactionPage
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			metrics.CacheHits.Inc()
			return &cached, nil
		}
	}
	metrics.CacheMisses.Inc()

	items, total, err := u.walletRepo.GetTransactions(ctx, userID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}

	result := &TransactionPage{
		Items: items,
		Meta:  utils.CalculateMeta(total, params.Page, params.Limit),
	}
	if encoded, jsonErr := json.Marshal(result); jsonErr == nil {
		if cacheErr := u.store.Set(ctx, key, string(encoded), u.ttls.Transactions); cacheErr != nil {
			logger.Warn(ctx, "transaction page cache write failed", zap.Error(cacheErr))
		}
	}
	return result, nil
}

// RefreshAfterMutation overwrites the balance cache with the fresh value and
// broadcasts invalidation for the user's transaction pages. Best-effort: a
// failure here never fails the mutation that triggered it.
func (u *LedgerUsecase) RefreshAfterMutation(ctx context.Context, userID, newBalance int64) {
	u.writeBalance(ctx, userID, newBalance)

	mask := transactionsMask(userID)
	if err := u.store.DelPattern(ctx, mask); err != nil {
		logger.Warn(ctx, "local cache invalidation failed", zap.String("mask", mask), zap.Error(err))
	}
	if err := u.store.PublishInvalidation(ctx, mask); err != nil {
		logger.Warn(ctx, "cache invalidation broadcast failed", zap.String("mask", mask), zap.Error(err))
	}
}

func (u *LedgerUsecase) writeBalance(ctx context.Context, userID, balance int64) {
	key := balanceKey(userID)
	if err := u.store.Set(ctx, key, strconv.FormatInt(balance, 10), u.ttls.Balance); err != nil {
		logger.Warn(ctx, "balance cache write failed", zap.String("key", key), zap.Error(err))
	}
}
