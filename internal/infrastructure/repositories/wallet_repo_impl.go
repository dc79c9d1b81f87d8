package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	domainrepos "loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/internal/infrastructure/models"
)

// WalletRepository implements wallet and ledger data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) domainrepos.WalletRepository {
	return &WalletRepository{db: db}
}

// GetBalance returns the current balance. A user without a wallet row has a
// zero balance; the row is created lazily on first mutation.
func (r *WalletRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var m models.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.BalancePts, nil
}

// ApplyDelta atomically applies a balance delta and appends the ledger entry.
// The increment happens inside a single upsert statement, so two racing
// adjustments for the same user can never lose an update. A negative delta
// with allowNegative=false is guarded by the WHERE clause of the update and
// fails with ErrInsufficientFunds when the balance does not cover it.
func (r *WalletRepository) ApplyDelta(ctx context.Context, userID int64, delta int64, kind entities.TransactionKind, note, ref, idemKey string, allowNegative bool) (*entities.Transaction, error) {
	if idemKey != "" {
		if existing, err := r.FindTransactionByIdempotencyKey(ctx, userID, idemKey); err == nil {
			return existing, nil
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
	}

	var row models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var newBalance int64
		if delta >= 0 || allowNegative {
			res := tx.Raw(
				`INSERT INTO wallets (user_id, balance_pts, created_at, updated_at)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT (user_id) DO UPDATE
				 SET balance_pts = wallets.balance_pts + excluded.balance_pts, updated_at = excluded.updated_at
				 RETURNING balance_pts`,
				userID, delta, now, now,
			).Scan(&newBalance)
			if res.Error != nil {
				return res.Error
			}
		} else {
			res := tx.Raw(
				`UPDATE wallets
				 SET balance_pts = balance_pts + ?, updated_at = ?
				 WHERE user_id = ? AND balance_pts + ? >= 0
				 RETURNING balance_pts`,
				delta, now, userID, delta,
			).Scan(&newBalance)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domainerrors.ErrInsufficientFunds
			}
		}

		row = models.Transaction{
			UserID:         userID,
			Kind:           string(kind),
			DeltaPts:       delta,
			BalanceAfter:   newBalance,
			Ref:            nullString(ref),
			Note:           nullString(note),
			IdempotencyKey: nullString(idemKey),
			CreatedAt:      now,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		// A concurrent retry with the same key can hit the unique index after
		// our pre-check; the recorded transaction is the authoritative result.
		if idemKey != "" {
			if existing, lookupErr := r.FindTransactionByIdempotencyKey(ctx, userID, idemKey); lookupErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	return transactionToEntity(&row), nil
}

// FindTransactionByIdempotencyKey returns the transaction recorded for a
// caller-supplied idempotency key.
func (r *WalletRepository) FindTransactionByIdempotencyKey(ctx context.Context, userID int64, key string) (*entities.Transaction, error) {
	var m models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return transactionToEntity(&m), nil
}

// GetTransactions returns ledger entries newest-first with the total count.
func (r *WalletRepository) GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]*entities.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Transaction, 0, len(rows))
	for i := range rows {
		items = append(items, transactionToEntity(&rows[i]))
	}
	return items, total, nil
}

func transactionToEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:             m.ID,
		UserID:         m.UserID,
		Kind:           entities.TransactionKind(m.Kind),
		DeltaPts:       m.DeltaPts,
		BalanceAfter:   m.BalanceAfter,
		Ref:            m.Ref,
		Note:           m.Note,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
	}
}

func nullString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
