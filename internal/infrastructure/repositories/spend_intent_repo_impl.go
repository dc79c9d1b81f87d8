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

// errConsumeRejected marks a consumption that failed one of the conditional
// guards; it forces the transaction rollback and is never surfaced.
var errConsumeRejected = errors.New("spend intent consume rejected")

// SpendIntentRepository implements spend intent data operations
type SpendIntentRepository struct {
	db *gorm.DB
}

// NewSpendIntentRepository creates a new spend intent repository
func NewSpendIntentRepository(db *gorm.DB) domainrepos.SpendIntentRepository {
	return &SpendIntentRepository{db: db}
}

// CreateIfNoneActive inserts the intent only if the user has no active
// unexpired intent, as a single conditional statement. Returns nil when an
// active intent is already pending.
func (r *SpendIntentRepository) CreateIfNoneActive(ctx context.Context, intent *entities.SpendIntent) (*entities.SpendIntent, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO spend_intents (user_id, token, amount_pts, status, created_at, expires_at)
		 SELECT ?, ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (
			SELECT 1 FROM spend_intents
			WHERE user_id = ? AND status = ? AND expires_at > ?
		 )`,
		intent.UserID, intent.Token, intent.AmountPts, string(entities.SpendIntentStatusActive), now, intent.ExpiresAt,
		intent.UserID, string(entities.SpendIntentStatusActive), now,
	)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var m models.SpendIntent
	if err := r.db.WithContext(ctx).Where("token = ?", intent.Token).First(&m).Error; err != nil {
		return nil, err
	}
	return spendIntentToEntity(&m), nil
}

// GetActiveByUser returns the user's active unexpired intent, if any.
func (r *SpendIntentRepository) GetActiveByUser(ctx context.Context, userID int64) (*entities.SpendIntent, error) {
	var m models.SpendIntent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expires_at > ?",
			userID, string(entities.SpendIntentStatusActive), time.Now().UTC()).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return spendIntentToEntity(&m), nil
}

// Consume marks the intent consumed, deducts the balance and appends the
// redeem ledger entry as one storage transaction. All three statements carry
// their own conditions; any of them affecting zero rows rolls the whole unit
// back and reports a clean "not consumed".
func (r *SpendIntentRepository) Consume(ctx context.Context, userID int64, token string) (*entities.Transaction, bool, error) {
	var row models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var intent models.SpendIntent
		err := tx.Where("user_id = ? AND token = ? AND status = ? AND expires_at > ?",
			userID, token, string(entities.SpendIntentStatusActive), now).
			First(&intent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errConsumeRejected
		}
		if err != nil {
			return err
		}

		// Status guard repeated here: of two concurrent consumers only one
		// sees RowsAffected == 1.
		res := tx.Model(&models.SpendIntent{}).
			Where("id = ? AND status = ?", intent.ID, string(entities.SpendIntentStatusActive)).
			Updates(map[string]interface{}{
				"status":      string(entities.SpendIntentStatusConsumed),
				"consumed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConsumeRejected
		}

		var newBalance int64
		bal := tx.Raw(
			`UPDATE wallets
			 SET balance_pts = balance_pts - ?, updated_at = ?
			 WHERE user_id = ? AND balance_pts >= ?
			 RETURNING balance_pts`,
			intent.AmountPts, now, userID, intent.AmountPts,
		).Scan(&newBalance)
		if bal.Error != nil {
			return bal.Error
		}
		if bal.RowsAffected == 0 {
			return errConsumeRejected
		}

		row = models.Transaction{
			UserID:       userID,
			Kind:         string(entities.TransactionKindRedeem),
			DeltaPts:     -intent.AmountPts,
			BalanceAfter: newBalance,
			Ref:          null.StringFrom("spend_intent:" + intent.Token),
			Note:         null.StringFrom("spend intent redemption"),
			CreatedAt:    now,
		}
		return tx.Create(&row).Error
	})
	if errors.Is(err, errConsumeRejected) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return transactionToEntity(&row), true, nil
}

// Cancel transitions an active intent to canceled.
func (r *SpendIntentRepository) Cancel(ctx context.Context, userID int64, token string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.SpendIntent{}).
		Where("user_id = ? AND token = ? AND status = ?",
			userID, token, string(entities.SpendIntentStatusActive)).
		Update("status", string(entities.SpendIntentStatusCanceled))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExpireStale sweeps active-but-expired rows to expired for reporting.
// Correctness never depends on this: every matching query already excludes
// expired rows by timestamp.
func (r *SpendIntentRepository) ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE spend_intents SET status = ?
		 WHERE id IN (
			SELECT id FROM spend_intents
			WHERE status = ? AND expires_at <= ?
			LIMIT ?
		 )`,
		string(entities.SpendIntentStatusExpired),
		string(entities.SpendIntentStatusActive), now, limit,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func spendIntentToEntity(m *models.SpendIntent) *entities.SpendIntent {
	return &entities.SpendIntent{
		ID:         m.ID,
		UserID:     m.UserID,
		Token:      m.Token,
		AmountPts:  m.AmountPts,
		Status:     entities.SpendIntentStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		ExpiresAt:  m.ExpiresAt,
		ConsumedAt: m.ConsumedAt,
	}
}
