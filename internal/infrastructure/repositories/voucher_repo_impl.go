package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	domainrepos "loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/internal/infrastructure/models"
)

// VoucherRepository implements voucher data operations
type VoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domainrepos.VoucherRepository {
	return &VoucherRepository{db: db}
}

// Create stores a voucher issued by the partner surface.
func (r *VoucherRepository) Create(ctx context.Context, voucher *entities.Voucher) error {
	m := &models.Voucher{
		Token:            voucher.Token,
		OwningResourceID: voucher.OwningResourceID,
		OwnerUserID:      voucher.OwnerUserID,
		IsRedeemed:       voucher.IsRedeemed,
		ExpiresAt:        voucher.ExpiresAt,
		CreatedAt:        time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	voucher.CreatedAt = m.CreatedAt
	return nil
}

// GetByToken gets a voucher by token
func (r *VoucherRepository) GetByToken(ctx context.Context, token string) (*entities.Voucher, error) {
	var m models.Voucher
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return voucherToEntity(&m), nil
}

// RedeemConditional flips is_redeemed false->true in one conditional update.
// The statement is both the check and the mutation: expiry uses a strict
// inequality (a voucher expiring exactly now is no longer redeemable) and,
// when requireOwner is set, the ownership predicate lives in the same WHERE
// clause so no ownership change can slip between check and act.
func (r *VoucherRepository) RedeemConditional(ctx context.Context, token string, actorID int64, requireOwner bool) (bool, error) {
	now := time.Now().UTC()
	q := r.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("token = ? AND is_redeemed = ? AND expires_at > ?", token, false, now)
	if requireOwner {
		q = q.Where("owner_user_id = ?", actorID)
	}

	res := q.Updates(map[string]interface{}{
		"is_redeemed": true,
		"redeemed_at": now,
		"redeemed_by": actorID,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func voucherToEntity(m *models.Voucher) *entities.Voucher {
	return &entities.Voucher{
		Token:            m.Token,
		OwningResourceID: m.OwningResourceID,
		OwnerUserID:      m.OwnerUserID,
		IsRedeemed:       m.IsRedeemed,
		RedeemedAt:       m.RedeemedAt,
		RedeemedBy:       m.RedeemedBy,
		ExpiresAt:        m.ExpiresAt,
		CreatedAt:        m.CreatedAt,
	}
}
