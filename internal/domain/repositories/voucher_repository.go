package repositories

import (
	"context"

	"loyalty-ledger.backend/internal/domain/entities"
)

// VoucherRepository defines voucher data operations.
//
// RedeemConditional is simultaneously the check and the mutation: a single
// conditional update matching "not yet redeemed AND not expired", with the
// ownership predicate merged into the WHERE clause for non-admin actors.
// Exactly one of two concurrent attempts on the same token wins.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entities.Voucher) error
	GetByToken(ctx context.Context, token string) (*entities.Voucher, error)
	RedeemConditional(ctx context.Context, token string, actorID int64, requireOwner bool) (bool, error)
}
