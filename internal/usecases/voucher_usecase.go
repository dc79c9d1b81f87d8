package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/pkg/jwt"
	"loyalty-ledger.backend/pkg/logger"
	"loyalty-ledger.backend/pkg/metrics"
)

// VoucherUsecase handles voucher redemption business logic
type VoucherUsecase struct {
	voucherRepo repositories.VoucherRepository
	policy      *AccessPolicy
}

// NewVoucherUsecase creates a new voucher usecase
func NewVoucherUsecase(voucherRepo repositories.VoucherRepository, policy *AccessPolicy) *VoucherUsecase {
	return &VoucherUsecase{voucherRepo: voucherRepo, policy: policy}
}

// IssueVoucher creates a single-use voucher bound to a partner resource.
func (u *VoucherUsecase) IssueVoucher(ctx context.Context, ownerUserID, resourceID int64, ttl time.Duration) (*entities.Voucher, error) {
	if ttl <= 0 {
		return nil, domainerrors.ErrBadRequest
	}
	voucher := &entities.Voucher{
		Token:            uuid.NewString(),
		OwningResourceID: resourceID,
		OwnerUserID:      ownerUserID,
		ExpiresAt:        time.Now().UTC().Add(ttl),
	}
	if err := u.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// Redeem consumes a voucher exactly once. The hot path is a single
// conditional update; only when it affects zero rows does a follow-up read
// classify the failure reason.
func (u *VoucherUsecase) Redeem(ctx context.Context, claims *jwt.Claims, token string) (*entities.RedeemResult, error) {
	if token == "" {
		return nil, domainerrors.ErrBadRequest
	}
	if claims == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	// Admins bypass the ownership predicate; everyone else carries it inside
	// the conditional update's WHERE clause.
	requireOwner := !claims.IsAdmin()

	won, err := u.voucherRepo.RedeemConditional(ctx, token, claims.UserID, requireOwner)
	if err != nil {
		return nil, err
	}
	if won {
		metrics.VoucherRedemptions.WithLabelValues("ok").Inc()
		logger.Info(ctx, "voucher redeemed",
			zap.String("token", token),
			zap.Int64("actor_id", claims.UserID),
		)
		return &entities.RedeemResult{OK: true}, nil
	}

	reason, err := u.classifyFailure(ctx, claims, token)
	if err != nil {
		return nil, err
	}
	metrics.VoucherRedemptions.WithLabelValues(string(reason)).Inc()
	return &entities.RedeemResult{OK: false, Reason: reason}, nil
}

// classifyFailure is the cold path: it reads the voucher once to tell
// invalid, already_redeemed, expired and forbidden apart for error reporting.
func (u *VoucherUsecase) classifyFailure(ctx context.Context, claims *jwt.Claims, token string) (entities.RedeemReason, error) {
	voucher, err := u.voucherRepo.GetByToken(ctx, token)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return entities.RedeemReasonInvalid, nil
	}
	if err != nil {
		return "", err
	}

	switch {
	case voucher.IsRedeemed:
		return entities.RedeemReasonAlreadyRedeemed, nil
	case voucher.Expired(time.Now().UTC()):
		return entities.RedeemReasonExpired, nil
	case !u.policy.Evaluate(claims, ActionRedeemVoucher, Resource{OwnerUserID: voucher.OwnerUserID}):
		return entities.RedeemReasonForbidden, nil
	default:
		// The conditional update lost for none of the observable reasons;
		// treat the token as invalid rather than leak state.
		return entities.RedeemReasonInvalid, nil
	}
}
