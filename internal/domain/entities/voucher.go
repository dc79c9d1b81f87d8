package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// RedeemReason explains a failed voucher redemption
type RedeemReason string

const (
	RedeemReasonInvalid         RedeemReason = "invalid"
	RedeemReasonForbidden       RedeemReason = "forbidden"
	RedeemReasonAlreadyRedeemed RedeemReason = "already_redeemed"
	RedeemReasonExpired         RedeemReason = "expired"
)

// Voucher is a single-use redemption token bound to a partner-owned resource.
// IsRedeemed transitions false to true exactly once, gated by expiry.
type Voucher struct {
	Token            string    `json:"token"`
	OwningResourceID int64     `json:"owningResourceId"`
	OwnerUserID      int64     `json:"ownerUserId"`
	IsRedeemed       bool      `json:"isRedeemed"`
	RedeemedAt       null.Time `json:"redeemedAt,omitempty"`
	RedeemedBy       null.Int64 `json:"redeemedBy,omitempty"`
	ExpiresAt        time.Time `json:"expiresAt"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Expired reports whether the voucher is past its expiry at the given
// instant. The comparison is strict: a voucher expiring exactly now is no
// longer redeemable.
func (v *Voucher) Expired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}

// RedeemResult is the structured outcome of a redemption attempt.
// Expected business outcomes are never transported as errors.
type RedeemResult struct {
	OK     bool         `json:"ok"`
	Reason RedeemReason `json:"reason,omitempty"`
}

// RedeemVoucherInput represents input for redeeming a voucher
type RedeemVoucherInput struct {
	Token string `json:"token" binding:"required"`
}
