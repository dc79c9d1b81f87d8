package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// TransactionKind classifies a ledger entry
type TransactionKind string

const (
	TransactionKindAccrual TransactionKind = "accrual"
	TransactionKindRedeem  TransactionKind = "redeem"
	TransactionKindAdjust  TransactionKind = "adjust"
)

// KindForDelta derives the transaction kind from the sign of the delta.
func KindForDelta(delta int64) TransactionKind {
	if delta >= 0 {
		return TransactionKindAccrual
	}
	return TransactionKindRedeem
}

// Wallet represents a user's durable point balance.
// The balance is a materialized cache of the sum of all transaction deltas.
type Wallet struct {
	UserID     int64     `json:"userId"`
	BalancePts int64     `json:"balancePts"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Transaction is an immutable ledger entry. BalanceAfter carries the wallet
// balance immediately after the delta was applied.
type Transaction struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Kind           TransactionKind `json:"kind"`
	DeltaPts       int64           `json:"deltaPts"`
	BalanceAfter   int64           `json:"balanceAfter"`
	Ref            null.String     `json:"ref,omitempty"`
	Note           null.String     `json:"note,omitempty"`
	IdempotencyKey null.String     `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AdjustBalanceInput represents input for an administrative balance adjustment
type AdjustBalanceInput struct {
	DeltaPts int64  `json:"deltaPts" binding:"required"`
	Note     string `json:"note"`
	Ref      string `json:"ref"`
}
