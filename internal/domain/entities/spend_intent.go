package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// SpendIntentStatus represents the lifecycle state of a spend intent
type SpendIntentStatus string

const (
	SpendIntentStatusActive   SpendIntentStatus = "active"
	SpendIntentStatusConsumed SpendIntentStatus = "consumed"
	SpendIntentStatusExpired  SpendIntentStatus = "expired"
	SpendIntentStatusCanceled SpendIntentStatus = "canceled"
)

// SpendIntent is a short-lived authorization to redeem a point amount.
// At most one active intent exists per user; the insert is conditional on
// no active row existing.
type SpendIntent struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"userId"`
	Token      string            `json:"token"`
	AmountPts  int64             `json:"amountPts"`
	Status     SpendIntentStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	ExpiresAt  time.Time         `json:"expiresAt"`
	ConsumedAt null.Time         `json:"consumedAt,omitempty"`
}

// Active reports whether the intent is active and unexpired at the given instant.
func (i *SpendIntent) Active(now time.Time) bool {
	return i.Status == SpendIntentStatusActive && i.ExpiresAt.After(now)
}

// Spend intent result codes
const (
	IntentCodeOK                  = "ok"
	IntentCodePending             = "intent_pending"
	IntentCodeInsufficientBalance = "insufficient_balance"
	IntentCodeNoActiveIntent      = "no_active_intent"
)

// SpendIntentResult is the structured outcome of a create request
type SpendIntentResult struct {
	OK     bool         `json:"ok"`
	Code   string       `json:"code"`
	Intent *SpendIntent `json:"intent,omitempty"`
}

// ConsumeResult is the structured outcome of a consume request
type ConsumeResult struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Balance int64  `json:"balance,omitempty"`
}

// CreateSpendIntentInput represents input for creating a spend intent
type CreateSpendIntentInput struct {
	AmountPts  int64 `json:"amountPts" binding:"required,gt=0"`
	TTLMinutes int   `json:"ttlMinutes"`
}

// ConsumeSpendIntentInput represents input for consuming a spend intent
type ConsumeSpendIntentInput struct {
	UserID int64  `json:"userId" binding:"required"`
	Token  string `json:"token" binding:"required"`
}
