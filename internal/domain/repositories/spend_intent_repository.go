package repositories

import (
	"context"
	"time"

	"loyalty-ledger.backend/internal/domain/entities"
)

// SpendIntentRepository defines spend intent data operations.
//
// CreateIfNoneActive performs the conditional insert closing the
// check-then-insert race: the row is inserted only if no active unexpired
// intent exists for the user, in one statement. It returns nil when an
// active intent is already pending.
//
// Consume executes the whole consumption as one storage transaction:
// conditional active->consumed transition, conditional balance deduction
// and the redeem ledger entry. Partial effects are never observable.
type SpendIntentRepository interface {
	CreateIfNoneActive(ctx context.Context, intent *entities.SpendIntent) (*entities.SpendIntent, error)
	GetActiveByUser(ctx context.Context, userID int64) (*entities.SpendIntent, error)
	Consume(ctx context.Context, userID int64, token string) (*entities.Transaction, bool, error)
	Cancel(ctx context.Context, userID int64, token string) (bool, error)
	ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error)
}
