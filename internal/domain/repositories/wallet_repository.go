package repositories

import (
	"context"

	"loyalty-ledger.backend/internal/domain/entities"
)

// WalletRepository defines wallet and ledger data operations.
//
// ApplyDelta is the single mutation primitive: an atomic increment-and-return
// at the storage layer (never read-modify-write in application code), creating
// the wallet row lazily and appending the immutable transaction in the same
// unit of work. When allowNegative is false the balance may not drop below
// zero; the guard sits in the statement's WHERE clause.
type WalletRepository interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	ApplyDelta(ctx context.Context, userID int64, delta int64, kind entities.TransactionKind, note, ref, idemKey string, allowNegative bool) (*entities.Transaction, error)
	FindTransactionByIdempotencyKey(ctx context.Context, userID int64, key string) (*entities.Transaction, error)
	GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]*entities.Transaction, int64, error)
}
