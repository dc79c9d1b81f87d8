package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Transaction rows are append-only; nothing in the codebase updates or
// deletes them.
type Transaction struct {
	ID             int64       `gorm:"primaryKey;autoIncrement"`
	UserID         int64       `gorm:"not null;index;uniqueIndex:idx_transactions_user_idem,priority:1"`
	Kind           string      `gorm:"type:varchar(16);not null"`
	DeltaPts       int64       `gorm:"not null"`
	BalanceAfter   int64       `gorm:"not null"`
	Ref            null.String `gorm:"type:varchar(255)"`
	Note           null.String `gorm:"type:varchar(255)"`
	IdempotencyKey null.String `gorm:"type:varchar(128);uniqueIndex:idx_transactions_user_idem,priority:2"`
	CreatedAt      time.Time   `gorm:"index"`
}

func (Transaction) TableName() string { return "transactions" }
