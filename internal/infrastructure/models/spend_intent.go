package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type SpendIntent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"not null;index"`
	Token      string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	AmountPts  int64     `gorm:"not null"`
	Status     string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt  time.Time
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt null.Time
}

func (SpendIntent) TableName() string { return "spend_intents" }
