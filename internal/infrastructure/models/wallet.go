package models

import "time"

type Wallet struct {
	UserID     int64 `gorm:"primaryKey"`
	BalancePts int64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Wallet) TableName() string { return "wallets" }
