package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Voucher struct {
	Token            string `gorm:"type:varchar(64);primaryKey"`
	OwningResourceID int64  `gorm:"not null;index:idx_vouchers_resource_status"`
	OwnerUserID      int64  `gorm:"not null"`
	IsRedeemed       bool   `gorm:"not null;default:false;index:idx_vouchers_resource_status"`
	RedeemedAt       null.Time
	RedeemedBy       null.Int64
	ExpiresAt        time.Time `gorm:"not null"`
	CreatedAt        time.Time
}

func (Voucher) TableName() string { return "vouchers" }
