package models

import "time"

type ActivityRule struct {
	Code            string `gorm:"type:varchar(64);primaryKey"`
	Points          int64  `gorm:"not null"`
	CooldownSeconds int    `gorm:"not null"`
	RequiresGeo     bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ActivityRule) TableName() string { return "activity_rules" }
