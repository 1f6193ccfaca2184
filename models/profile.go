package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile 用户设置，每个用户至多一条，主键即用户ID
type Profile struct {
	UserID           uint            `json:"user_id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Currency         string          `json:"currency" gorm:"size:16;not null"`
	InitialBalance   decimal.Decimal `json:"initial_balance" gorm:"type:decimal(12,2);not null"`
	BalanceUpdatedAt *time.Time      `json:"balance_updated_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
