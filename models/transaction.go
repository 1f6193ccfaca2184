package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 交易日期格式
const DateLayout = "2006-01-02"

// Transaction 交易记录，创建后不可修改
type Transaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"index;not null"`
	Date       time.Time       `json:"date" gorm:"type:date;not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Note       string          `json:"note" gorm:"size:255"`
	TypeID     uint            `json:"type_id" gorm:"not null;index"`
	CategoryID uint            `json:"category_id" gorm:"not null;index"`
	CreatedAt  time.Time       `json:"created_at" gorm:"index"`
	Type       *Category       `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	Category   *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Role 交易所属类型类别的角色，未加载时为 none
func (t Transaction) Role() Role {
	if t.Type == nil {
		return RoleNone
	}
	return t.Type.Role
}

// TypeName 类型类别名称
func (t Transaction) TypeName() string {
	if t.Type == nil {
		return ""
	}
	return t.Type.Name
}

// CategoryName 来源类别名称
func (t Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

// MarshalJSON 日期只输出到天
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(t),
		Date:  t.Date.Format(DateLayout),
	})
}
