package supabase

import (
	"fmt"
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

// 数据库行与模型之间的转换；date 列在 PostgREST 中以 YYYY-MM-DD 字符串传输

type userRow struct {
	ID        uint      `json:"id,omitempty"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (r userRow) model() models.User {
	return models.User{
		ID:        r.ID,
		Username:  r.Username,
		Password:  r.Password,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type userInsert struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type categoryRow struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Type      models.Taxonomy `json:"type"`
	Role      models.Role     `json:"role"`
	OwnerID   *uint           `json:"owner_id"`
	CreatedAt time.Time       `json:"created_at"`
}

func (r categoryRow) model() models.Category {
	return models.Category{
		ID:        r.ID,
		Name:      r.Name,
		Taxonomy:  r.Type,
		Role:      r.Role,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
	}
}

type categoryInsert struct {
	Name    string          `json:"name"`
	Type    models.Taxonomy `json:"type"`
	Role    models.Role     `json:"role"`
	OwnerID *uint           `json:"owner_id"`
}

type transactionRow struct {
	ID         uint            `json:"id"`
	UserID     uint            `json:"user_id"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	TypeID     uint            `json:"type_id"`
	CategoryID uint            `json:"category_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Type       *categoryRow    `json:"type,omitempty"`
	Category   *categoryRow    `json:"category,omitempty"`
}

func (r transactionRow) model() (models.Transaction, error) {
	date, err := time.ParseInLocation(models.DateLayout, r.Date, time.UTC)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("supabase: transaction %d has invalid date %q: %w", r.ID, r.Date, err)
	}
	t := models.Transaction{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       date,
		Amount:     r.Amount,
		Note:       r.Note,
		TypeID:     r.TypeID,
		CategoryID: r.CategoryID,
		CreatedAt:  r.CreatedAt,
	}
	if r.Type != nil {
		c := r.Type.model()
		t.Type = &c
	}
	if r.Category != nil {
		c := r.Category.model()
		t.Category = &c
	}
	return t, nil
}

type transactionInsert struct {
	UserID     uint            `json:"user_id"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	TypeID     uint            `json:"type_id"`
	CategoryID uint            `json:"category_id"`
}

func newTransactionInsert(t models.Transaction) transactionInsert {
	return transactionInsert{
		UserID:     t.UserID,
		Date:       t.Date.Format(models.DateLayout),
		Amount:     t.Amount,
		Note:       t.Note,
		TypeID:     t.TypeID,
		CategoryID: t.CategoryID,
	}
}

type profileRow struct {
	ID               uint            `json:"id"`
	Currency         string          `json:"currency"`
	InitialBalance   decimal.Decimal `json:"initial_balance"`
	BalanceUpdatedAt *time.Time      `json:"balance_updated_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (r profileRow) model() models.Profile {
	return models.Profile{
		UserID:           r.ID,
		Currency:         r.Currency,
		InitialBalance:   r.InitialBalance,
		BalanceUpdatedAt: r.BalanceUpdatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
