// Package store 定义持久化接口，具体实现见 gorm.go、memory.go 以及 supabase 包。
package store

import (
	"context"
	"errors"
	"time"

	"fintrack/models"
)

var (
	// ErrNotFound 记录不存在或对当前用户不可见
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束，如同一体系下的重名类别
	ErrDuplicate = errors.New("duplicate key")
)

// TransactionFilter 交易查询条件，UserID 必填
type TransactionFilter struct {
	UserID       uint
	From         *time.Time // 日期下界（含）
	To           *time.Time // 日期上界（含）
	CreatedAfter *time.Time // 录入时间严格晚于
	Offset       int
	Limit        int // 0 表示不分页
}

// UserStore 用户
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	// FindUserByLogin 按用户名或邮箱查找
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// CategoryStore 类别
type CategoryStore interface {
	// ListCategories 返回对用户可见的类别，按名称排序；taxonomy 为空返回全部
	ListCategories(ctx context.Context, userID uint, taxonomy models.Taxonomy) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	// CategoryUsage 引用该类别的交易数（不区分用户）
	CategoryUsage(ctx context.Context, id uint) (int64, error)
	// UsageCounts 用户交易对各类别的引用次数
	UsageCounts(ctx context.Context, userID uint) (map[uint]int64, error)
}

// TransactionStore 交易
type TransactionStore interface {
	// ListTransactions 按日期倒序、录入时间倒序返回，并带出两个类别
	ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, f TransactionFilter) (int64, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	// CreateTransactions 批量写入，要么全部成功要么全部失败
	CreateTransactions(ctx context.Context, txs []models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uint) error
}

// ProfileStore 用户设置
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uint) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) error
}

// Store 全部存储能力
type Store interface {
	UserStore
	CategoryStore
	TransactionStore
	ProfileStore
}
