package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 gorm 的关系库实现（MySQL / SQLite）
// 数据库层没有行级权限，可见性过滤在查询条件中完成
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// MySQL 1062: Duplicate entry
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// ---------- 用户 ----------

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- 类别 ----------

func (s *GormStore) ListCategories(ctx context.Context, userID uint, taxonomy models.Taxonomy) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Where("owner_id IS NULL OR owner_id = ?", userID)
	if taxonomy != "" {
		q = q.Where("type = ?", taxonomy)
	}
	var list []models.Category
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *GormStore) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CategoryUsage(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("type_id = ? OR category_id = ?", id, id).
		Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) UsageCounts(ctx context.Context, userID uint) (map[uint]int64, error) {
	type usageRow struct {
		ID   uint
		Uses int64
	}
	counts := make(map[uint]int64)
	for _, col := range []string{"type_id", "category_id"} {
		var rows []usageRow
		err := s.db.WithContext(ctx).Model(&models.Transaction{}).
			Select(col+" AS id, COUNT(*) AS uses").
			Where("user_id = ?", userID).
			Group(col).
			Scan(&rows).Error
		if err != nil {
			return nil, translate(err)
		}
		for _, r := range rows {
			counts[r.ID] += r.Uses
		}
	}
	return counts, nil
}

// ---------- 交易 ----------

func (s *GormStore) scope(ctx context.Context, f TransactionFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", f.UserID)
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.CreatedAfter != nil {
		q = q.Where("created_at > ?", *f.CreatedAfter)
	}
	return q
}

func (s *GormStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := s.scope(ctx, f).
		Preload("Type").
		Preload("Category").
		Order("date DESC").
		Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var list []models.Transaction
	if err := q.Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *GormStore) CountTransactions(ctx context.Context, f TransactionFilter) (int64, error) {
	var n int64
	err := s.scope(ctx, f).Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error)
}

// CreateTransactions 单条多值 INSERT，由默认事务保证原子性
func (s *GormStore) CreateTransactions(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(&txs).Error)
}

func (s *GormStore) DeleteTransaction(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- 设置 ----------

func (s *GormStore) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) UpsertProfile(ctx context.Context, p *models.Profile) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"currency", "initial_balance", "balance_updated_at", "updated_at"}),
	}).Create(p).Error
	return translate(err)
}
