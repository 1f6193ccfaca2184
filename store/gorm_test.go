package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*GormStore, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock, func() {
		sqlDB.Close()
	}
}

func TestGormStore_CreateCategory_Duplicate(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'source-Gym'"})
	mock.ExpectRollback()

	owner := uint(1)
	err := s.CreateCategory(context.Background(), &models.Category{
		Name: "Gym", Taxonomy: models.TaxonomySource, Role: models.RoleNone, OwnerID: &owner,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateCategory(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	c := &models.Category{Name: "Bonus", Taxonomy: models.TaxonomyType, Role: models.RoleIncome}
	require.NoError(t, s.CreateCategory(context.Background(), c))
	assert.Equal(t, uint(21), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListCategories(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories` WHERE .*owner_id IS NULL OR owner_id = .* ORDER BY name ASC").
		WithArgs(1, "source").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "role", "owner_id", "created_at"}).
			AddRow(5, "Groceries", "source", "none", nil, time.Now()).
			AddRow(9, "Gym", "source", "none", 1, time.Now()))

	list, err := s.ListCategories(context.Background(), 1, models.TaxonomySource)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsSystem())
	assert.True(t, list[1].OwnedBy(1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetCategory_NotFound(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetCategory(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CategoryUsage(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := s.CategoryUsage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UsageCounts(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT type_id AS id, COUNT\\(\\*\\) AS uses FROM `transactions`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uses"}).AddRow(1, 3).AddRow(2, 1))
	mock.ExpectQuery("SELECT category_id AS id, COUNT\\(\\*\\) AS uses FROM `transactions`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uses"}).AddRow(5, 4))

	counts, err := s.UsageCounts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{1: 3, 2: 1, 5: 4}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListTransactions_Preloads(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()
	mock.MatchExpectationsInOrder(false)

	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM `transactions` WHERE user_id = .* ORDER BY date DESC,created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "amount", "note", "type_id", "category_id", "created_at"}).
			AddRow(1, 1, day, "25.00", "shop", 2, 5, time.Now()))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "role", "owner_id", "created_at"}).
			AddRow(5, "Groceries", "source", "none", nil, time.Now()))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "role", "owner_id", "created_at"}).
			AddRow(2, "Expense", "type", "expense", nil, time.Now()))

	list, err := s.ListTransactions(context.Background(), TransactionFilter{UserID: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.RequireFromString("25").Equal(list[0].Amount))
	assert.Equal(t, "Groceries", list[0].CategoryName())
	assert.Equal(t, models.RoleExpense, list[0].Role())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateTransactions(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(10, 2))
	mock.ExpectCommit()

	txs := []models.Transaction{
		{UserID: 1, Date: time.Now(), Amount: decimal.NewFromInt(5), TypeID: 2, CategoryID: 5},
		{UserID: 1, Date: time.Now(), Amount: decimal.NewFromInt(7), TypeID: 1, CategoryID: 9},
	}
	require.NoError(t, s.CreateTransactions(context.Background(), txs))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateTransactions_Rollback(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnError(errors.New("foreign key constraint fails"))
	mock.ExpectRollback()

	txs := []models.Transaction{{UserID: 1, Date: time.Now(), Amount: decimal.NewFromInt(5), TypeID: 2, CategoryID: 99}}
	assert.Error(t, s.CreateTransactions(context.Background(), txs))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateTransactions_Empty(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	require.NoError(t, s.CreateTransactions(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteTransaction_NotFound(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transactions`").
		WithArgs(3, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteTransaction(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpsertProfile(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `profiles` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	now := time.Now()
	err := s.UpsertProfile(context.Background(), &models.Profile{
		UserID: 1, Currency: "$", InitialBalance: decimal.NewFromInt(100), BalanceUpdatedAt: &now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindUserByLogin(t *testing.T) {
	s, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("alice", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "alice", "hash", "a@x.com", time.Now(), time.Now(), nil))

	u, err := s.FindUserByLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
