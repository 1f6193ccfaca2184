package service

import (
	"context"
	"testing"

	"fintrack/models"
	"fintrack/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryService() (*CategoryService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewCategoryService(st, zap.NewNop()), st
}

func TestCategoryService_Create(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	tests := []struct {
		name     string
		in       CreateCategoryInput
		wantRole models.Role
		wantErr  bool
	}{
		{"推断角色", CreateCategoryInput{Name: "  Loan Repayment ", Type: "type"}, models.RoleNone, false},
		{"名称即角色", CreateCategoryInput{Name: "side income", Type: "type", Role: ""}, models.RoleNone, false},
		{"显式角色", CreateCategoryInput{Name: "Freelance", Type: "type", Role: "income"}, models.RoleIncome, false},
		{"来源忽略角色", CreateCategoryInput{Name: "Coffee", Type: "source", Role: "expense"}, models.RoleNone, false},
		{"缺少名称", CreateCategoryInput{Name: "   ", Type: "source"}, "", true},
		{"未知体系", CreateCategoryInput{Name: "X", Type: "tag"}, "", true},
		{"未知角色", CreateCategoryInput{Name: "Y", Type: "type", Role: "gift"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := svc.Create(ctx, 1, tt.in)
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, cat.Role)
			assert.True(t, cat.OwnedBy(1))
		})
	}
}

func TestCategoryService_CreateInfersRoleFromName(t *testing.T) {
	svc, st := newCategoryService()
	ctx := context.Background()

	// 先移除同名系统类别
	require.NoError(t, st.DeleteCategory(ctx, catID(t, st, 1, models.TaxonomyType, "Settlement")))
	cat, err := svc.Create(ctx, 1, CreateCategoryInput{Name: " settlement ", Type: "type"})
	require.NoError(t, err)
	assert.Equal(t, "settlement", cat.Name)
	assert.Equal(t, models.RoleSettlement, cat.Role)
}

func TestCategoryService_CreateDuplicate(t *testing.T) {
	svc, _ := newCategoryService()

	_, err := svc.Create(context.Background(), 1, CreateCategoryInput{Name: "groceries", Type: "source"})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "This category already exists!", ce.Message)
}

func TestCategoryService_List(t *testing.T) {
	svc, st := newCategoryService()
	ctx := context.Background()

	addTx(t, st, 1, "2024-03-01", "10", "Expense", "Groceries")
	addTx(t, st, 1, "2024-03-02", "20", "Expense", "Groceries")
	addTx(t, st, 2, "2024-03-02", "20", "Expense", "Groceries")
	_, err := svc.Create(ctx, 1, CreateCategoryInput{Name: "Coffee", Type: "source"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, CreateCategoryInput{Name: "Books", Type: "source"})
	require.NoError(t, err)

	views, err := svc.List(ctx, 1, models.TaxonomySource)
	require.NoError(t, err)
	assert.Len(t, views, 9)

	byName := map[string]CategoryView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	assert.NotContains(t, byName, "Books")
	assert.Equal(t, int64(2), byName["Groceries"].Usage)
	assert.True(t, byName["Groceries"].System)
	assert.False(t, byName["Groceries"].Owned)
	assert.True(t, byName["Coffee"].Owned)
	assert.False(t, byName["Coffee"].System)

	all, err := svc.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 13)
}

func TestCategoryService_Delete(t *testing.T) {
	svc, st := newCategoryService()
	ctx := context.Background()

	t.Run("系统类别", func(t *testing.T) {
		err := svc.Delete(ctx, 1, catID(t, st, 1, models.TaxonomySource, "Rent"))
		var fe *ForbiddenError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Cannot delete System Categories.", fe.Message)
	})

	t.Run("他人类别", func(t *testing.T) {
		cat, err := svc.Create(ctx, 2, CreateCategoryInput{Name: "Books", Type: "source"})
		require.NoError(t, err)
		assert.ErrorIs(t, svc.Delete(ctx, 1, cat.ID), ErrNotFound)
	})

	t.Run("不存在", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, 1, 9999), ErrNotFound)
	})

	t.Run("已被引用", func(t *testing.T) {
		cat, err := svc.Create(ctx, 1, CreateCategoryInput{Name: "Coffee", Type: "source"})
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			addTx(t, st, 1, "2024-03-01", "3.5", "Expense", "Coffee")
		}
		err = svc.Delete(ctx, 1, cat.ID)
		var ce *ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "Cannot delete: Used in 3 transactions.", ce.Message)
	})

	t.Run("删除成功", func(t *testing.T) {
		cat, err := svc.Create(ctx, 1, CreateCategoryInput{Name: "Gym", Type: "source"})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, 1, cat.ID))
		_, err = st.GetCategory(ctx, cat.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
