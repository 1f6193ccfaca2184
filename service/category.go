package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fintrack/models"
	"fintrack/store"

	"go.uber.org/zap"
)

const maxCategoryName = 50

// CategoryView 列表中的类别，附带引用次数
type CategoryView struct {
	models.Category
	Usage  int64 `json:"usage"`
	System bool  `json:"system"`
	Owned  bool  `json:"owned"`
}

// CreateCategoryInput 新建类别
type CreateCategoryInput struct {
	Name string `json:"name" example:"Coffee"`
	Type string `json:"type" example:"source"`
	Role string `json:"role" example:""`
}

// CategoryService 类别管理
type CategoryService struct {
	store store.CategoryStore
	log   *zap.Logger
}

// NewCategoryService 创建类别服务
func NewCategoryService(st store.CategoryStore, log *zap.Logger) *CategoryService {
	return &CategoryService{store: st, log: log}
}

// List 可见类别，taxonomy 为空返回两个体系
func (s *CategoryService) List(ctx context.Context, userID uint, taxonomy models.Taxonomy) ([]CategoryView, error) {
	cats, err := s.store.ListCategories(ctx, userID, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	usage, err := s.store.UsageCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count category usage: %w", err)
	}

	views := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, CategoryView{
			Category: c,
			Usage:    usage[c.ID],
			System:   c.IsSystem(),
			Owned:    c.OwnedBy(userID),
		})
	}
	return views, nil
}

// Create 新建用户类别；type 体系未指定角色时按名称推断
func (s *CategoryService) Create(ctx context.Context, userID uint, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return nil, invalid("name", fmt.Sprintf("name must be at most %d characters", maxCategoryName))
	}
	taxonomy, ok := models.ParseTaxonomy(in.Type)
	if !ok {
		return nil, invalid("type", "type must be 'type' or 'source'")
	}

	role := models.RoleNone
	if taxonomy == models.TaxonomyType {
		r, ok := models.ParseRole(in.Role)
		if !ok {
			return nil, invalid("role", "role must be one of income, expense, loan, settlement, none")
		}
		if r == "" {
			r = models.InferRole(name)
		}
		role = r
	}

	owner := userID
	cat := &models.Category{Name: name, Taxonomy: taxonomy, Role: role, OwnerID: &owner}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ConflictError{Message: "This category already exists!"}
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("category created",
		zap.Uint("user_id", userID),
		zap.Uint("category_id", cat.ID),
		zap.String("type", string(taxonomy)),
		zap.String("role", string(role)),
	)
	return cat, nil
}

// Delete 只能删除自己的、未被引用的类别
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	cat, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get category: %w", err)
	}
	if cat.IsSystem() {
		return &ForbiddenError{Message: "Cannot delete System Categories."}
	}
	if !cat.OwnedBy(userID) {
		return ErrNotFound
	}

	used, err := s.store.CategoryUsage(ctx, id)
	if err != nil {
		return fmt.Errorf("count category usage: %w", err)
	}
	if used > 0 {
		return &ConflictError{Message: fmt.Sprintf("Cannot delete: Used in %d transactions.", used)}
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.log.Info("category deleted", zap.Uint("user_id", userID), zap.Uint("category_id", id))
	return nil
}
