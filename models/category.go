package models

import (
	"strings"
	"time"
)

// Taxonomy 类别体系：type 为交易性质，source 为收支来源
type Taxonomy string

const (
	TaxonomyType   Taxonomy = "type"
	TaxonomySource Taxonomy = "source"
)

// ParseTaxonomy 解析类别体系
func ParseTaxonomy(s string) (Taxonomy, bool) {
	t := Taxonomy(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TaxonomyType, TaxonomySource:
		return t, true
	}
	return "", false
}

// Category 类别，OwnerID 为空表示系统类别
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_categories_type_name,priority:2"`
	Taxonomy  Taxonomy  `json:"type" gorm:"column:type;size:10;not null;uniqueIndex:idx_categories_type_name,priority:1"`
	Role      Role      `json:"role" gorm:"size:20;not null;default:none"`
	OwnerID   *uint     `json:"owner_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// IsSystem 是否为系统类别
func (c Category) IsSystem() bool {
	return c.OwnerID == nil
}

// OwnedBy 是否属于指定用户
func (c Category) OwnedBy(userID uint) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}

// VisibleTo 系统类别对所有人可见，用户类别仅对本人可见
func (c Category) VisibleTo(userID uint) bool {
	return c.IsSystem() || c.OwnedBy(userID)
}

// SystemCategories 首次启动时写入的系统类别
func SystemCategories() []Category {
	types := []string{"Income", "Expense", "Loan", "Settlement"}
	sources := []string{"Groceries", "Rent", "Utilities", "Transport", "Salary", "Entertainment", "Health", "Other"}

	cats := make([]Category, 0, len(types)+len(sources))
	for _, name := range types {
		cats = append(cats, Category{Name: name, Taxonomy: TaxonomyType, Role: InferRole(name)})
	}
	for _, name := range sources {
		cats = append(cats, Category{Name: name, Taxonomy: TaxonomySource, Role: RoleNone})
	}
	return cats
}
