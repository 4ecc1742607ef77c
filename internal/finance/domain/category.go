package domain

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID           uuid.UUID  `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Color        *string    `json:"color"`
	Icon         *string    `json:"icon"`
	CategoryType string     `json:"category_type"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsActive     bool       `json:"is_active"`
	IsDefault    bool       `json:"is_default"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryNode is a category with its nested subcategories.
type CategoryNode struct {
	Category
	Subcategories []*CategoryNode `json:"subcategories"`
}

// CategoryUpdate holds the fields a client may change. Nil means unchanged;
// a nil UUID parent removes the parent.
type CategoryUpdate struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Color        *string    `json:"color"`
	Icon         *string    `json:"icon"`
	CategoryType *string    `json:"category_type"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsActive     *bool      `json:"is_active"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	CreateMany(ctx context.Context, categories []Category) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Category, error)
	List(ctx context.Context, userID, categoryType string) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	HasSubcategories(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	IsInUse(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	Exists(ctx context.Context, id uuid.UUID, userID, categoryType string) (bool, error)
}

// NormalizeParent treats the nil UUID as "no parent".
func (c *Category) NormalizeParent() {
	if c.ParentID != nil && *c.ParentID == uuid.Nil {
		c.ParentID = nil
	}
}

func (c *Category) Validate() error {
	if err := validateLength("Name", c.Name, 1, 100); err != nil {
		return err
	}
	if err := validateColor(c.Color); err != nil {
		return err
	}
	if err := validateOptionalLength("Icon", c.Icon, 50); err != nil {
		return err
	}
	if !IsValidCategoryType(c.CategoryType) {
		return financeErrors.NewValidationError("Category type must be 'expense' or 'income'")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return financeErrors.NewValidationError("Category cannot be its own parent")
	}
	return nil
}

// Apply copies the set fields of an update onto the category.
func (u CategoryUpdate) Apply(c *Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = u.Description
	}
	if u.Color != nil {
		c.Color = u.Color
	}
	if u.Icon != nil {
		c.Icon = u.Icon
	}
	if u.CategoryType != nil {
		c.CategoryType = *u.CategoryType
	}
	if u.ParentID != nil {
		parent := *u.ParentID
		c.ParentID = &parent
		c.NormalizeParent()
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
}

// IsAncestor reports whether candidate appears on the parent chain that
// starts at startID. The chain is followed through the given categories.
func IsAncestor(categories []Category, candidate, startID uuid.UUID) bool {
	parents := make(map[uuid.UUID]*uuid.UUID, len(categories))
	for _, c := range categories {
		parents[c.ID] = c.ParentID
	}

	seen := make(map[uuid.UUID]bool)
	current := &startID
	for current != nil {
		if *current == candidate {
			return true
		}
		if seen[*current] {
			return false
		}
		seen[*current] = true
		current = parents[*current]
	}
	return false
}

// BuildCategoryTree nests the flat list under its roots. Siblings are sorted
// by name; categories whose parent is missing from the list become roots.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c, Subcategories: []*CategoryNode{}}
	}

	roots := []*CategoryNode{}
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Subcategories = append(parent.Subcategories, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortNodes func([]*CategoryNode)
	sortNodes = func(list []*CategoryNode) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CategoryType != list[j].CategoryType {
				return list[i].CategoryType < list[j].CategoryType
			}
			return list[i].Name < list[j].Name
		})
		for _, n := range list {
			sortNodes(n.Subcategories)
		}
	}
	sortNodes(roots)
	return roots
}

type defaultCategory struct {
	name         string
	categoryType string
	color        string
	icon         string
}

var defaultCategories = []defaultCategory{
	{"Food", CategoryTypeExpense, "#E57373", "restaurant"},
	{"Transport", CategoryTypeExpense, "#64B5F6", "directions_car"},
	{"Housing", CategoryTypeExpense, "#81C784", "home"},
	{"Utilities", CategoryTypeExpense, "#FFB74D", "bolt"},
	{"Health", CategoryTypeExpense, "#BA68C8", "favorite"},
	{"Entertainment", CategoryTypeExpense, "#4DB6AC", "movie"},
	{"Salary", CategoryTypeIncome, "#4CAF50", "work"},
	{"Freelance", CategoryTypeIncome, "#2196F3", "laptop"},
	{"Investments", CategoryTypeIncome, "#FF9800", "trending_up"},
}

// DefaultCategories builds the starter set for a new account.
func DefaultCategories(userID string, now time.Time) []Category {
	categories := make([]Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		color, icon := d.color, d.icon
		categories = append(categories, Category{
			ID:           uuid.New(),
			UserID:       userID,
			Name:         d.name,
			Color:        &color,
			Icon:         &icon,
			CategoryType: d.categoryType,
			IsActive:     true,
			IsDefault:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return categories
}
