package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTagNotFound = errors.New("tag not found")

type Tag struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	Icon        *string   `json:"icon"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TagWithUsage struct {
	Tag
	ExpenseCount int `json:"expense_count"`
	IncomeCount  int `json:"income_count"`
}

type TagUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
}

type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Tag, error)
	FindByName(ctx context.Context, userID, name string) (*Tag, error)
	List(ctx context.Context, userID string) ([]Tag, error)
	ListWithUsage(ctx context.Context, userID string) ([]TagWithUsage, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	IsInUse(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	CountOwned(ctx context.Context, ids []uuid.UUID, userID string) (int, error)
}

func (t *Tag) Validate() error {
	if err := validateLength("Name", t.Name, 1, 50); err != nil {
		return err
	}
	if err := validateColor(t.Color); err != nil {
		return err
	}
	return validateOptionalLength("Icon", t.Icon, 50)
}

func (u TagUpdate) Apply(t *Tag) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = u.Description
	}
	if u.Color != nil {
		t.Color = u.Color
	}
	if u.Icon != nil {
		t.Icon = u.Icon
	}
	if u.IsActive != nil {
		t.IsActive = *u.IsActive
	}
}
