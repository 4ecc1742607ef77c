package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/pagination"
	"github.com/shopspring/decimal"
)

var ErrIncomeNotFound = errors.New("income not found")

const (
	IncomeGroupBySource   = "source"
	IncomeGroupByCategory = "category"
)

type Income struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             string          `json:"user_id"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	Source             string          `json:"source"`
	CategoryID         *uuid.UUID      `json:"category_id"`
	TagIDs             []uuid.UUID     `json:"tag_ids"`
	Date               time.Time       `json:"date"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency *string         `json:"recurring_frequency"`
	Notes              *string         `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type IncomeUpdate struct {
	Amount             *decimal.Decimal `json:"amount"`
	Description        *string          `json:"description"`
	Source             *string          `json:"source"`
	CategoryID         *uuid.UUID       `json:"category_id"`
	TagIDs             *[]uuid.UUID     `json:"tag_ids"`
	Date               *time.Time       `json:"date"`
	IsRecurring        *bool            `json:"is_recurring"`
	RecurringFrequency *string          `json:"recurring_frequency"`
	Notes              *string          `json:"notes"`
}

type IncomeFilter struct {
	Source     *string
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Range      DateRange
	Page       pagination.Page
}

type IncomeRepository interface {
	Create(ctx context.Context, income *Income) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Income, error)
	List(ctx context.Context, userID string, filter IncomeFilter) ([]Income, error)
	Update(ctx context.Context, income *Income) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	Summary(ctx context.Context, userID, groupBy string, dateRange DateRange) ([]SummaryRow, error)
}

func IsValidIncomeGroupBy(groupBy string) bool {
	switch groupBy {
	case IncomeGroupBySource, IncomeGroupByCategory, GroupByMonth:
		return true
	}
	return false
}

func (i *Income) Validate() error {
	if err := validatePositive("Amount", i.Amount); err != nil {
		return err
	}
	if err := validateLength("Description", i.Description, 1, 255); err != nil {
		return err
	}
	if err := validateLength("Source", i.Source, 1, 100); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return financeErrors.NewValidationError("Date is required")
	}
	return validateRecurring(i.IsRecurring, i.RecurringFrequency)
}

func (i *Income) Normalize() {
	i.Amount = i.Amount.Round(2)
	if i.CategoryID != nil && *i.CategoryID == uuid.Nil {
		i.CategoryID = nil
	}
	i.TagIDs = uniqueIDs(i.TagIDs)
}

func (u IncomeUpdate) Apply(i *Income) {
	if u.Amount != nil {
		i.Amount = *u.Amount
	}
	if u.Description != nil {
		i.Description = *u.Description
	}
	if u.Source != nil {
		i.Source = *u.Source
	}
	if u.CategoryID != nil {
		id := *u.CategoryID
		i.CategoryID = &id
	}
	if u.TagIDs != nil {
		i.TagIDs = *u.TagIDs
	}
	if u.Date != nil {
		i.Date = *u.Date
	}
	if u.IsRecurring != nil {
		i.IsRecurring = *u.IsRecurring
	}
	if u.RecurringFrequency != nil {
		i.RecurringFrequency = u.RecurringFrequency
	}
	if u.Notes != nil {
		i.Notes = u.Notes
	}
}
