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

var ErrExpenseNotFound = errors.New("expense not found")

const (
	ExpenseGroupByCategory      = "category"
	ExpenseGroupByPaymentMethod = "payment_method"
	GroupByMonth                = "month"
)

type Expense struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             string          `json:"user_id"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	CategoryID         uuid.UUID       `json:"category_id"`
	PaymentMethodID    *uuid.UUID      `json:"payment_method_id"`
	TagIDs             []uuid.UUID     `json:"tag_ids"`
	Date               time.Time       `json:"date"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency *string         `json:"recurring_frequency"`
	Notes              *string         `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type ExpenseUpdate struct {
	Amount             *decimal.Decimal `json:"amount"`
	Description        *string          `json:"description"`
	CategoryID         *uuid.UUID       `json:"category_id"`
	PaymentMethodID    *uuid.UUID       `json:"payment_method_id"`
	TagIDs             *[]uuid.UUID     `json:"tag_ids"`
	Date               *time.Time       `json:"date"`
	IsRecurring        *bool            `json:"is_recurring"`
	RecurringFrequency *string          `json:"recurring_frequency"`
	Notes              *string          `json:"notes"`
}

type ExpenseFilter struct {
	CategoryID      *uuid.UUID
	PaymentMethodID *uuid.UUID
	TagID           *uuid.UUID
	Range           DateRange
	Page            pagination.Page
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*Expense, error)
	List(ctx context.Context, userID string, filter ExpenseFilter) ([]Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	Summary(ctx context.Context, userID, groupBy string, dateRange DateRange) ([]SummaryRow, error)
	SpentByCategory(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

func IsValidExpenseGroupBy(groupBy string) bool {
	switch groupBy {
	case ExpenseGroupByCategory, ExpenseGroupByPaymentMethod, GroupByMonth:
		return true
	}
	return false
}

func (e *Expense) Validate() error {
	if err := validatePositive("Amount", e.Amount); err != nil {
		return err
	}
	if err := validateLength("Description", e.Description, 1, 255); err != nil {
		return err
	}
	if e.CategoryID == uuid.Nil {
		return financeErrors.NewValidationError("Category is required")
	}
	if e.Date.IsZero() {
		return financeErrors.NewValidationError("Date is required")
	}
	return validateRecurring(e.IsRecurring, e.RecurringFrequency)
}

// Normalize rounds money to cents and drops duplicate tags.
func (e *Expense) Normalize() {
	e.Amount = e.Amount.Round(2)
	if e.PaymentMethodID != nil && *e.PaymentMethodID == uuid.Nil {
		e.PaymentMethodID = nil
	}
	e.TagIDs = uniqueIDs(e.TagIDs)
}

func (u ExpenseUpdate) Apply(e *Expense) {
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.CategoryID != nil {
		e.CategoryID = *u.CategoryID
	}
	if u.PaymentMethodID != nil {
		id := *u.PaymentMethodID
		e.PaymentMethodID = &id
	}
	if u.TagIDs != nil {
		e.TagIDs = *u.TagIDs
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.IsRecurring != nil {
		e.IsRecurring = *u.IsRecurring
	}
	if u.RecurringFrequency != nil {
		e.RecurringFrequency = u.RecurringFrequency
	}
	if u.Notes != nil {
		e.Notes = u.Notes
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	result := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
