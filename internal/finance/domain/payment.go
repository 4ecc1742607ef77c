package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPaymentMethodNotFound = errors.New("payment method not found")

type PaymentMethod struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	PaymentType   string    `json:"payment_type"`
	Institution   *string   `json:"institution"`
	AccountNumber *string   `json:"account_number"`
	Color         *string   `json:"color"`
	Icon          *string   `json:"icon"`
	IsDefault     bool      `json:"is_default"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PaymentMethodUpdate struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PaymentType   *string `json:"payment_type"`
	Institution   *string `json:"institution"`
	AccountNumber *string `json:"account_number"`
	Color         *string `json:"color"`
	Icon          *string `json:"icon"`
	IsDefault     *bool   `json:"is_default"`
	IsActive      *bool   `json:"is_active"`
}

type PaymentMethodFilter struct {
	PaymentType *string
	IsActive    *bool
}

// PaymentRepository stores payment methods. Create and Update clear the
// default flag on the owner's other methods when the saved one is default.
type PaymentRepository interface {
	Create(ctx context.Context, method *PaymentMethod) error
	FindByID(ctx context.Context, id uuid.UUID, userID string) (*PaymentMethod, error)
	List(ctx context.Context, userID string, filter PaymentMethodFilter) ([]PaymentMethod, error)
	Update(ctx context.Context, method *PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	IsInUse(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	Exists(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}

func (p *PaymentMethod) Validate() error {
	if err := validateLength("Name", p.Name, 1, 100); err != nil {
		return err
	}
	if err := validateLength("Payment type", p.PaymentType, 1, 50); err != nil {
		return err
	}
	if err := validateOptionalLength("Institution", p.Institution, 255); err != nil {
		return err
	}
	if err := validateOptionalLength("Account number", p.AccountNumber, 100); err != nil {
		return err
	}
	if err := validateColor(p.Color); err != nil {
		return err
	}
	return validateOptionalLength("Icon", p.Icon, 50)
}

func (u PaymentMethodUpdate) Apply(p *PaymentMethod) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = u.Description
	}
	if u.PaymentType != nil {
		p.PaymentType = *u.PaymentType
	}
	if u.Institution != nil {
		p.Institution = u.Institution
	}
	if u.AccountNumber != nil {
		p.AccountNumber = u.AccountNumber
	}
	if u.Color != nil {
		p.Color = u.Color
	}
	if u.Icon != nil {
		p.Icon = u.Icon
	}
	if u.IsDefault != nil {
		p.IsDefault = *u.IsDefault
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}
