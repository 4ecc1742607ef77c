package application

import (
	"context"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

type CategoryServiceInterface interface {
	DoesCategoryExist(ctx context.Context, id uuid.UUID, userID, categoryType string) (bool, error)
}

type PaymentServiceInterface interface {
	DoesPaymentMethodExist(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}

type TagServiceInterface interface {
	DoTagsExist(ctx context.Context, ids []uuid.UUID, userID string) (bool, error)
}

var ErrInvalidGroupBy = financeErrors.NewValidationError("Invalid group_by value")

func requireCategory(ctx context.Context, categories CategoryServiceInterface, id uuid.UUID, userID, categoryType string) error {
	exists, err := categories.DoesCategoryExist(ctx, id, userID, categoryType)
	if err != nil {
		return err
	}
	if !exists {
		return financeErrors.ErrInvalidCategory
	}
	return nil
}

func requireTags(ctx context.Context, tags TagServiceInterface, ids []uuid.UUID, userID string) error {
	if len(ids) == 0 {
		return nil
	}
	exists, err := tags.DoTagsExist(ctx, ids, userID)
	if err != nil {
		return err
	}
	if !exists {
		return financeErrors.ErrInvalidTag
	}
	return nil
}
