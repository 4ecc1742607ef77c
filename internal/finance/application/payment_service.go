package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

type PaymentService struct {
	repo domain.PaymentRepository
}

func NewPaymentService(repo domain.PaymentRepository) *PaymentService {
	return &PaymentService{repo: repo}
}

func (s *PaymentService) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	method.ID = uuid.New()
	if err := method.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	method.CreatedAt = now
	method.UpdatedAt = now
	return s.repo.Create(ctx, method)
}

func (s *PaymentService) GetPaymentMethod(ctx context.Context, id uuid.UUID, userID string) (*domain.PaymentMethod, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *PaymentService) GetPaymentMethods(ctx context.Context, userID string, filter domain.PaymentMethodFilter) ([]domain.PaymentMethod, error) {
	return s.repo.List(ctx, userID, filter)
}

func (s *PaymentService) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, userID string, update domain.PaymentMethodUpdate) (*domain.PaymentMethod, error) {
	method, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(method)
	if err := method.Validate(); err != nil {
		return nil, err
	}

	method.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *PaymentService) DeletePaymentMethod(ctx context.Context, id uuid.UUID, userID string) error {
	if _, err := s.repo.FindByID(ctx, id, userID); err != nil {
		return err
	}
	inUse, err := s.repo.IsInUse(ctx, id, userID)
	if err != nil {
		return err
	}
	if inUse {
		return financeErrors.NewValidationError("Payment method is in use and cannot be deleted")
	}
	return s.repo.Delete(ctx, id, userID)
}

func (s *PaymentService) DoesPaymentMethodExist(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	return s.repo.Exists(ctx, id, userID)
}
