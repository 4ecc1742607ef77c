package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_CreateAndUpdate(t *testing.T) {
	service := NewPaymentService(newMockPaymentRepository())
	ctx := context.Background()

	method := &domain.PaymentMethod{UserID: testUserID, Name: "Visa", PaymentType: "credit_card", IsActive: true}
	require.NoError(t, service.CreatePaymentMethod(ctx, method))

	bad := "red"
	_, err := service.UpdatePaymentMethod(ctx, method.ID, testUserID, domain.PaymentMethodUpdate{Color: &bad})
	assert.True(t, financeErrors.IsValidationError(err))

	isDefault := true
	updated, err := service.UpdatePaymentMethod(ctx, method.ID, testUserID, domain.PaymentMethodUpdate{IsDefault: &isDefault})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	invalid := &domain.PaymentMethod{UserID: testUserID, Name: "", PaymentType: "cash"}
	assert.True(t, financeErrors.IsValidationError(service.CreatePaymentMethod(ctx, invalid)))
}

func TestPaymentService_DeleteInUse(t *testing.T) {
	method := domain.PaymentMethod{ID: uuid.New(), UserID: testUserID, Name: "Cash", PaymentType: "cash"}
	repo := newMockPaymentRepository(method)
	repo.inUse[method.ID] = true
	service := NewPaymentService(repo)

	err := service.DeletePaymentMethod(context.Background(), method.ID, testUserID)
	assert.True(t, financeErrors.IsValidationError(err))

	repo.inUse[method.ID] = false
	require.NoError(t, service.DeletePaymentMethod(context.Background(), method.ID, testUserID))

	exists, err := service.DoesPaymentMethodExist(context.Background(), method.ID, testUserID)
	require.NoError(t, err)
	assert.False(t, exists)
}
