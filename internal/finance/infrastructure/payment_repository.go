package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentMethodColumns = `id, user_id, name, description, payment_type, institution, account_number, color, icon, is_default, is_active, created_at, updated_at`

func scanPaymentMethod(row interface{ Scan(dest ...any) error }) (*domain.PaymentMethod, error) {
	var p domain.PaymentMethod
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.PaymentType, &p.Institution, &p.AccountNumber,
		&p.Color, &p.Icon, &p.IsDefault, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func clearOtherDefaults(ctx context.Context, tx *sql.Tx, p *domain.PaymentMethod) error {
	if !p.IsDefault {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE payment_methods SET is_default = FALSE, updated_at = $1 WHERE user_id = $2 AND id <> $3 AND is_default = TRUE`,
		p.UpdatedAt, p.UserID, p.ID)
	if err != nil {
		return fmt.Errorf("could not clear default payment method: %w", err)
	}
	return nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearOtherDefaults(ctx, tx, p); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_methods (`+paymentMethodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.UserID, p.Name, p.Description, p.PaymentType, p.Institution, p.AccountNumber,
		p.Color, p.Icon, p.IsDefault, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not create payment method: %w", err)
	}
	return tx.Commit()
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID, userID string) (*domain.PaymentMethod, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1 AND user_id = $2`, id, userID)
	method, err := scanPaymentMethod(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return method, nil
}

func (r *PaymentRepository) List(ctx context.Context, userID string, filter domain.PaymentMethodFilter) ([]domain.PaymentMethod, error) {
	where := newWhere("user_id = ?", userID)
	if filter.PaymentType != nil {
		where.add("payment_type = ?", *filter.PaymentType)
	}
	if filter.IsActive != nil {
		where.add("is_active = ?", *filter.IsActive)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods`+where.String()+` ORDER BY name`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		method, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *method)
	}
	return methods, rows.Err()
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearOtherDefaults(ctx, tx, p); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE payment_methods
		SET name = $1, description = $2, payment_type = $3, institution = $4, account_number = $5,
			color = $6, icon = $7, is_default = $8, is_active = $9, updated_at = $10
		WHERE id = $11 AND user_id = $12`,
		p.Name, p.Description, p.PaymentType, p.Institution, p.AccountNumber,
		p.Color, p.Icon, p.IsDefault, p.IsActive, p.UpdatedAt, p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("could not update payment method: %w", err)
	}
	if err := rowsAffectedOrNotFound(result, domain.ErrPaymentMethodNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("could not delete payment method: %w", err)
	}
	return rowsAffectedOrNotFound(result, domain.ErrPaymentMethodNotFound)
}

func (r *PaymentRepository) IsInUse(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM expenses WHERE payment_method_id = $1 AND user_id = $2)"
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists)
	return exists, err
}

func (r *PaymentRepository) Exists(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM payment_methods WHERE id = $1 AND user_id = $2)"
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
