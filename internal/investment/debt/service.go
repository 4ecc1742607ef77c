package debts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	emailService "github.com/sebuszqo/FinanceLedger/internal/email"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/investment/rules"
	"github.com/shopspring/decimal"
)

const (
	GroupByDebtType = "debt_type"
	GroupByLender   = "lender"
)

var (
	ErrDebtNotFound       = errors.New("debt not found")
	ErrDebtAlreadyPaidOff = financeErrors.NewValidationError("Debt is already paid off")
	ErrInvalidGroupBy     = financeErrors.NewValidationError("Invalid group_by value")
)

// DebtUpdate cannot change is_paid_off or paid_off_date; PayOff is the only
// way to settle a debt.
type DebtUpdate struct {
	Name            *string          `json:"name"`
	DebtType        *string          `json:"debt_type"`
	Lender          *string          `json:"lender"`
	OriginalAmount  *decimal.Decimal `json:"original_amount"`
	CurrentBalance  *decimal.Decimal `json:"current_balance"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	MinimumPayment  *decimal.Decimal `json:"minimum_payment"`
	PaymentDueDate  *int             `json:"payment_due_date"`
	LoanStartDate   *time.Time       `json:"loan_start_date"`
	ExpectedEndDate *time.Time       `json:"expected_end_date"`
	Currency        *string          `json:"currency"`
	Collateral      *string          `json:"collateral"`
	Notes           *string          `json:"notes"`
}

type Service interface {
	CreateDebt(ctx context.Context, debt *Debt) error
	GetDebt(ctx context.Context, id uuid.UUID, userID string) (*Debt, error)
	GetDebts(ctx context.Context, userID string, filter Filter) ([]Debt, error)
	UpdateDebt(ctx context.Context, id uuid.UUID, userID string, update DebtUpdate) (*Debt, error)
	DeleteDebt(ctx context.Context, id uuid.UUID, userID string) error
	PayOffDebt(ctx context.Context, id uuid.UUID, userID string) (*Debt, error)
	GetSummary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error)
	GetBalance(ctx context.Context, userID string) ([]Balance, error)
	SendPaymentReminders(ctx context.Context, now time.Time, days int) (int, error)
}

type service struct {
	debtRepo DebtRepository
	mailer   emailService.EmailSender
	now      func() time.Time
}

func NewDebtService(repo DebtRepository, mailer emailService.EmailSender) Service {
	return &service{debtRepo: repo, mailer: mailer, now: time.Now}
}

func (s *service) CreateDebt(ctx context.Context, debt *Debt) error {
	debt.ID = uuid.New()
	debt.IsPaidOff = false
	debt.PaidOffDate = nil
	normalize(debt)
	if err := validate(debt); err != nil {
		return err
	}

	now := s.now().UTC()
	debt.CreatedAt = now
	debt.UpdatedAt = now
	return s.debtRepo.Create(ctx, debt)
}

func (s *service) GetDebt(ctx context.Context, id uuid.UUID, userID string) (*Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDebtNotFound
		}
		return nil, err
	}
	return debt, nil
}

func (s *service) GetDebts(ctx context.Context, userID string, filter Filter) ([]Debt, error) {
	return s.debtRepo.List(ctx, userID, filter)
}

func (s *service) UpdateDebt(ctx context.Context, id uuid.UUID, userID string, update DebtUpdate) (*Debt, error) {
	debt, err := s.GetDebt(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.apply(debt)
	normalize(debt)
	if err := validate(debt); err != nil {
		return nil, err
	}
	return s.save(ctx, debt)
}

func (s *service) DeleteDebt(ctx context.Context, id uuid.UUID, userID string) error {
	affected, err := s.debtRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDebtNotFound
	}
	return nil
}

// PayOffDebt settles the debt: the balance drops to zero and the paid-off
// date is set. Settled debts cannot be paid off again.
func (s *service) PayOffDebt(ctx context.Context, id uuid.UUID, userID string) (*Debt, error) {
	affected, err := s.debtRepo.PayOff(ctx, id, userID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := s.GetDebt(ctx, id, userID); err != nil {
			return nil, err
		}
		return nil, ErrDebtAlreadyPaidOff
	}
	return s.GetDebt(ctx, id, userID)
}

func (s *service) save(ctx context.Context, debt *Debt) (*Debt, error) {
	debt.UpdatedAt = s.now().UTC()
	affected, err := s.debtRepo.Update(ctx, debt)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDebtNotFound
	}
	return debt, nil
}

func (s *service) GetSummary(ctx context.Context, userID, groupBy string) ([]SummaryRow, error) {
	if groupBy == "" {
		groupBy = GroupByDebtType
	}
	if groupBy != GroupByDebtType && groupBy != GroupByLender {
		return nil, ErrInvalidGroupBy
	}
	return s.debtRepo.Summary(ctx, userID, groupBy)
}

func (s *service) GetBalance(ctx context.Context, userID string) ([]Balance, error) {
	balances, err := s.debtRepo.BalanceByCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return []Balance{{TotalDebt: decimal.Zero, Currency: rules.DefaultCurrency}}, nil
	}
	return balances, nil
}

// SendPaymentReminders queues one e-mail per user listing the unpaid debts
// whose monthly due day falls within the next days days, today included.
// It returns the number of queued e-mails.
func (s *service) SendPaymentReminders(ctx context.Context, now time.Time, days int) (int, error) {
	payments, err := s.debtRepo.UpcomingPayments(ctx)
	if err != nil {
		return 0, err
	}

	type reminder struct {
		email string
		data  emailService.DebtReminderData
	}
	var order []string
	byUser := make(map[string]*reminder)

	for _, p := range payments {
		if !dueWithin(now, p.DueDay, days) {
			continue
		}
		r, ok := byUser[p.UserID]
		if !ok {
			r = &reminder{email: p.Email, data: emailService.DebtReminderData{UserName: p.UserName}}
			byUser[p.UserID] = r
			order = append(order, p.UserID)
		}
		r.data.Debts = append(r.data.Debts, emailService.DebtReminderLine{
			Name:           p.DebtName,
			Lender:         p.Lender,
			MinimumPayment: p.MinimumPayment.StringFixed(2),
			Currency:       p.Currency,
			DueDay:         p.DueDay,
		})
	}

	for _, userID := range order {
		r := byUser[userID]
		s.mailer.QueueEmail(r.email, r.data)
	}
	return len(order), nil
}

// dueWithin reports whether a monthly due day falls in [now, now+days]. In
// short months a due day past the month end falls on its last day.
func dueWithin(now time.Time, dueDay, days int) bool {
	for offset := 0; offset <= days; offset++ {
		day := now.AddDate(0, 0, offset)
		lastDay := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location()).Day()
		if min(dueDay, lastDay) == day.Day() {
			return true
		}
	}
	return false
}

func normalize(d *Debt) {
	d.Currency = rules.NormalizeCurrency(d.Currency)
	d.OriginalAmount = d.OriginalAmount.Round(2)
	d.CurrentBalance = d.CurrentBalance.Round(2)
	d.MinimumPayment = d.MinimumPayment.Round(2)
}

func validate(d *Debt) error {
	return rules.First(
		rules.Length("Name", d.Name, 1, 255),
		rules.Length("Debt type", d.DebtType, 1, 50),
		rules.Length("Lender", d.Lender, 1, 255),
		rules.Positive("Original amount", d.OriginalAmount),
		rules.NonNegative("Current balance", d.CurrentBalance),
		rules.Rate("Interest rate", d.InterestRate),
		rules.NonNegative("Minimum payment", d.MinimumPayment),
		rules.DueDay(d.PaymentDueDate),
		rules.Required("Loan start date", d.LoanStartDate),
		rules.After("Expected end date", "loan start date", d.ExpectedEndDate, d.LoanStartDate),
		rules.Currency(d.Currency),
		rules.OptionalLength("Collateral", d.Collateral, 255),
	)
}

func (u DebtUpdate) apply(d *Debt) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.DebtType != nil {
		d.DebtType = *u.DebtType
	}
	if u.Lender != nil {
		d.Lender = *u.Lender
	}
	if u.OriginalAmount != nil {
		d.OriginalAmount = *u.OriginalAmount
	}
	if u.CurrentBalance != nil {
		d.CurrentBalance = *u.CurrentBalance
	}
	if u.InterestRate != nil {
		d.InterestRate = *u.InterestRate
	}
	if u.MinimumPayment != nil {
		d.MinimumPayment = *u.MinimumPayment
	}
	if u.PaymentDueDate != nil {
		d.PaymentDueDate = u.PaymentDueDate
	}
	if u.LoanStartDate != nil {
		d.LoanStartDate = *u.LoanStartDate
	}
	if u.ExpectedEndDate != nil {
		d.ExpectedEndDate = u.ExpectedEndDate
	}
	if u.Currency != nil {
		d.Currency = *u.Currency
	}
	if u.Collateral != nil {
		d.Collateral = u.Collateral
	}
	if u.Notes != nil {
		d.Notes = u.Notes
	}
}
