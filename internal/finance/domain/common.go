package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const (
	CategoryTypeExpense = "expense"
	CategoryTypeIncome  = "income"

	DefaultCurrency = "COP"
	dateLayout      = "2006-01-02"
)

var (
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

	// MaxAmount is the first value a NUMERIC(14,2) column cannot hold.
	MaxAmount = decimal.New(1, 12)

	recurringFrequencies = map[string]bool{
		"daily":   true,
		"weekly":  true,
		"monthly": true,
		"yearly":  true,
	}
)

func IsValidCategoryType(categoryType string) bool {
	return categoryType == CategoryTypeExpense || categoryType == CategoryTypeIncome
}

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min == 0 {
			return financeErrors.NewValidationErrorf("%s must be at most %d characters", field, max)
		}
		return financeErrors.NewValidationErrorf("%s must be between %d and %d characters", field, min, max)
	}
	return nil
}

func validateOptionalLength(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return validateLength(field, *value, 0, max)
}

func validateColor(color *string) error {
	if color != nil && *color != "" && !colorPattern.MatchString(*color) {
		return financeErrors.NewValidationError("Color must be a hex value like #1A2B3C")
	}
	return nil
}

func validateRecurring(isRecurring bool, frequency *string) error {
	if frequency != nil && *frequency != "" && !recurringFrequencies[*frequency] {
		return financeErrors.NewValidationError("Recurring frequency must be one of daily, weekly, monthly, yearly")
	}
	if isRecurring && (frequency == nil || *frequency == "") {
		return financeErrors.NewValidationError("Recurring frequency is required for recurring entries")
	}
	return nil
}

func validatePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return financeErrors.NewValidationErrorf("%s must be greater than zero", field)
	}
	return validateBelowMax(field, amount)
}

func validateBelowMax(field string, amount decimal.Decimal) error {
	if amount.Round(2).GreaterThanOrEqual(MaxAmount) {
		return financeErrors.NewValidationErrorf("%s must be less than %s", field, MaxAmount.String())
	}
	return nil
}

func validateCurrency(currency string) error {
	if !currencyPattern.MatchString(currency) {
		return financeErrors.NewValidationError("Currency must be a 3 letter ISO code")
	}
	return nil
}

func validateDueDay(day *int) error {
	if day != nil && (*day < 1 || *day > 31) {
		return financeErrors.NewValidationError("Payment due date must be a day between 1 and 31")
	}
	return nil
}

// SummaryRow is one group of an aggregated listing.
type SummaryRow struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

// DateRange bounds a query by calendar day. End is inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// EndExclusive is the first instant after the End day.
func (r DateRange) EndExclusive() *time.Time {
	if r.End == nil {
		return nil
	}
	t := r.End.AddDate(0, 0, 1)
	return &t
}

// Date is a calendar day without time of day, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("date must use the YYYY-MM-DD format: %w", err)
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
