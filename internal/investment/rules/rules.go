// Package rules holds the field checks shared by investments, financial
// products and debts. Every failure is a finance ValidationError, so handlers
// answer it with 400.
package rules

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "COP"

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

	// MaxAmount is the first value a NUMERIC(14,2) column cannot hold.
	MaxAmount = decimal.New(1, 12)
	// MaxRate is the first value a NUMERIC(7,4) column cannot hold.
	MaxRate = decimal.New(1, 3)
)

func Length(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n >= min && n <= max {
		return nil
	}
	if min == 0 {
		return financeErrors.NewValidationErrorf("%s must be at most %d characters", field, max)
	}
	return financeErrors.NewValidationErrorf("%s must be between %d and %d characters", field, min, max)
}

func OptionalLength(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return Length(field, *value, 0, max)
}

func Positive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return financeErrors.NewValidationErrorf("%s must be greater than zero", field)
	}
	return below(field, amount, MaxAmount)
}

func NonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return financeErrors.NewValidationErrorf("%s must not be negative", field)
	}
	return below(field, amount, MaxAmount)
}

func NullNonNegative(field string, amount decimal.NullDecimal) error {
	if !amount.Valid {
		return nil
	}
	return NonNegative(field, amount.Decimal)
}

// Bounded accepts any sign as long as the magnitude fits a money column.
func Bounded(field string, amount decimal.Decimal) error {
	return below(field, amount.Abs(), MaxAmount)
}

func NullBounded(field string, amount decimal.NullDecimal) error {
	if !amount.Valid {
		return nil
	}
	return Bounded(field, amount.Decimal)
}

// Rate is a non-negative percentage below MaxRate.
func Rate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return financeErrors.NewValidationErrorf("%s must not be negative", field)
	}
	return below(field, rate, MaxRate)
}

func NullRate(field string, rate decimal.NullDecimal) error {
	if !rate.Valid {
		return nil
	}
	return Rate(field, rate.Decimal)
}

func below(field string, amount, limit decimal.Decimal) error {
	if amount.Round(4).GreaterThanOrEqual(limit) {
		return financeErrors.NewValidationErrorf("%s must be less than %s", field, limit.String())
	}
	return nil
}

func Currency(currency string) error {
	if !currencyPattern.MatchString(currency) {
		return financeErrors.NewValidationError("Currency must be a 3 letter ISO code")
	}
	return nil
}

func DueDay(day *int) error {
	if day != nil && (*day < 1 || *day > 31) {
		return financeErrors.NewValidationError("Payment due date must be a day between 1 and 31")
	}
	return nil
}

func Required(field string, t time.Time) error {
	if t.IsZero() {
		return financeErrors.NewValidationErrorf("%s is required", field)
	}
	return nil
}

// After fails when later is set and does not come after earlier.
func After(field, otherField string, later *time.Time, earlier time.Time) error {
	if later != nil && !later.After(earlier) {
		return financeErrors.NewValidationErrorf("%s must be after %s", field, otherField)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// NormalizeCurrency upper-cases the code and falls back to DefaultCurrency.
func NormalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

// Round2 rounds a nullable amount to cents.
func Round2(amount decimal.NullDecimal) decimal.NullDecimal {
	if amount.Valid {
		amount.Decimal = amount.Decimal.Round(2)
	}
	return amount
}

// Set turns a pointer update into a nullable amount.
func Set(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *value, Valid: true}
}
