//go:build integration

package database_test

import (
	"context"

	emailService "github.com/sebuszqo/FinanceLedger/internal/email"
	"github.com/shopspring/decimal"
)

type recordingMailer struct {
	to []string
}

func (m *recordingMailer) QueueEmail(to string, _ emailService.EmailData) {
	m.to = append(m.to, to)
}

type stubPrices map[string]decimal.Decimal

func (s stubPrices) FetchBatchPrices(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		if price, ok := s[symbol]; ok {
			prices[symbol] = price
		}
	}
	return prices, nil
}
