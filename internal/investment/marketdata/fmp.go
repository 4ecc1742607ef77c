package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxSymbolsPerRequest caps the comma separated symbol list of a single
// quote request.
const maxSymbolsPerRequest = 50

var ErrMissingAPIKey = errors.New("market data api key is not configured")

type FinancialModelingPrepClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewFMPClient(baseURL, apiKey string) *FinancialModelingPrepClient {
	return &FinancialModelingPrepClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type quote struct {
	Symbol string           `json:"symbol"`
	Price  *decimal.Decimal `json:"price"`
}

// FetchBatchPrices returns the latest price per symbol. Symbols the provider
// does not know are missing from the result.
func (c *FinancialModelingPrepClient) FetchBatchPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	prices := make(map[string]decimal.Decimal, len(symbols))
	for start := 0; start < len(symbols); start += maxSymbolsPerRequest {
		end := min(start+maxSymbolsPerRequest, len(symbols))
		quotes, err := c.fetchQuotes(ctx, symbols[start:end])
		if err != nil {
			return nil, err
		}
		for _, q := range quotes {
			if q.Price == nil {
				continue
			}
			prices[strings.ToUpper(q.Symbol)] = *q.Price
		}
	}
	return prices, nil
}

func (c *FinancialModelingPrepClient) fetchQuotes(ctx context.Context, symbols []string) ([]quote, error) {
	escaped := make([]string, len(symbols))
	for i, symbol := range symbols {
		escaped[i] = url.PathEscape(symbol)
	}
	fullURL := fmt.Sprintf("%s/quote/%s?apikey=%s", c.baseURL, strings.Join(escaped, ","), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query market data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error querying API: %s", resp.Status)
	}

	var quotes []quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	return quotes, nil
}
