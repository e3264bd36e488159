package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const ratesKey = "daily"

// Client converts amounts using the Central Bank of Russia daily rates.
// Rates are cached for the configured TTL.
type Client struct {
	url        string
	httpClient *http.Client
	cache      *expirable.LRU[string, map[string]float64]
}

func New(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		url:        cfg.URL,
		httpClient: cfg.HTTPClient,
		cache:      expirable.NewLRU[string, map[string]float64](1, nil, cfg.CacheTTL),
	}
}

// Rates returns RUB per one unit of each currency code. RUB itself is 1.
func (c *Client) Rates(ctx context.Context) (map[string]float64, error) {
	if rates, ok := c.cache.Get(ratesKey); ok {
		return rates, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("currency: failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("currency: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency: CBR API error: %d", resp.StatusCode)
	}

	var daily cbrDaily
	if err := json.NewDecoder(resp.Body).Decode(&daily); err != nil {
		return nil, fmt.Errorf("currency: failed to decode rates: %w", err)
	}

	rates := map[string]float64{Base: 1}
	for _, v := range daily.Valute {
		if v.Nominal <= 0 || v.CharCode == "" {
			continue
		}
		rates[v.CharCode] = v.Value / v.Nominal
	}

	c.cache.Add(ratesKey, rates)
	return rates, nil
}

// Convert converts through RUB.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (Conversion, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Conversion{}, ErrInvalidAmount
	}

	rates, err := c.Rates(ctx)
	if err != nil {
		return Conversion{}, err
	}

	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	fromRate, ok := rates[from]
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := rates[to]
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}

	return Conversion{
		Amount: amount,
		From:   from,
		To:     to,
		Result: roundTo(amount*fromRate/toRate, 2),
		Rate:   roundTo(fromRate/toRate, 4),
	}, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
