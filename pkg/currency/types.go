package currency

import (
	"errors"
	"net/http"
	"time"
)

const (
	DefaultURL      = "https://www.cbr-xml-daily.ru/daily_json.js"
	DefaultCacheTTL = time.Hour
	DefaultTimeout  = 10 * time.Second

	// Base is the currency all CBR rates are quoted against.
	Base = "RUB"
)

var (
	ErrUnknownCurrency = errors.New("currency: unknown currency")
	ErrInvalidAmount   = errors.New("currency: amount must be positive")
)

type Config struct {
	URL        string
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Conversion is the rounded result of converting Amount From -> To.
type Conversion struct {
	Amount float64
	From   string
	To     string
	Result float64 // two decimals
	Rate   float64 // four decimals, units of To per one From
}

type cbrDaily struct {
	Valute map[string]struct {
		CharCode string  `json:"CharCode"`
		Nominal  float64 `json:"Nominal"`
		Value    float64 `json:"Value"`
	} `json:"Valute"`
}
