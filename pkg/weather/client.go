package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client queries the OpenWeatherMap current weather and 5 day forecast endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
	}, nil
}

// Current returns current conditions in metric units.
func (c *Client) Current(ctx context.Context, city string) (Current, error) {
	var raw owmCurrent
	if err := c.get(ctx, "/weather", city, &raw); err != nil {
		return Current{}, err
	}

	out := Current{
		City:      raw.Name,
		Temp:      round(raw.Main.Temp),
		FeelsLike: round(raw.Main.FeelsLike),
		Humidity:  raw.Main.Humidity,
		Wind:      round(raw.Wind.Speed),
	}
	if len(raw.Weather) > 0 {
		out.Description = raw.Weather[0].Description
		out.Icon = raw.Weather[0].Icon
	}
	return out, nil
}

// Forecast returns the forecast entries whose timestamp falls on date
// (YYYY-MM-DD, UTC as reported by the API). An empty date means today.
func (c *Client) Forecast(ctx context.Context, city, date string) (Forecast, error) {
	if date == "" {
		date = time.Now().UTC().Format(time.DateOnly)
	}

	var raw owmForecast
	if err := c.get(ctx, "/forecast", city, &raw); err != nil {
		return Forecast{}, err
	}

	out := Forecast{City: raw.City.Name, Date: date}
	for _, item := range raw.List {
		day, clock, ok := strings.Cut(item.DtTxt, " ")
		if !ok || day != date {
			continue
		}
		entry := ForecastEntry{
			Time:      clock[:min(5, len(clock))],
			Temp:      round(item.Main.Temp),
			FeelsLike: round(item.Main.FeelsLike),
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path, city string, dst any) error {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrCityNotFound, city)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("weather: API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("weather: failed to decode response: %w", err)
	}
	return nil
}

func round(v float64) int {
	return int(math.Round(v))
}
