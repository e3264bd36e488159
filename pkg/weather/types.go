package weather

import (
	"errors"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrNotConfigured = errors.New("weather: API key is not configured")
	ErrCityNotFound  = errors.New("weather: city not found")
)

type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Current is the rounded current conditions for a city.
type Current struct {
	City        string
	Temp        int
	FeelsLike   int
	Description string
	Humidity    int
	Wind        int
	Icon        string
}

// Forecast holds the 3-hour forecast entries of one calendar day.
type Forecast struct {
	City    string
	Date    string
	Entries []ForecastEntry
}

type ForecastEntry struct {
	Time        string // HH:MM
	Temp        int
	FeelsLike   int
	Description string
}

// OpenWeatherMap wire types.

type owmCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type owmCurrent struct {
	Name    string         `json:"name"`
	Main    owmMain        `json:"main"`
	Weather []owmCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecast struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		DtTxt   string         `json:"dt_txt"`
		Main    owmMain        `json:"main"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
}
