// Package weather fetches current conditions from OpenWeatherMap. Every
// failure mode degrades to a placeholder reading; the weather task never
// sees an error from a reachable network problem, only from caller misuse.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/retry"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// fallbackTemperatureC is shown whenever no real reading is available.
const fallbackTemperatureC = 20

var conditionCaser = cases.Title(language.English)

// Client queries OpenWeatherMap when an API key is configured and serves
// placeholder readings otherwise.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	baseURL    string
	retry      retry.Policy
}

// NewClient builds a weather client. An empty apiKey selects the offline
// placeholder mode.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		retry:      retry.DefaultPolicy(),
	}
}

// openWeatherResponse mirrors the subset of the API payload we read.
type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Fetch returns the current weather for the configured location. Provider
// or network trouble yields a placeholder value, not an error, so the
// previous reading is only kept on genuine collector failure upstream.
func (c *Client) Fetch(ctx context.Context, cfg *config.Config) (state.WeatherInfo, error) {
	if c.apiKey == "" {
		return state.WeatherInfo{
			LocationDisplay: cfg.Weather.Location,
			TemperatureC:    fallbackTemperatureC,
			Condition:       "Weather data unavailable",
			IconName:        state.StringPtr("unknown"),
		}, nil
	}
	return c.fetchOpenWeather(ctx, cfg)
}

func (c *Client) fetchOpenWeather(ctx context.Context, cfg *config.Config) (state.WeatherInfo, error) {
	query := url.Values{}
	query.Set("q", cfg.Weather.Location)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	requestURL := c.baseURL + "?" + query.Encode()

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		if ctx.Err() != nil {
			return state.WeatherInfo{}, ctx.Err()
		}
		c.logger.Warn("Failed to connect to weather service", "error", err)
		return c.fallback(cfg, "Network error"), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fallbackForStatus(cfg, resp.StatusCode), nil
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("Failed to parse weather response", "error", err)
		return c.fallback(cfg, "Invalid response"), nil
	}

	if len(payload.Weather) == 0 {
		c.logger.Warn("Weather response contained no weather data")
		return c.fallback(cfg, "No weather data"), nil
	}
	primary := payload.Weather[0]

	return state.WeatherInfo{
		LocationDisplay: fmt.Sprintf("%s, %s", payload.Name, payload.Sys.Country),
		TemperatureC:    int(math.Round(payload.Main.Temp)),
		Condition:       conditionCaser.String(primary.Description),
		IconName:        state.StringPtr(iconFor(primary.Icon)),
	}, nil
}

// get performs the request, retrying transport errors under the backoff
// policy. Status codes are not retried; they are deterministic answers.
func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 && !c.retry.Wait(ctx, attempt) {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) fallbackForStatus(cfg *config.Config, status int) state.WeatherInfo {
	switch {
	case status == http.StatusUnauthorized:
		c.logger.Warn("Weather API key is invalid or missing")
		return c.fallback(cfg, "Invalid API key")
	case status == http.StatusForbidden:
		c.logger.Warn("Weather API access forbidden, check API key permissions")
		return c.fallback(cfg, "API access forbidden")
	case status == http.StatusTooManyRequests:
		c.logger.Warn("Weather API rate limit exceeded")
		return c.fallback(cfg, "Rate limit exceeded")
	case status == http.StatusNotFound:
		c.logger.Warn("Weather location not found", "location", cfg.Weather.Location)
		return c.fallback(cfg, "Location not found")
	case status >= 500 && status <= 599:
		c.logger.Warn("Weather service is currently unavailable", "status", status)
		return c.fallback(cfg, "Service unavailable")
	default:
		c.logger.Warn("Weather API returned unexpected status", "status", status)
		return c.fallback(cfg, "API error")
	}
}

func (c *Client) fallback(cfg *config.Config, reason string) state.WeatherInfo {
	return state.WeatherInfo{
		LocationDisplay: cfg.Weather.Location,
		TemperatureC:    fallbackTemperatureC,
		Condition:       "Weather unavailable: " + reason,
		IconName:        state.StringPtr("unknown"),
	}
}

// iconNames maps OpenWeatherMap icon code prefixes to theme icon names.
var iconNames = map[string]string{
	"01": "clear",
	"02": "few-clouds",
	"03": "scattered-clouds",
	"04": "broken-clouds",
	"09": "shower-rain",
	"10": "rain",
	"11": "thunderstorm",
	"13": "snow",
	"50": "mist",
}

// iconFor strips the trailing day/night marker and resolves the base code.
func iconFor(icon string) string {
	if icon == "" {
		return "unknown"
	}
	if name, ok := iconNames[icon[:len(icon)-1]]; ok {
		return name
	}
	if name, ok := iconNames[icon]; ok {
		return name
	}
	return "unknown"
}
