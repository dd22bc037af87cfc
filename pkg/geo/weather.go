package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/journal"
)

const (
	DefaultWeatherURL = "https://api.open-meteo.com"
	// DefaultWeather is shown when the forecast cannot be fetched.
	DefaultWeather = "24°C"
)

// OpenMeteo reads the current temperature from the Open-Meteo forecast API.
type OpenMeteo struct {
	BaseURL string
	Client  *http.Client
}

func NewOpenMeteo(baseURL string) *OpenMeteo {
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	return &OpenMeteo{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type forecastReply struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
	} `json:"current_weather"`
}

// Current returns the temperature at c rounded to whole degrees, like "24°C".
func (o *OpenMeteo) Current(ctx context.Context, c journal.Coordinates) (string, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo: open-meteo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo: open-meteo: unexpected status %s", resp.Status)
	}

	var reply forecastReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("geo: open-meteo: decode: %w", err)
	}
	if reply.CurrentWeather == nil {
		return "", fmt.Errorf("geo: open-meteo: no current weather")
	}
	return FormatTemperature(reply.CurrentWeather.Temperature), nil
}

// FormatTemperature renders celsius like "24°C".
func FormatTemperature(celsius float64) string {
	return fmt.Sprintf("%d°C", int(math.Round(celsius)))
}

// CurrentOr returns the weather at c, or DefaultWeather when w is nil or
// the request fails.
func CurrentOr(ctx context.Context, w *OpenMeteo, c journal.Coordinates) string {
	if w == nil {
		return DefaultWeather
	}
	s, err := w.Current(ctx, c)
	if err != nil {
		zap.S().Debugw("weather lookup failed", "at", c.String(), "error", err)
		return DefaultWeather
	}
	return s
}
