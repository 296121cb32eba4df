package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"weather-tracks/pkg/jsonpath"
	"weather-tracks/pkg/observe"
)

// MetNoRepository reads the met.no locationforecast API. The provider's
// terms require an identifying User-Agent on every request.
type MetNoRepository struct {
	BaseURL    string
	UserAgent  string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewMetNoRepository(baseURL, userAgent string, httpClient HTTPClient, l *observe.Logger) *MetNoRepository {
	return &MetNoRepository{
		BaseURL:    baseURL,
		UserAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}
}

func (m *MetNoRepository) Name() string {
	return "met-no"
}

// FetchTimeseries returns the raw properties.timeseries entries. A payload
// without entries yields a nil slice and a nil error.
func (m *MetNoRepository) FetchTimeseries(ctx context.Context, lat, lon float64) ([]any, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	u, err := url.Parse(m.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	// met.no rejects more than four decimals.
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	u.RawQuery = q.Encode()

	m.l.Info("making met.no API request", map[string]any{
		"repository": m.Name(),
		"lat":        lat,
		"lon":        lon,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", m.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	m.l.Info("received met.no API response", map[string]any{
		"repository": m.Name(),
		"status":     resp.StatusCode,
		"expires":    resp.Header.Get("Expires"),
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		m.l.Warning("failed to retrieve data", map[string]any{
			"repository": m.Name(),
			"status":     resp.StatusCode,
		})
		return nil, &StatusError{Op: "fetch forecast", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	timeseries, _ := jsonpath.Get(payload, []any{}, "properties", "timeseries").([]any)
	if len(timeseries) == 0 {
		m.l.Warning("no timeseries data found", map[string]any{
			"repository": m.Name(),
		})
		return nil, nil
	}

	m.l.Info("parsed met.no API response", map[string]any{
		"repository": m.Name(),
		"entries":    len(timeseries),
	})

	return timeseries, nil
}

func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", lon)
	}
	return nil
}
