package repositories

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"weather-tracks/config"
	"weather-tracks/internal/models"
	"weather-tracks/pkg/observe"
)

// HTTPClient is the subset of *http.Client the repositories rely on.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type TokenRepository interface {
	Name() string
	AcquireToken(ctx context.Context) (string, error)
}

type TrackRepository interface {
	Name() string
	SearchTrack(ctx context.Context, token, query string) (models.Track, bool, error)
}

type ForecastRepository interface {
	Name() string
	FetchTimeseries(ctx context.Context, lat, lon float64) ([]any, error)
}

// StatusError reports an upstream answer other than 200 OK.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP error (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// Repositories bundles the upstream clients built from one Config.
type Repositories struct {
	Token    TokenRepository
	Tracks   TrackRepository
	Forecast ForecastRepository
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func InitRepositories(cfg *config.Config, l *observe.Logger) Repositories {
	httpClient := NewHTTPClient(cfg.HTTP.Timeout)

	var forecastClient HTTPClient = httpClient
	if cfg.Forecast.RateLimit > 0 {
		forecastClient = NewRateLimitedClient(httpClient, cfg.Forecast.RateLimit, cfg.Forecast.Burst)
	}

	return Repositories{
		Token:    NewSpotifyTokenRepository(cfg.Credentials(), cfg.Spotify.TokenURL, httpClient, l),
		Tracks:   NewSpotifySearchRepository(cfg.Spotify.SearchURL, httpClient, l),
		Forecast: NewMetNoRepository(cfg.Forecast.BaseURL, cfg.Forecast.UserAgent, forecastClient, l),
	}
}
