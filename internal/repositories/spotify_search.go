package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-tracks/internal/models"
	"weather-tracks/pkg/jsonpath"
	"weather-tracks/pkg/observe"
)

var ErrEmptyToken = errors.New("access token is empty")

type SpotifySearchRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewSpotifySearchRepository(baseURL string, httpClient HTTPClient, l *observe.Logger) *SpotifySearchRepository {
	return &SpotifySearchRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (s *SpotifySearchRepository) Name() string {
	return "spotify-search"
}

// SearchTrack runs a track search and returns the first hit. found is false
// when the search succeeded but matched nothing.
func (s *SpotifySearchRepository) SearchTrack(ctx context.Context, token, query string) (track models.Track, found bool, err error) {
	if token == "" {
		return models.Track{}, false, ErrEmptyToken
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return models.Track{}, false, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	s.l.Info("making spotify search request", map[string]any{
		"repository": s.Name(),
		"query":      query,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Track{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Track{}, false, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Track{}, false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.l.Warning("failed to retrieve results", map[string]any{
			"repository": s.Name(),
			"status":     resp.StatusCode,
			"body":       string(body),
		})
		return models.Track{}, false, &StatusError{Op: "search track", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Track{}, false, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	items, _ := jsonpath.Slice(payload, "tracks", "items")
	if len(items) == 0 {
		s.l.Info("no track found", map[string]any{
			"repository": s.Name(),
			"query":      query,
		})
		return models.Track{}, false, nil
	}

	first := items[0]
	track = models.Track{
		Name:   stringAt(first, "name"),
		Artist: stringAt(first, "artists", 0, "name"),
		URL:    stringAt(first, "external_urls", "spotify"),
	}

	s.l.Info("parsed spotify search response", map[string]any{
		"repository": s.Name(),
		"items":      len(items),
		"track":      track.Name,
	})

	return track, true, nil
}

func stringAt(data any, path ...any) string {
	s, _ := jsonpath.String(data, path...)
	return s
}
