package weather

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-tracks/internal/models"
	"weather-tracks/internal/repositories"
	"weather-tracks/pkg/observe"
)

// ErrNoData means the upstream answered but there was nothing to chart.
var ErrNoData = errors.New("no timeseries data found")

// Renderer writes a chart of a series to path.
type Renderer interface {
	RenderFile(series models.Series, path string) error
}

// Viewer displays a rendered chart.
type Viewer interface {
	Show(path string) error
}

// WeatherService represents the weather report pipeline.
type WeatherService struct {
	repo     repositories.ForecastRepository
	renderer Renderer
	viewer   Viewer
	l        *observe.Logger
}

func NewWeatherService(repo repositories.ForecastRepository, renderer Renderer, l *observe.Logger) *WeatherService {
	return &WeatherService{
		repo:     repo,
		renderer: renderer,
		l:        l,
	}
}

// WithViewer enables displaying the chart after it is written.
func (s *WeatherService) WithViewer(v Viewer) *WeatherService {
	s.viewer = v
	return s
}

// Forecast fetches and parses the timeseries for a location.
func (s *WeatherService) Forecast(ctx context.Context, lat, lon float64) (models.Series, error) {
	return s.forecast(ctx, uuid.NewString(), lat, lon)
}

// Report fetches the forecast and renders it to path.
func (s *WeatherService) Report(ctx context.Context, lat, lon float64, path string) (models.Series, error) {
	runID := uuid.NewString()

	series, err := s.forecast(ctx, runID, lat, lon)
	if err != nil {
		return series, err
	}

	if err := s.renderer.RenderFile(series, path); err != nil {
		s.l.Error(err, map[string]any{"run_id": runID, "path": path})
		return series, errors.Wrap(err, "render chart")
	}

	s.l.Info("chart written", map[string]any{
		"run_id":  runID,
		"path":    path,
		"entries": series.Len(),
	})

	if s.viewer != nil {
		if err := s.viewer.Show(path); err != nil {
			s.l.Warning("cannot display chart", map[string]any{"run_id": runID, "err": err.Error()})
		}
	}

	return series, nil
}

func (s *WeatherService) forecast(ctx context.Context, runID string, lat, lon float64) (models.Series, error) {
	s.l.Info("starting forecast fetch", map[string]any{
		"run_id":     runID,
		"repository": s.repo.Name(),
		"lat":        lat,
		"lon":        lon,
	})

	entries, err := s.repo.FetchTimeseries(ctx, lat, lon)
	if err != nil {
		s.l.Warning("failed to fetch forecast", map[string]any{
			"run_id":     runID,
			"repository": s.repo.Name(),
			"err":        err.Error(),
		})
		return models.Series{}, errors.Wrap(err, "fetch forecast")
	}
	if len(entries) == 0 {
		return models.Series{}, ErrNoData
	}

	series := ParseSeries(entries, s.l)

	s.l.Info("completed forecast parse", map[string]any{
		"run_id":   runID,
		"received": len(entries),
		"kept":     series.Len(),
	})

	if series.Len() == 0 {
		return series, ErrNoData
	}
	return series, nil
}
