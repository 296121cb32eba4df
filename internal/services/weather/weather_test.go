package weather_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-tracks/internal/models"
	"weather-tracks/internal/repositories"
	"weather-tracks/internal/services/weather"
	"weather-tracks/pkg/observe"
)

// MockRepository implements ForecastRepository for testing
type MockRepository struct {
	entries    []any
	shouldFail bool
	callCount  int
	lat, lon   float64
}

func (m *MockRepository) Name() string {
	return "mock-forecast"
}

func (m *MockRepository) FetchTimeseries(ctx context.Context, lat, lon float64) ([]any, error) {
	m.callCount++
	m.lat, m.lon = lat, lon
	if m.shouldFail {
		return nil, &repositories.StatusError{Op: "fetch forecast", StatusCode: 503, Body: "unavailable"}
	}
	return m.entries, nil
}

type MockRenderer struct {
	err      error
	rendered []models.Series
	paths    []string
}

func (m *MockRenderer) RenderFile(series models.Series, path string) error {
	m.rendered = append(m.rendered, series)
	m.paths = append(m.paths, path)
	return m.err
}

type MockViewer struct {
	err   error
	shown []string
}

func (m *MockViewer) Show(path string) error {
	m.shown = append(m.shown, path)
	return m.err
}

func testLogger() *observe.Logger {
	return observe.NewZapLogger("test-app", io.Discard)
}

func sampleEntries() []any {
	return []any{
		map[string]any{
			"time": "2025-06-03T12:00:00Z",
			"data": map[string]any{"instant": map[string]any{"details": map[string]any{
				"air_temperature":     14.2,
				"relative_humidity":   71.5,
				"wind_speed":          3.4,
				"wind_from_direction": 212.9,
			}}},
		},
		map[string]any{"data": map[string]any{}},
		"garbage",
	}
}

func TestNewWeatherService(t *testing.T) {
	service := weather.NewWeatherService(&MockRepository{}, &MockRenderer{}, testLogger())
	assert.NotNil(t, service)
}

func TestWeatherService_Forecast_Success(t *testing.T) {
	repo := &MockRepository{entries: sampleEntries()}
	service := weather.NewWeatherService(repo, &MockRenderer{}, testLogger())

	series, err := service.Forecast(context.Background(), 63.37, 10.38)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
	assert.Equal(t, 1, repo.callCount)
	assert.InDelta(t, 63.37, repo.lat, 1e-9)
	assert.InDelta(t, 10.38, repo.lon, 1e-9)
}

func TestWeatherService_Forecast_UpstreamFailure(t *testing.T) {
	service := weather.NewWeatherService(&MockRepository{shouldFail: true}, &MockRenderer{}, testLogger())

	series, err := service.Forecast(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Equal(t, 0, series.Len())

	var statusErr *repositories.StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestWeatherService_Forecast_NoData(t *testing.T) {
	service := weather.NewWeatherService(&MockRepository{}, &MockRenderer{}, testLogger())

	_, err := service.Forecast(context.Background(), 1, 1)
	assert.ErrorIs(t, err, weather.ErrNoData)
}

func TestWeatherService_Forecast_AllEntriesDropped(t *testing.T) {
	repo := &MockRepository{entries: []any{"a", map[string]any{"time": "never"}}}
	service := weather.NewWeatherService(repo, &MockRenderer{}, testLogger())

	_, err := service.Forecast(context.Background(), 1, 1)
	assert.ErrorIs(t, err, weather.ErrNoData)
}

func TestWeatherService_Report_RendersAndShows(t *testing.T) {
	renderer := &MockRenderer{}
	viewer := &MockViewer{}
	service := weather.NewWeatherService(&MockRepository{entries: sampleEntries()}, renderer, testLogger()).
		WithViewer(viewer)

	series, err := service.Report(context.Background(), 1, 1, "weather_plot.png")
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
	require.Len(t, renderer.rendered, 1)
	assert.Equal(t, series, renderer.rendered[0])
	assert.Equal(t, []string{"weather_plot.png"}, renderer.paths)
	assert.Equal(t, []string{"weather_plot.png"}, viewer.shown)
}

func TestWeatherService_Report_ViewerFailureIsNotFatal(t *testing.T) {
	viewer := &MockViewer{err: errors.New("no display")}
	service := weather.NewWeatherService(&MockRepository{entries: sampleEntries()}, &MockRenderer{}, testLogger()).
		WithViewer(viewer)

	_, err := service.Report(context.Background(), 1, 1, "out.png")
	assert.NoError(t, err)
	assert.Len(t, viewer.shown, 1)
}

func TestWeatherService_Report_RenderFailure(t *testing.T) {
	renderer := &MockRenderer{err: errors.New("disk full")}
	viewer := &MockViewer{}
	service := weather.NewWeatherService(&MockRepository{entries: sampleEntries()}, renderer, testLogger()).
		WithViewer(viewer)

	_, err := service.Report(context.Background(), 1, 1, "out.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, viewer.shown)
}

func TestWeatherService_Report_NothingToDo(t *testing.T) {
	renderer := &MockRenderer{}
	service := weather.NewWeatherService(&MockRepository{}, renderer, testLogger())

	_, err := service.Report(context.Background(), 1, 1, "out.png")
	assert.ErrorIs(t, err, weather.ErrNoData)
	assert.Empty(t, renderer.rendered)
}
