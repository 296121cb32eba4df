package http

import (
	"context"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weather-tracks/internal/models"
	"weather-tracks/pkg/observe"
)

// TrackService looks up the first track matching a search query.
type TrackService interface {
	Lookup(ctx context.Context, query string) (models.Track, bool, error)
}

// ForecastService fetches and parses a location's forecast.
type ForecastService interface {
	Forecast(ctx context.Context, lat, lon float64) (models.Series, error)
}

// ChartRenderer draws a series as PNG.
type ChartRenderer interface {
	Render(series models.Series, w io.Writer) error
}

type routes struct {
	tracks       TrackService
	forecasts    ForecastService
	chart        ChartRenderer
	defaultQuery string
	l            *observe.Logger
}

func NewRouter(
	app *fiber.App,
	trackService TrackService,
	forecastService ForecastService,
	chart ChartRenderer,
	defaultQuery string,
	l *observe.Logger,
) {
	r := &routes{
		tracks:       trackService,
		forecasts:    forecastService,
		chart:        chart,
		defaultQuery: defaultQuery,
		l:            l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	app.Get("/track", r.handleTrackCall)
	app.Get("/forecast", r.handleForecastCall)
	app.Get("/forecast/chart", r.handleChartCall)
}
