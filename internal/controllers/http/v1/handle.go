package http

import (
	"bytes"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"weather-tracks/internal/models"
	"weather-tracks/internal/services/weather"
)

// TrackResponse represents the first track found for a query
type TrackResponse struct {
	Query  string `json:"query" example:"remaster track:Cry For Me artist:The Weeknd"`
	Name   string `json:"name" example:"Cry For Me"`
	Artist string `json:"artist" example:"The Weeknd"`
	URL    string `json:"url" example:"https://open.spotify.com/track/6B2Gt8BqGhBzWwqVgXbS8y"`
}

// ForecastResponse represents the parsed forecast timeseries
type ForecastResponse struct {
	Latitude  float64                `json:"latitude" example:"63.370918"`
	Longitude float64                `json:"longitude" example:"10.380253"`
	Count     int                    `json:"count" example:"84"`
	Entries   []models.ForecastEntry `json:"entries"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

// GetTrack godoc
// @Summary Look up a track
// @Description Searches the music catalog and returns the first matching track
// @Tags Tracks
// @Produce json
// @Param q query string false "Search query (defaults to the configured query)" example(remaster track:Cry For Me artist:The Weeknd)
// @Success 200 {object} TrackResponse "Successful response"
// @Failure 404 {object} ErrorResponse "No track matched the query"
// @Failure 502 {object} ErrorResponse "Upstream service failure"
// @Router /track [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/track?q=track:Blinding%20Lights"
func (r *routes) handleTrackCall(c *fiber.Ctx) error {
	query := c.Query("q", r.defaultQuery)
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: q",
		})
	}

	track, found, err := r.tracks.Lookup(c.Context(), query)
	if err != nil {
		r.l.Error(err, map[string]any{"query": query})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Failed to fetch track data",
		})
	}

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "No track found",
		})
	}

	return c.JSON(TrackResponse{
		Query:  query,
		Name:   track.Name,
		Artist: track.Artist,
		URL:    track.URL,
	})
}

// GetForecast godoc
// @Summary Get weather forecast
// @Description Retrieves the met.no timeseries for a location; absent readings are null
// @Tags Weather
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(63.370918)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(10.380253)
// @Success 200 {object} ForecastResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "No forecast data"
// @Failure 502 {object} ErrorResponse "Upstream service failure"
// @Router /forecast [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/forecast?lat=63.370918&lon=10.380253"
func (r *routes) handleForecastCall(c *fiber.Ctx) error {
	lat, lon, ok := r.parseCoordinates(c)
	if !ok {
		return nil
	}

	series, err := r.forecasts.Forecast(c.Context(), lat, lon)
	if err != nil {
		return r.forecastError(c, err, lat, lon)
	}

	return c.JSON(ForecastResponse{
		Latitude:  lat,
		Longitude: lon,
		Count:     series.Len(),
		Entries:   series.Entries(),
	})
}

// GetForecastChart godoc
// @Summary Get weather forecast chart
// @Description Renders temperature, humidity, wind speed and wind direction panels as PNG
// @Tags Weather
// @Produce png
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(63.370918)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(10.380253)
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "No forecast data"
// @Failure 500 {object} ErrorResponse "Chart rendering failure"
// @Failure 502 {object} ErrorResponse "Upstream service failure"
// @Router /forecast/chart [get]
// @Example {curl} Example usage:
//
//	curl -o weather_plot.png "http://localhost:8080/forecast/chart?lat=63.370918&lon=10.380253"
func (r *routes) handleChartCall(c *fiber.Ctx) error {
	lat, lon, ok := r.parseCoordinates(c)
	if !ok {
		return nil
	}

	series, err := r.forecasts.Forecast(c.Context(), lat, lon)
	if err != nil {
		return r.forecastError(c, err, lat, lon)
	}

	var buf bytes.Buffer
	if err := r.chart.Render(series, &buf); err != nil {
		r.l.Error(err, map[string]any{"lat": lat, "lon": lon})

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to render chart",
		})
	}

	c.Type("png")
	return c.Send(buf.Bytes())
}

func (r *routes) forecastError(c *fiber.Ctx, err error, lat, lon float64) error {
	if errors.Is(err, weather.ErrNoData) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "No forecast data for this location",
		})
	}

	r.l.Error(err, map[string]any{
		"lat": lat,
		"lon": lon,
	})

	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Error: "Failed to fetch weather data",
	})
}

// parseCoordinates writes a 400 response and returns ok == false when the
// lat/lon query parameters are missing or out of range.
func (r *routes) parseCoordinates(c *fiber.Ctx) (lat, lon float64, ok bool) {
	latRaw := c.Query("lat")
	lonRaw := c.Query("lon")

	badRequest := func(msg string) (float64, float64, bool) {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
		return 0, 0, false
	}

	if latRaw == "" {
		return badRequest("Missing required parameter: lat")
	}

	if lonRaw == "" {
		return badRequest("Missing required parameter: lon")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return badRequest("Invalid latitude format")
	}

	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return badRequest("Latitude must be between -90 and 90")
	}

	lon, err = strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return badRequest("Invalid longitude format")
	}

	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return badRequest("Longitude must be between -180 and 180")
	}

	return lat, lon, true
}
