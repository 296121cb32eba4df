// Command weather-report fetches the met.no forecast for the configured
// location and writes it as a four-panel PNG chart.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"weather-tracks/config"
	"weather-tracks/internal/chart"
	"weather-tracks/internal/repositories"
	"weather-tracks/internal/services/weather"
	"weather-tracks/pkg/observe"
)

func main() {
	os.Exit(run())
}

func run() int {
	cnf, err := config.NewConfig()
	if err != nil {
		log.Printf("cannot load config: %v", err)
		return 1
	}

	l, err := observe.NewLogger(observe.Options{
		AppName:     cnf.App.Name,
		Env:         cnf.App.Env,
		Level:       cnf.Log.Level,
		SentryDSN:   cnf.Sentry.DSN,
		SentryDebug: cnf.Sentry.Debug,
	}, os.Stderr)
	if err != nil {
		log.Printf("cannot init logger: %v", err)
		return 1
	}
	defer func() { _ = l.Stop() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*cnf.HTTP.Timeout)
	defer cancel()

	repos := repositories.InitRepositories(cnf, l)
	renderer := chart.NewRenderer(chart.Options{
		Title:  cnf.Chart.Title,
		Width:  cnf.Chart.Width,
		Height: cnf.Chart.Height,
		DPI:    cnf.Chart.DPI,
	})

	service := weather.NewWeatherService(repos.Forecast, renderer, l)
	if cnf.Chart.Show {
		service.WithViewer(chart.NewSystemViewer())
	}

	series, err := service.Report(ctx, cnf.Forecast.Lat, cnf.Forecast.Lon, cnf.Chart.Output)
	if errors.Is(err, weather.ErrNoData) {
		fmt.Println("no forecast data, nothing to plot")
		return 0
	}
	if err != nil {
		l.Error(err, map[string]any{
			"lat": cnf.Forecast.Lat,
			"lon": cnf.Forecast.Lon,
		})
		return 1
	}

	fmt.Printf("wrote %d forecast entries to %s\n", series.Len(), cnf.Chart.Output)
	return 0
}
