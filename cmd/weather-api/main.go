package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-tracks/config"
	"weather-tracks/internal/chart"
	v1 "weather-tracks/internal/controllers/http/v1"
	"weather-tracks/internal/repositories"
	"weather-tracks/internal/services/tracks"
	"weather-tracks/internal/services/weather"
	"weather-tracks/pkg/httpserver"
	"weather-tracks/pkg/observe"
)

// @title Weather Tracks API
// @version 1.0.0
// @description Looks up tracks in the Spotify catalog and serves met.no forecasts as JSON or as a four-panel PNG chart.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Tracks
// @tag.description Track search operations
// @tag.name Weather
// @tag.description Weather forecast operations
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	l, err := observe.NewLogger(observe.Options{
		AppName:     cnf.App.Name,
		Env:         cnf.App.Env,
		Level:       cnf.Log.Level,
		SentryDSN:   cnf.Sentry.DSN,
		SentryDebug: cnf.Sentry.Debug,
	}, os.Stdout)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}

	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:      cnf.App.Name,
		ReadTimeout:  cnf.Server.ReadTimeout,
		WriteTimeout: cnf.Server.WriteTimeout,
		IdleTimeout:  cnf.Server.IdleTimeout,
	})

	repos := repositories.InitRepositories(cnf, l)

	renderer := chart.NewRenderer(chart.Options{
		Title:  cnf.Chart.Title,
		Width:  cnf.Chart.Width,
		Height: cnf.Chart.Height,
		DPI:    cnf.Chart.DPI,
	})

	trackService := tracks.NewTrackService(repos.Token, repos.Tracks, l)
	weatherService := weather.NewWeatherService(repos.Forecast, renderer, l)

	v1.NewRouter(
		app,
		trackService,
		weatherService,
		renderer,
		cnf.Spotify.Query,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err.Error()})
		}
	}()

	l.Info("application started successfully", map[string]any{"port": cnf.Server.Port})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
