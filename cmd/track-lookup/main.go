// Command track-lookup prints the first catalog track matching the
// configured search query.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"weather-tracks/config"
	"weather-tracks/internal/repositories"
	"weather-tracks/internal/services/tracks"
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
	service := tracks.NewTrackService(repos.Token, repos.Tracks, l)

	track, found, err := service.Lookup(ctx, cnf.Spotify.Query)
	if err != nil {
		l.Error(err, map[string]any{"query": cnf.Spotify.Query})
		return 1
	}
	if !found {
		fmt.Println("no result found")
		return 0
	}

	fmt.Println(track.String())
	return 0
}
