package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"weather-tracks/internal/models"
	"weather-tracks/pkg/observe"
)

var ErrMissingCredentials = errors.New("spotify client id and secret are required")

// SpotifyTokenRepository exchanges client credentials for a bearer token.
// Tokens are not cached; every call performs a fresh grant.
type SpotifyTokenRepository struct {
	creds      models.Credentials
	cc         clientcredentials.Config
	httpClient *http.Client
	l          *observe.Logger
}

func NewSpotifyTokenRepository(creds models.Credentials, tokenURL string, httpClient *http.Client, l *observe.Logger) *SpotifyTokenRepository {
	return &SpotifyTokenRepository{
		creds: creds,
		cc: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			// Basic auth; id and secret are form-escaped before encoding.
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		l:          l,
	}
}

func (s *SpotifyTokenRepository) Name() string {
	return "spotify-token"
}

// AcquireToken returns an access token. On any failure the token is empty
// and the error says why; a non-200 answer is a *StatusError.
func (s *SpotifyTokenRepository) AcquireToken(ctx context.Context) (string, error) {
	if !s.creds.Complete() {
		s.l.Warning("spotify credentials missing", map[string]any{
			"repository": s.Name(),
		})
		return "", ErrMissingCredentials
	}

	s.l.Info("requesting spotify access token", map[string]any{
		"repository": s.Name(),
		"url":        s.cc.TokenURL,
	})

	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	token, err := s.cc.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			statusErr := &StatusError{
				Op:         "retrieve token",
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
			}
			s.l.Warning("failed to retrieve token", map[string]any{
				"repository": s.Name(),
				"status":     statusErr.StatusCode,
				"body":       statusErr.Body,
			})
			return "", statusErr
		}

		s.l.Warning("failed to retrieve token", map[string]any{
			"repository": s.Name(),
			"err":        err.Error(),
		})
		return "", fmt.Errorf("failed to retrieve token: %w", err)
	}

	s.l.Debug("received spotify access token", map[string]any{
		"repository": s.Name(),
		"type":       token.TokenType,
		"expiry":     token.Expiry,
	})

	return token.AccessToken, nil
}
