package tracks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-tracks/internal/models"
	"weather-tracks/internal/repositories"
	"weather-tracks/pkg/observe"
)

// TrackService looks up a track: one token grant, one search.
type TrackService struct {
	tokens   repositories.TokenRepository
	searcher repositories.TrackRepository
	l        *observe.Logger
}

func NewTrackService(tokens repositories.TokenRepository, searcher repositories.TrackRepository, l *observe.Logger) *TrackService {
	return &TrackService{
		tokens:   tokens,
		searcher: searcher,
		l:        l,
	}
}

// Lookup returns the first track matching query. found is false when the
// search matched nothing.
func (s *TrackService) Lookup(ctx context.Context, query string) (track models.Track, found bool, err error) {
	runID := uuid.NewString()

	s.l.Info("starting track lookup", map[string]any{
		"run_id": runID,
		"query":  query,
	})

	token, err := s.tokens.AcquireToken(ctx)
	if err != nil {
		return models.Track{}, false, errors.Wrap(err, "acquire token")
	}

	track, found, err = s.searcher.SearchTrack(ctx, token, query)
	if err != nil {
		return models.Track{}, false, errors.Wrap(err, "search track")
	}

	s.l.Info("completed track lookup", map[string]any{
		"run_id": runID,
		"found":  found,
		"track":  track.Name,
	})

	return track, found, nil
}
