package season

import (
	"context"
	"time"

	"f1dashboard/pkg/cache"
	"f1dashboard/pkg/model"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionFetcher supplies what a single-session view needs.
type SessionFetcher interface {
	Session(ctx context.Context, sessionKey int, ttl time.Duration) (model.Session, bool, error)
	SessionResults(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.SessionResult, error)
	StartingGrid(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.GridEntry, error)
}

type Service struct {
	loader   *Loader
	sessions SessionFetcher
	policy   cache.Policy
}

func NewService(loader *Loader, sessions SessionFetcher, policy cache.Policy) *Service {
	return &Service{loader: loader, sessions: sessions, policy: policy}
}

// Standings recomputes the season on every call; only upstream payloads are
// cached.
func (s *Service) Standings(ctx context.Context, year int) (model.Season, error) {
	return s.loader.Load(ctx, year)
}

// Classification returns the final result of a session when one exists and
// falls back to the starting grid otherwise.
func (s *Service) Classification(ctx context.Context, sessionKey int) (model.Classification, error) {
	session, ok, err := s.sessions.Session(ctx, sessionKey, s.policy.LiveTTL)
	if err != nil {
		return model.Classification{}, errors.Wrapf(err, "looking up session %d", sessionKey)
	}
	if !ok {
		return model.Classification{}, errors.Wrapf(ErrSessionNotFound, "session %d", sessionKey)
	}

	ttl := s.policy.TTLFor(session)
	results, err := s.sessions.SessionResults(ctx, sessionKey, ttl)
	if err != nil {
		return model.Classification{}, errors.Wrapf(err, "results of session %d", sessionKey)
	}
	if len(results) > 0 {
		return model.NewResultClassification(results), nil
	}

	grid, err := s.sessions.StartingGrid(ctx, sessionKey, ttl)
	if err != nil {
		return model.Classification{}, errors.Wrapf(err, "starting grid of session %d", sessionKey)
	}
	return model.NewGridClassification(grid), nil
}
