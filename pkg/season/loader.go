// Package season loads every race result of a year from upstream and turns
// it into championship standings.
package season

import (
	"context"
	"sort"
	"time"

	"f1dashboard/pkg/cache"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/standings"
	"github.com/alitto/pond/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Fetcher is the upstream contract the loader needs.
type Fetcher interface {
	RaceSessionsForYear(ctx context.Context, year int, ttl time.Duration) ([]model.Session, error)
	SessionResults(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.SessionResult, error)
	Drivers(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.DriverIdentity, error)
}

type Loader struct {
	fetcher Fetcher
	pool    pond.Pool
	policy  cache.Policy
	timeout time.Duration
	logger  *zap.Logger
}

func NewLoader(fetcher Fetcher, pool pond.Pool, policy cache.Policy, timeout time.Duration, logger *zap.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		pool:    pool,
		policy:  policy,
		timeout: timeout,
		logger:  logger,
	}
}

type sessionData struct {
	results    []model.SessionResult
	identities []model.DriverIdentity
	err        error
}

// Load fetches all race sessions of year and computes the standings. A
// session whose results cannot be fetched is reported in Season.Omitted
// instead of failing the whole load.
func (l *Loader) Load(ctx context.Context, year int) (model.Season, error) {
	season := model.Season{
		Year:         year,
		Sessions:     []model.Session{},
		Drivers:      []model.DriverStandingEntry{},
		Constructors: []model.ConstructorStandingEntry{},
		Omitted:      []model.OmittedSession{},
	}

	sessions, err := l.fetcher.RaceSessionsForYear(ctx, year, l.policy.TTLForYear(year))
	if err != nil {
		return season, errors.Wrapf(err, "listing race sessions for %d", year)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].DateStart.Before(sessions[j].DateStart)
	})
	season.Sessions = sessions
	if len(sessions) == 0 {
		return season, nil
	}

	slots := make([]sessionData, len(sessions))
	group := l.pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i := range sessions {
		idx := i
		group.Submit(func() {
			slots[idx] = l.loadSession(groupCtx, sessions[idx])
		})
	}
	if err := group.Wait(); err != nil {
		return season, errors.Wrapf(err, "loading sessions for %d", year)
	}
	if err := ctx.Err(); err != nil {
		return season, errors.Wrapf(err, "loading sessions for %d", year)
	}

	results := []model.SessionResult{}
	identities := []model.DriverIdentity{}
	for i, slot := range slots {
		s := sessions[i]
		if slot.err != nil {
			l.logger.Warn("omitting session from standings",
				zap.Int("year", year),
				zap.Int("session_key", s.SessionKey),
				zap.String("location", s.Location),
				zap.Error(slot.err))
			season.Omitted = append(season.Omitted, model.OmittedSession{
				SessionKey: s.SessionKey,
				Name:       s.SessionName,
				Location:   s.Location,
				Reason:     slot.err.Error(),
			})
			continue
		}
		results = append(results, slot.results...)
		identities = append(identities, slot.identities...)
	}

	season.Results = results
	season.Identities = identities
	season.Drivers = standings.ComputeDriverStandings(results, identities)
	season.Constructors = standings.ComputeConstructorStandings(season.Drivers)
	season.ComputedAt = time.Now().UTC()

	l.logger.Debug("season loaded",
		zap.Int("year", year),
		zap.Int("sessions", len(sessions)),
		zap.Int("omitted", len(season.Omitted)),
		zap.Int("results", len(results)))
	return season, nil
}

func (l *Loader) loadSession(ctx context.Context, s model.Session) sessionData {
	if err := ctx.Err(); err != nil {
		return sessionData{err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ttl := l.policy.TTLFor(s)
	results, err := l.fetcher.SessionResults(ctx, s.SessionKey, ttl)
	if err != nil {
		return sessionData{err: err}
	}
	if len(results) == 0 {
		return sessionData{}
	}

	identities, err := l.fetcher.Drivers(ctx, s.SessionKey, ttl)
	if err != nil {
		// identities only decorate the table; keep the points
		l.logger.Warn("driver identities unavailable",
			zap.Int("session_key", s.SessionKey),
			zap.Error(err))
		identities = nil
	}
	return sessionData{results: results, identities: identities}
}
