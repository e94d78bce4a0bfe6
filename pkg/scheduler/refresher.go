// Package scheduler periodically recomputes standings and publishes them
// when they change.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"f1dashboard/pkg/caster"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/pubsub"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type StandingsSource interface {
	Standings(ctx context.Context, year int) (model.Season, error)
}

// Refresher keeps the standings of the current season, plus any season a
// client asked to follow, published on pubsub.StandingsTopic(year).
type Refresher struct {
	source  StandingsSource
	ps      *pubsub.PubSub[string]
	caster  caster.ChannelCaster[model.Season]
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
	cron    *cron.Cron

	mu          sync.Mutex
	years       map[int]int
	fingerprint map[int]string
	latest      map[int]string
}

func NewRefresher(source StandingsSource, ps *pubsub.PubSub[string], timeout time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		source:      source,
		ps:          ps,
		caster:      caster.JSONChannelCaster[model.Season]{},
		logger:      logger,
		timeout:     timeout,
		now:         time.Now,
		years:       map[int]int{},
		fingerprint: map[int]string{},
		latest:      map[int]string{},
	}
}

// Setup registers the refresh job. expr has a seconds field.
func (r *Refresher) Setup(ctx context.Context, expr string) error {
	r.cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger{r.logger.Sugar()})))

	_, err := r.cron.AddFunc(expr, func() {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		r.RefreshAll(rctx)
	})
	return errors.Wrapf(err, "scheduling refresh %q", expr)
}

func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Info("standings refresh started", zap.Int("years", len(r.Years())))
}

func (r *Refresher) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// Track adds a watcher of year to the refreshed seasons. Every Track must be
// paired with an Untrack.
func (r *Refresher) Track(year int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.years[year]++
}

// Untrack removes a watcher of year. A season nobody watches is no longer
// refreshed and its last payload is forgotten, except for the current one.
func (r *Refresher) Untrack(year int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.years[year] > 1 {
		r.years[year]--
		return
	}
	delete(r.years, year)
	if year != r.now().Year() {
		delete(r.latest, year)
		delete(r.fingerprint, year)
	}
}

// Years returns the refreshed seasons in ascending order. The current season
// is always included.
func (r *Refresher) Years() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.now().Year()
	years := []int{current}
	for y := range r.years {
		if y != current {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// Latest returns the last published payload for year.
func (r *Refresher) Latest(year int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.latest[year]
	return payload, ok
}

func (r *Refresher) RefreshAll(ctx context.Context) {
	for _, year := range r.Years() {
		if _, err := r.Refresh(ctx, year); err != nil {
			r.logger.Warn("standings refresh failed", zap.Int("year", year), zap.Error(err))
		}
	}
}

// Refresh recomputes year and publishes it when drivers, constructors or
// omitted sessions differ from the last publication. It reports whether
// something was published.
func (r *Refresher) Refresh(ctx context.Context, year int) (bool, error) {
	season, err := r.source.Standings(ctx, year)
	if err != nil {
		return false, errors.Wrapf(err, "computing standings for %d", year)
	}

	fp, err := r.caster.To(model.Season{
		Year:         season.Year,
		Drivers:      season.Drivers,
		Constructors: season.Constructors,
		Omitted:      season.Omitted,
	})
	if err != nil {
		return false, errors.Wrap(err, "fingerprinting standings")
	}
	payload, err := r.caster.To(season)
	if err != nil {
		return false, errors.Wrap(err, "encoding standings")
	}

	r.mu.Lock()
	changed := r.fingerprint[year] != fp
	if changed {
		r.fingerprint[year] = fp
		r.latest[year] = payload
	}
	r.mu.Unlock()

	if !changed {
		r.logger.Debug("standings unchanged", zap.Int("year", year))
		return false, nil
	}
	r.ps.Publish(pubsub.StandingsTopic(year), payload)
	r.logger.Info("standings published",
		zap.Int("year", year),
		zap.Int("drivers", len(season.Drivers)),
		zap.Int("omitted", len(season.Omitted)))
	return true, nil
}

// cronLogger routes cron's own messages, including recovered panics, to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
