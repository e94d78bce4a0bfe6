package cache

import (
	"context"
	"time"

	"f1dashboard/pkg/model"
)

// Store keeps raw upstream payloads. A zero ttl keeps the entry forever.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Policy decides how long a session-scoped payload stays fresh. Finished
// sessions never change once the stewards are done, so they are kept forever.
type Policy struct {
	LiveTTL      time.Duration
	SettleWindow time.Duration
	Now          func() time.Time
}

func NewPolicy(liveTTL, settleWindow time.Duration) Policy {
	return Policy{LiveTTL: liveTTL, SettleWindow: settleWindow, Now: time.Now}
}

func (p Policy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// TTLFor returns 0 (forever) for settled sessions and LiveTTL otherwise.
func (p Policy) TTLFor(s model.Session) time.Duration {
	now := p.now()
	if s.Year != 0 && s.Year < now.Year() {
		return 0
	}
	if !s.DateEnd.IsZero() && s.DateEnd.Add(p.SettleWindow).Before(now) {
		return 0
	}
	return p.LiveTTL
}

// TTLForYear is used for season-wide listings, which only change while the
// season is running.
func (p Policy) TTLForYear(year int) time.Duration {
	if year < p.now().Year() {
		return 0
	}
	return p.LiveTTL
}
