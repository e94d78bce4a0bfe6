// Package filter keeps the year/track/session selection of every client.
// Selections are passed around explicitly instead of living in globals so a
// bot chat and an HTTP client never see each other's choice.
package filter

import (
	"time"

	"f1dashboard/pkg/model"
	"github.com/puzpuzpuz/xsync/v4"
)

type Store struct {
	states *xsync.Map[int64, model.SessionFilterState]
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		states: xsync.NewMap[int64, model.SessionFilterState](),
		now:    time.Now,
	}
}

// Get returns the client's selection, defaulting to the current season.
func (s *Store) Get(clientID int64) model.SessionFilterState {
	if state, ok := s.states.Load(clientID); ok {
		return state
	}
	return model.SessionFilterState{Year: s.now().Year()}
}

func (s *Store) SelectYear(clientID int64, year int) model.SessionFilterState {
	return s.update(clientID, func(f model.SessionFilterState) model.SessionFilterState {
		return f.WithYear(year)
	})
}

func (s *Store) SelectMeeting(clientID int64, meetingKey int) model.SessionFilterState {
	return s.update(clientID, func(f model.SessionFilterState) model.SessionFilterState {
		return f.WithMeeting(meetingKey)
	})
}

func (s *Store) SelectSession(clientID int64, sessionKey int) model.SessionFilterState {
	return s.update(clientID, func(f model.SessionFilterState) model.SessionFilterState {
		return f.WithSession(sessionKey)
	})
}

func (s *Store) Reset(clientID int64) {
	s.states.Delete(clientID)
}

func (s *Store) update(clientID int64, fn func(model.SessionFilterState) model.SessionFilterState) model.SessionFilterState {
	def := model.SessionFilterState{Year: s.now().Year()}
	state, _ := s.states.Compute(clientID, func(old model.SessionFilterState, loaded bool) (model.SessionFilterState, xsync.ComputeOp) {
		if !loaded {
			old = def
		}
		return fn(old), xsync.UpdateOp
	})
	return state
}
