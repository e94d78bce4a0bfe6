package openf1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"f1dashboard/pkg/cache"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, cache.NewMemoryStore(), zap.NewNop(), WithRetries(2, time.Millisecond))
	return c, &hits
}

func TestSessionResultsSkipsMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session_result", r.URL.Path)
		assert.Equal(t, "9472", r.URL.Query().Get("session_key"))
		_, _ = w.Write([]byte(`[
			{"session_key":9472,"driver_number":1,"position":1,"points":25,"gap_to_leader":0,"dnf":false,"dns":false,"dsq":false},
			{"session_key":9472,"driver_number":11,"position":2,"points":18,"gap_to_leader":11.987},
			{"session_key":9472,"position":3,"points":15},
			{"session_key":9472,"driver_number":2,"position":null,"points":null,"dnf":true},
			{"session_key":9472,"driver_number":27,"position":null,"points":0,"gap_to_leader":"+1 LAP","dnf":true}
		]`))
	})

	got, err := c.SessionResults(context.Background(), 9472, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].DriverNumber)
	assert.Equal(t, 25.0, got[0].Points)
	assert.Equal(t, 11, got[1].DriverNumber)
	assert.Equal(t, 27, got[2].DriverNumber)
	assert.Equal(t, 0, got[2].Position)
	assert.True(t, got[2].DNF)
	assert.Equal(t, "+1 LAP", got[2].GapToLeader.String())
}

func TestResponsesAreCached(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"session_key":1,"driver_number":44,"team_name":"Mercedes","first_name":"Lewis","last_name":"Hamilton"}]`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := c.Drivers(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Mercedes", got[0].TeamName)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"session_key":9158,"session_name":"Race","session_type":"Race","year":2023,"date_start":"2023-09-17T12:00:00+00:00"}]`))
	})

	got, err := c.RaceSessionsForYear(context.Background(), 2023, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 9158, got[0].SessionKey)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := c.Laps(context.Background(), 1, 0)
	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGivesUpAfterRetries(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Stints(context.Background(), 1, 0)
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestNotFoundIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"No results found."}`))
	})

	got, err := c.SessionResults(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRaw(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "9158", r.URL.Query().Get("session_key"))
		_, _ = w.Write([]byte(`[{"air_temperature":27.8}]`))
	})

	body, err := c.Raw(context.Background(), ResourceWeather, url.Values{"session_key": {"9158"}}, time.Minute)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"air_temperature":27.8}]`, string(body))

	_, err = c.Raw(context.Background(), "car_data_secret", nil, 0)
	assert.True(t, errors.Is(err, ErrUnknownResource))
}

func TestSessionLookup(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_key") == "1" {
			_, _ = w.Write([]byte(`[{"session_key":1,"session_name":"Sprint","session_type":"Race","year":2024}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	s, ok, err := c.Session(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sprint", s.SessionName)

	_, ok, err = c.Session(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.False(t, ok)

}

func TestSharedFetchSurvivesCancelledCaller(t *testing.T) {
	release := make(chan struct{})
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[{"session_key":1,"driver_number":1,"position":1,"points":25}]`))
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.SessionResults(ctxA, 1, 0)
		errA <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(hits) == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		results int
		err     error
	}
	resB := make(chan outcome, 1)
	go func() {
		got, err := c.SessionResults(context.Background(), 1, 0)
		resB <- outcome{len(got), err}
	}()

	cancelA()
	err := <-errA
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, 1, b.results)
}
