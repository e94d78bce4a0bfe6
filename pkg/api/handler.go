// Package api exposes the upstream proxy, computed standings, chart series
// and favourites over HTTP, plus a websocket stream of standings updates.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"f1dashboard/pkg/cache"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/pubsub"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const minYear = 1950

type Upstream interface {
	Raw(ctx context.Context, resource string, query url.Values, ttl time.Duration) ([]byte, error)
	Session(ctx context.Context, sessionKey int, ttl time.Duration) (model.Session, bool, error)
	Laps(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.Lap, error)
	Stints(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.Stint, error)
	Weather(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.Weather, error)
}

type StandingsService interface {
	Standings(ctx context.Context, year int) (model.Season, error)
	Classification(ctx context.Context, sessionKey int) (model.Classification, error)
}

type Favorites interface {
	List(userID string) ([]int, error)
	Toggle(userID string, chatID int64, driverNumber int) (bool, error)
}

// Stream is the refresher side of the websocket: which seasons are kept
// fresh and what was last published for them.
type Stream interface {
	Track(year int)
	Untrack(year int)
	Latest(year int) (string, bool)
}

type Deps struct {
	Upstream  Upstream
	Service   StandingsService
	Favorites Favorites
	PubSub    *pubsub.PubSub[string]
	Stream    Stream
	Policy    cache.Policy
	ProxyTTL  time.Duration
	Logger    *zap.Logger
}

type Handler struct {
	Deps
	now      func() time.Time
	upgrader websocket.Upgrader
}

func NewHandler(deps Deps) *Handler {
	return &Handler{
		Deps: deps,
		now:  time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r *mux.Router) {
	r.Use(h.logRequests)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/proxy/{resource}", h.proxy).Methods(http.MethodGet)
	v1.HandleFunc("/standings/{year}", h.standings).Methods(http.MethodGet)
	v1.HandleFunc("/standings/{year}/drivers", h.drivers).Methods(http.MethodGet)
	v1.HandleFunc("/standings/{year}/constructors", h.constructors).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{sessionKey}/classification", h.classification).Methods(http.MethodGet)
	v1.HandleFunc("/charts/laps", h.lapChart).Methods(http.MethodGet)
	v1.HandleFunc("/charts/stints", h.stintChart).Methods(http.MethodGet)
	v1.HandleFunc("/charts/weather", h.weatherChart).Methods(http.MethodGet)
	v1.HandleFunc("/favorites/{userId}", h.listFavorites).Methods(http.MethodGet)
	v1.HandleFunc("/favorites/{userId}/{driverNumber}", h.toggleFavorite).Methods(http.MethodPost)

	r.HandleFunc("/ws/standings/{year}", h.streamStandings).Methods(http.MethodGet)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.Logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (h *Handler) yearParam(r *http.Request) (int, bool) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil || year < minYear || year > h.now().Year()+1 {
		return 0, false
	}
	return year, true
}

func intVar(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func sessionKeyQuery(r *http.Request) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get("session_key"))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
