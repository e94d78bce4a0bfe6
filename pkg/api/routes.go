package api

import (
	"net/http"
	"time"

	"f1dashboard/pkg/charts"
	"f1dashboard/pkg/season"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

func (h *Handler) proxy(w http.ResponseWriter, r *http.Request) {
	body, err := h.Upstream.Raw(r.Context(), mux.Vars(r)["resource"], r.URL.Query(), h.ProxyTTL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (h *Handler) standings(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		h.badRequest(w, "invalid year")
		return
	}
	s, err := h.Service.Standings(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *Handler) drivers(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		h.badRequest(w, "invalid year")
		return
	}
	s, err := h.Service.Standings(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s.Drivers)
}

func (h *Handler) constructors(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		h.badRequest(w, "invalid year")
		return
	}
	s, err := h.Service.Standings(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s.Constructors)
}

func (h *Handler) classification(w http.ResponseWriter, r *http.Request) {
	key, ok := intVar(r, "sessionKey")
	if !ok {
		h.badRequest(w, "invalid session key")
		return
	}
	c, err := h.Service.Classification(r.Context(), key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// chartSession resolves the session_key query parameter and the cache ttl
// for its data; finished sessions are cached forever.
func (h *Handler) chartSession(w http.ResponseWriter, r *http.Request) (int, time.Duration, bool) {
	key, ok := sessionKeyQuery(r)
	if !ok {
		h.badRequest(w, "invalid session_key")
		return 0, 0, false
	}
	session, found, err := h.Upstream.Session(r.Context(), key, h.Policy.LiveTTL)
	if err != nil {
		h.fail(w, r, err)
		return 0, 0, false
	}
	if !found {
		h.fail(w, r, errors.Wrapf(season.ErrSessionNotFound, "session %d", key))
		return 0, 0, false
	}
	return key, h.Policy.TTLFor(session), true
}

func (h *Handler) lapChart(w http.ResponseWriter, r *http.Request) {
	key, ttl, ok := h.chartSession(w, r)
	if !ok {
		return
	}
	laps, err := h.Upstream.Laps(r.Context(), key, ttl)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, charts.LapSeries(laps))
}

func (h *Handler) stintChart(w http.ResponseWriter, r *http.Request) {
	key, ttl, ok := h.chartSession(w, r)
	if !ok {
		return
	}
	stints, err := h.Upstream.Stints(r.Context(), key, ttl)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, charts.StintBars(stints))
}

func (h *Handler) weatherChart(w http.ResponseWriter, r *http.Request) {
	key, ttl, ok := h.chartSession(w, r)
	if !ok {
		return
	}
	samples, err := h.Upstream.Weather(r.Context(), key, ttl)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, charts.WeatherSeries(samples))
}

type favoritesBody struct {
	UserID       string `json:"user_id"`
	DriverNumber int    `json:"driver_number,omitempty"`
	Followed     *bool  `json:"followed,omitempty"`
	Favorites    []int  `json:"favorites"`
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	drivers, err := h.Favorites.List(userID)
	if err != nil {
		h.storageFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, favoritesBody{UserID: userID, Favorites: drivers})
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	driver, ok := intVar(r, "driverNumber")
	if !ok {
		h.badRequest(w, "invalid driver number")
		return
	}
	followed, err := h.Favorites.Toggle(userID, 0, driver)
	if err != nil {
		h.storageFailure(w, err)
		return
	}
	drivers, err := h.Favorites.List(userID)
	if err != nil {
		h.storageFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, favoritesBody{UserID: userID, DriverNumber: driver, Followed: &followed, Favorites: drivers})
}
