package api

import (
	"net/http"

	"f1dashboard/pkg/openf1"
	"f1dashboard/pkg/season"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.Logger.Error("encoding response", zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encoding response"}`)
	}
	writeRaw(w, status, body)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// fail maps err to a status: unknown resources and sessions are 404, anything
// else went wrong upstream.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, openf1.ErrUnknownResource), errors.Is(err, season.ErrSessionNotFound):
		status = http.StatusNotFound
	default:
		h.Logger.Warn("upstream failure", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (h *Handler) storageFailure(w http.ResponseWriter, err error) {
	h.Logger.Error("favorites storage", zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "favorites unavailable"})
}
