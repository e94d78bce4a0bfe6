package api

import (
	"context"
	"net/http"
	"time"

	"f1dashboard/pkg/caster"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/pubsub"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// streamStandings sends the current standings of the year right away and
// then every update the refresher publishes, until the client goes away.
func (h *Handler) streamStandings(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		h.badRequest(w, "invalid year")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.Stream.Track(year)
	defer h.Stream.Untrack(year)
	topic := pubsub.StandingsTopic(year)
	updates := h.PubSub.Subscribe(topic)
	defer h.PubSub.Unsubscribe(topic, updates)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// reads only detect the close handshake
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	initial, ok := h.Stream.Latest(year)
	if !ok {
		initial, err = h.snapshot(ctx, year)
		if err != nil {
			h.Logger.Warn("initial standings unavailable", zap.Int("year", year), zap.Error(err))
		}
	}
	if initial != "" {
		if err := h.send(conn, initial); err != nil {
			return
		}
	}

	h.Logger.Debug("standings stream opened", zap.Int("year", year))
	for {
		select {
		case <-ctx.Done():
			h.Logger.Debug("standings stream closed", zap.Int("year", year))
			return
		case payload, open := <-updates:
			if !open {
				return
			}
			if err := h.send(conn, payload); err != nil {
				return
			}
		}
	}
}

func (h *Handler) snapshot(ctx context.Context, year int) (string, error) {
	s, err := h.Service.Standings(ctx, year)
	if err != nil {
		return "", err
	}
	return caster.JSONChannelCaster[model.Season]{}.To(s)
}

func (h *Handler) send(conn *websocket.Conn, payload string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, []byte(payload))
}
