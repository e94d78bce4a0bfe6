package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Manager struct {
	r      *mux.Router
	addr   string
	logger *zap.Logger
}

func NewManager(addr string, logger *zap.Logger) *Manager {
	m := &Manager{
		r:      mux.NewRouter(),
		addr:   addr,
		logger: logger,
	}

	m.rootHandlers()
	return m
}

func (m *Manager) Router() *mux.Router {
	return m.r
}

// Subrouter mounts a router under prefix, e.g. "/api/v1".
func (m *Manager) Subrouter(prefix string) *mux.Router {
	return m.r.PathPrefix(prefix).Subrouter()
}

func (m *Manager) rootHandlers() {
	m.r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
}

// Routes lists every registered path template with its methods.
func (m *Manager) Routes() []string {
	routes := []string{}
	_ = m.r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil || len(methods) == 0 {
			return nil
		}
		routes = append(routes, strings.Join(methods, ",")+" "+pathTemplate)
		return nil
	})
	return routes
}

func (m *Manager) Debug() {
	for _, r := range m.Routes() {
		m.logger.Debug("route", zap.String("route", r))
	}
}

// Serve blocks until ctx is cancelled, then shuts the server down giving
// in-flight requests up to 10s to finish.
func (m *Manager) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         m.addr,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	errChan := make(chan error, 1)
	go func() {
		m.logger.Info("webserver listening", zap.String("addr", m.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return errors.Wrapf(err, "listening on %s", m.addr)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	m.logger.Info("webserver shutting down")
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutting down webserver")
}
