package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pressroom/internal/adapter"
	"pressroom/internal/decisionlog"
	"pressroom/internal/dispatch"
	"pressroom/internal/profile"
	"pressroom/internal/registry"
)

type Server struct {
	dispatcher *dispatch.Dispatcher
	store      *registry.Store
	source     profile.Source
	executor   adapter.Executor   // nil = routing only, no execution
	log        *decisionlog.Store // nil = decision audit disabled
	mux        *http.ServeMux
}

func NewServer(dispatcher *dispatch.Dispatcher, store *registry.Store, source profile.Source, executor adapter.Executor, log *decisionlog.Store) *Server {
	s := &Server{
		dispatcher: dispatcher,
		store:      store,
		source:     source,
		executor:   executor,
		log:        log,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /v1/dispatch", s.handleDispatch)
	s.mux.HandleFunc("POST /v1/route", s.handleRoute)
	s.mux.HandleFunc("GET /v1/agents", s.handleListAgents)
	s.mux.HandleFunc("POST /v1/reload", s.handleReload)
	s.mux.HandleFunc("GET /v1/decisions", s.handleListDecisions)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
