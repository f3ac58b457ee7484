package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sambabib/dockerfile-gen/pkg/logger"
	"github.com/sambabib/dockerfile-gen/pkg/store"
)

// Server wraps the HTTP server exposing a store.
type Server struct {
	httpServer *http.Server
}

// New builds a server listening on addr and serving st.
func New(addr string, st store.Store) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: NewMux(st),
		},
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	logger.Infof("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
