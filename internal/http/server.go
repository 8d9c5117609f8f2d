// Package http serves the bridge over HTTP.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finrec/internal/bridge"
	"finrec/internal/log"
)

// Server wraps the gin engine and the underlying http.Server
type Server struct {
	engine *gin.Engine
	logger *log.Logger
	server *http.Server
}

// NewServer builds the router. mode is the gin mode: debug, release or test.
func NewServer(addr, mode string, b *bridge.Bridge, logger *log.Logger) *Server {
	gin.SetMode(mode)
	logger = logger.WithComponent(log.ComponentHTTP)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(logger))
	r.Use(securityHeaders())
	r.Use(cors())

	h := &handlers{bridge: b}
	v1 := r.Group("/api/v1")
	{
		v1.POST("/call", h.call)
		v1.GET("/operations", h.operations)
		v1.GET("/health", h.health)
	}

	return &Server{
		engine: r,
		logger: logger,
		server: &http.Server{
			Addr:           addr,
			Handler:        r,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16, // 64KB
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP bridge", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP bridge")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
