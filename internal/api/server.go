// Package api exposes the comparison engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waitstat/adapters/stats/engine"
	"waitstat/internal"
	"waitstat/ports"
)

// Server represents the HTTP API server
type Server struct {
	router *gin.Engine
	logger *internal.Logger
}

// NewServer builds the router. Report lookup routes are only registered
// when repo is non-nil.
func NewServer(eng *engine.StatsEngine, repo ports.ReportRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.With("api")

	router := gin.New()
	router.Use(gin.Recovery(), instrument())

	h := NewReportHandler(eng, repo, logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.POST("/compare", h.Compare)
	if repo != nil {
		v1.GET("/reports", h.ListReports)
		v1.GET("/reports/:id", h.GetReport)
	}

	return &Server{router: router, logger: logger}
}

// Handler returns the router as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
