// Package api exposes the orchestrator over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/orchestrator"
	"github.com/abhisek/tutorly/internal/video"
)

// Options tunes the HTTP surface.
type Options struct {
	// RateLimit is requests per second per client IP; zero disables it.
	RateLimit float64
	Burst     int

	// CORSOrigins enables CORS for the listed origins.
	CORSOrigins []string

	ShutdownTimeout time.Duration

	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer

	// Ping backs /healthz when set.
	Ping func(ctx context.Context) error

	Log *zap.Logger
}

// Server routes requests to one orchestrator.
type Server struct {
	orch   *orchestrator.Orchestrator
	videos *video.Recommender
	opts   Options
	log    *zap.Logger
	engine *gin.Engine
}

// New builds the gin engine and its routes.
func New(orch *orchestrator.Orchestrator, videos *video.Recommender, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if videos == nil {
		videos = video.NewRecommender(video.DefaultCatalog(), nil)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{orch: orch, videos: videos, opts: opts, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", s.healthz)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	if opts.RateLimit > 0 {
		v1.Use(newIPLimiter(opts.RateLimit, opts.Burst).middleware())
	}
	{
		v1.GET("/workflows", s.listWorkflows)
		v1.POST("/workflows/:name", s.runWorkflow)
		v1.POST("/respond", s.respond)
		v1.GET("/actions", s.listActions)
		v1.POST("/actions/:module/:action", s.runAction)
		v1.GET("/videos", s.listVideos)
	}

	s.engine = r
	return s
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then drains in-flight
// requests for up to ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", zap.Duration("timeout", s.opts.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
