// Package api serves the paper trading engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/papertrade/engine"
)

const sweepInterval = 10 * time.Minute

type Options struct {
	Addr          string
	DefaultSymbol string
	RateLimit     float64 // requests per second per IP on mutating routes
	RateBurst     int
	Logger        zerolog.Logger
}

type Server struct {
	Router *gin.Engine

	svc     *engine.Service
	metrics *engine.Metrics
	limiter *IPRateLimiter
	opts    Options
	log     zerolog.Logger
}

func NewServer(svc *engine.Service, metrics *engine.Metrics, opts Options) *Server {
	if opts.DefaultSymbol == "" {
		opts.DefaultSymbol = "NQ=F"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 10
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(opts.Logger))

	s := &Server{
		Router:  r,
		svc:     svc,
		metrics: metrics,
		limiter: NewIPRateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		opts:    opts,
		log:     opts.Logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/analysis", s.analysis)
	s.Router.GET("/account-status", s.accountStatus)

	limited := s.Router.Group("")
	limited.Use(RateLimit(s.limiter))
	{
		limited.POST("/execute", s.execute)
		limited.POST("/reset", s.reset)
	}

	if s.metrics != nil {
		s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.limiter.Sweep()
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("http server listening")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
