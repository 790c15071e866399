// Package server exposes price quotes over HTTP.
//
// The model is loaded before the server starts and is only read while
// serving, so handlers share it without locking.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YuminosukeSato/pricefactor/config"
	"github.com/YuminosukeSato/pricefactor/core/model"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
	"github.com/YuminosukeSato/pricefactor/pricing"
)

// Server routes pricing requests to a Calculator.
type Server struct {
	calc     *pricing.Calculator
	summary  model.Summarizer
	logger   log.Logger
	validate *validator.Validate
	router   chi.Router
}

// New creates a Server. summary may be nil, in which case GET /api/model
// answers 404.
func New(calc *pricing.Calculator, summary model.Summarizer, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Server{
		calc:     calc,
		summary:  summary,
		logger:   logger.With(log.ComponentKey, "server"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(instrument)
		r.Get("/", s.handleRoot)
		r.Route("/api", func(r chi.Router) {
			r.Post("/calculate_price", s.handleCalculatePrice)
			r.Get("/model", s.handleModel)
		})
	})
	return r
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on cfg.Addr() until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.APIConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("HTTP server listening", "http.addr", srv.Addr)

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info("HTTP server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "http server shutdown failed")
		}
		<-errCh
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.logger.Enabled(r.Context(), log.LevelDebug) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served",
			"http.method", r.Method,
			"http.path", r.URL.Path,
			"http.status", ww.Status(),
			"http.request_id", chimiddleware.GetReqID(r.Context()),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	})
}
