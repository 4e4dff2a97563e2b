package endpoint

import (
	"context"
	"errors"
	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/viant/gmetric"
	"go.uber.org/atomic"
	"log/slog"
	"net/http"
	"time"
)

//MetricURI metrics endpoint prefix
const MetricURI = "/v1/api/metric/"

//Server represents serving endpoint
type Server struct {
	cfg     *Config
	isReady atomic.Bool
	log     *slog.Logger
	srv     *http.Server
	handler *Handler
	metrics *gmetric.Service
}

//Handler returns server router
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)

	mux.With(s.httpLogger).Get("/", s.handler.HandleForm)
	mux.With(s.httpLogger).Post("/", s.handler.HandleConsume)

	mux.With(s.httpLogger).Get("/livez", s.handleLivenessCheck)
	mux.With(s.httpLogger).Get("/readyz", s.handleReadinessCheck)
	mux.With(s.httpLogger).Get("/drain", s.handleDrain)
	mux.With(s.httpLogger).Get("/undrain", s.handleUndrain)

	if s.metrics != nil {
		mux.Handle(MetricURI+"*", gmetric.NewHandler(MetricURI, s.metrics))
	}
	return mux
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(s.log, next)
}

func (s *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "alive")
}

func (s *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Load() {
		writeStatus(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

func (s *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Swap(false) {
		writeStatus(w, http.StatusOK, "already draining")
		return
	}
	s.log.Info("server marked as not ready")
	go func() {
		time.Sleep(s.cfg.DrainDuration())
		s.log.Info("drain period completed")
	}()
	writeStatus(w, http.StatusOK, "draining")
}

func (s *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if s.isReady.Swap(true) {
		writeStatus(w, http.StatusOK, "already ready")
		return
	}
	s.log.Info("server marked as ready")
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
}

//RunInBackground starts listening
func (s *Server) RunInBackground() {
	go func() {
		s.log.Info("starting HTTP server", "listenAddress", s.cfg.ListenAddr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server failed", "err", err)
		}
	}()
}

//Shutdown stops server gracefully
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownDuration())
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("graceful HTTP server shutdown failed", "err", err)
		return
	}
	s.log.Info("HTTP server gracefully stopped")
}

//New creates a server
func New(cfg *Config, handler *Handler, metrics *gmetric.Service, log *slog.Logger) *Server {
	cfg.Init()
	if log == nil {
		log = slog.Default()
	}
	ret := &Server{cfg: cfg, log: log, handler: handler, metrics: metrics}
	ret.isReady.Store(true)
	ret.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      ret.router(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
	return ret
}
