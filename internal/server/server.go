package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/chat"
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

const maxBodyBytes = 64 << 10

type Config struct {
	Port           int           `default:"8080"`
	AllowAll       bool          `split_words:"true" default:"true"`
	RequestTimeout time.Duration `split_words:"true" default:"30s"`
}

// ChatResponder runs one chat turn and never fails; failures come back as
// the apology reply.
type ChatResponder interface {
	Respond(ctx context.Context, req chat.TurnRequest) chat.TurnResponse
}

type Deps struct {
	Chat      ChatResponder
	Tools     toolx.Invoker
	Contracts []toolx.ContractView
	Orders    contractx.OrderService
	Telemetry contractx.Telemetry
}

func (d Deps) validate() error {
	switch {
	case d.Chat == nil:
		return errors.New("chat responder is required")
	case d.Tools == nil:
		return errors.New("tool invoker is required")
	case d.Orders == nil:
		return errors.New("order service is required")
	}
	return nil
}

type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

func New(cfg Config, deps Deps) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/chat", s.handleListContracts)
		r.Post("/chat", s.handleChat)
		r.Post("/chat/actions/alternatives", s.handleAlternatives)
		r.Post("/checkout/session", s.handleCheckoutSession)
		r.Post("/alerts/back-in-stock", s.handleBackInStock)
		r.Post("/order", s.handleOrder)
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("parts assistant listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) track(ctx context.Context, event string, payload map[string]any) {
	if s.deps.Telemetry == nil {
		return
	}
	s.deps.Telemetry.Track(ctx, event, payload)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
