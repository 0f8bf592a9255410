// Package server exposes the chat pipeline over HTTP: POST /api/chat plus a
// health probe and optional static widget assets.
package server

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fesaone/fesabot/internal/agent"
	"github.com/fesaone/fesabot/internal/config"
	"github.com/fesaone/fesabot/internal/logger"
	"github.com/fesaone/fesabot/internal/session"
)

// Chatter runs one chat submission. Satisfied by *agent.Agent; tests stub it.
type Chatter interface {
	Process(ctx context.Context, sess *session.Session, text string) (agent.Result, error)
}

// Server wires the router, the session store, and the pipeline together.
type Server struct {
	router *mux.Router
	cfg    config.ServerConfig
	chat   Chatter
	store  *session.Store

	// hasCredential mirrors the startup check; requests are answered with a
	// generic 500 when the upstream credential is absent.
	hasCredential bool
}

// New builds a fully-routed server.
func New(cfg *config.Config, chat Chatter) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		cfg:           cfg.Server,
		chat:          chat,
		store:         session.NewStore(),
		hasCredential: cfg.LLM.APIKey != "",
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/api/chat", s.chatHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	// Widget assets, when deployed alongside the relay. Registered last so
	// the API routes win.
	if s.cfg.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
}

// Handler returns the router wrapped with CORS, ready to serve.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	logger.L.Info("starting server", "address", addr)
	return http.ListenAndServe(addr, s.Handler())
}
