// Package server exposes the builder over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JackVanta/VantaSDK/internal/chat"
	"github.com/JackVanta/VantaSDK/internal/files"
	"github.com/JackVanta/VantaSDK/internal/waitlist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Config holds what the server needs besides its services.
type Config struct {
	Port       int
	StaticDir  string
	MaxZipSize int64
}

// Server routes the builder API.
type Server struct {
	chat      *chat.Service
	collector *files.Collector
	waitlist  *waitlist.Store
	cfg       Config
	router    chi.Router
}

// New creates a Server. A nil waitlist disables the waitlist routes.
func New(cfg Config, chatService *chat.Service, collector *files.Collector, list *waitlist.Store) *Server {
	if cfg.MaxZipSize <= 0 {
		cfg.MaxZipSize = 50 << 20
	}
	s := &Server{
		chat:      chatService,
		collector: collector,
		waitlist:  list,
		cfg:       cfg,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/builder", func(r chi.Router) {
		r.Get("/chat", s.handleChatInfo)
		r.Post("/chat", s.handleChat)
		r.Post("/project/import", s.handleImport)
		r.Get("/templates", s.handleTemplates)
		r.Get("/templates/{name}", s.handleTemplate)
	})

	if s.waitlist != nil {
		r.Get("/api/waitlist", s.handleWaitlistCount)
		r.Post("/api/waitlist", s.handleWaitlistAdd)
	}

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on port %s...", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logrus.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
