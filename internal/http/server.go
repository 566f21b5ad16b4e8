package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/filmring/filmring/internal/config"
	"github.com/filmring/filmring/internal/repository"
	"github.com/filmring/filmring/internal/store"
)

// Server wires HTTP routing, middleware, and handlers. It is the thin
// orchestration layer over the stores: request-shape validation and
// error-to-status mapping happen here, everything with invariants lives in
// repository and domain.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		repo:   repo,
		logger: logger,
		router: r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/films", func(r chi.Router) {
		r.Get("/", s.handleListFilms)
		r.Post("/", s.handleCreateFilm)
		r.Put("/", s.handleUpdateFilm)
		r.Get("/popular", s.handlePopularFilms)
		r.Get("/{id}", s.handleGetFilm)
		r.Put("/{id}/like/{userId}", s.handleAddLike)
		r.Delete("/{id}/like/{userId}", s.handleRemoveLike)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Put("/", s.handleUpdateUser)
		r.Get("/{id}", s.handleGetUser)
		r.Put("/{id}/friends/{friendId}", s.handleAddFriend)
		r.Delete("/{id}/friends/{friendId}", s.handleRemoveFriend)
		r.Get("/{id}/friends", s.handleListFriends)
		r.Get("/{id}/friends/common/{otherId}", s.handleCommonFriends)
	})

	s.router.Route("/mpa", func(r chi.Router) {
		r.Get("/", s.handleListMPA)
		r.Get("/{id}", s.handleGetMPA)
	})

	s.router.Route("/genres", func(r chi.Router) {
		r.Get("/", s.handleListGenres)
		r.Get("/{id}", s.handleGetGenre)
	})
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
