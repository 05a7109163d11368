// Package httpapi serves game sessions over HTTP: a JSON API to create, swipe
// and reset boards plus a WebSocket stream of engine events per session.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// requestTimeout bounds every JSON handler. The event stream is exempt.
const requestTimeout = 10 * time.Second

// session is one engine plus the bookkeeping the API needs around it.
type session struct {
	id      uuid.UUID
	variant t2048.Variant // resolved

	mu         sync.Mutex // serialises swipes
	eng        *engine.Engine
	scoreSaved bool
}

// stateLocked describes the session. Callers hold mu.
func (s *session) stateLocked() *stateResponse {
	return &stateResponse{
		ID:               s.id.String(),
		Variant:          s.variant.ID,
		Size:             s.eng.Size(),
		Threshold:        s.variant.Threshold,
		Board:            s.eng.Board().Rows(),
		Score:            s.eng.Score(),
		Moves:            s.eng.Moves(),
		MaxTile:          s.eng.MaxTile(),
		ThresholdReached: s.eng.ThresholdReached(),
		GameOver:         s.eng.GameOver(),
	}
}

// Server holds the live sessions and the router serving them.
type Server struct {
	router chi.Router
	hub    *Hub
	store  *storage.Store
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// New creates a server. store may be nil, in which case no score is recorded.
func New(store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("t2048-api")

	s := &Server{
		hub:      NewHub(logger),
		store:    store,
		logger:   logger,
		sessions: make(map[uuid.UUID]*session),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Get("/variants", s.handleVariants)
			r.Get("/scores/{variant}", s.handleScores)
			r.Post("/games", s.handleCreate)
			r.Get("/games/{id}", s.handleGet)
			r.Delete("/games/{id}", s.handleDelete)
			r.Post("/games/{id}/swipe", s.handleSwipe)
			r.Post("/games/{id}/reset", s.handleReset)
		})
		r.Get("/games/{id}/events", s.handleEvents)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})

	return r
}

// Handler returns the HTTP handler. Event streaming needs the hub running:
// ListenAndServe starts it, callers mounting Handler elsewhere call
// Hub().Start themselves. Without it the events endpoint answers 503 and deletes skip the
// watcher disconnect.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down and
// records the scores of sessions still open.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	s.hub.Start(hubCtx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP API", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: %w", err)

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	}
}

// newSession builds a session for variant v, resuming cells when given.
func (s *Server) newSession(v t2048.Variant, seed int64, cells []int) (*session, error) {
	v = v.Resolved()
	sess := &session{
		id:      uuid.New(),
		variant: v,
		eng:     engine.New(t2048.Rules().Engine(v.Size, v.Threshold), rand.New(rand.NewSource(seed))),
	}
	if cells != nil {
		if err := sess.eng.Load(cells); err != nil {
			return nil, err
		}
	}

	sess.eng.Subscribe(engine.ListenerFunc(func(ev engine.Event) {
		dto := toEventDTO(ev)
		s.hub.Publish(sess.id, envelope{Session: sess.id.String(), Type: "event", Event: &dto})
	}))

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *Server) lookup(id uuid.UUID) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) remove(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	return sess, ok
}

// closeAll drops every session, recording unsaved scores.
func (s *Server) closeAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		s.recordScoreLocked(sess)
		sess.mu.Unlock()
	}
}

// recordScoreLocked stores the session's score once. Callers hold sess.mu.
func (s *Server) recordScoreLocked(sess *session) {
	if s.store == nil || sess.scoreSaved || sess.eng.Score() == 0 {
		return
	}
	sess.scoreSaved = true

	e := sess.eng
	if _, err := s.store.SaveScore(sess.variant.ID, e.Score(), e.MaxTile(), e.Moves()); err != nil {
		s.logger.Error("cannot save score", "session", sess.id, "err", err)
		return
	}
	s.logger.Info("score recorded", "session", sess.id, "variant", sess.variant.ID, "score", e.Score())
}
