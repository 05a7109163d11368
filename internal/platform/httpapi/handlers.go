package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleVariants(w http.ResponseWriter, _ *http.Request) {
	out := make([]variantDTO, len(t2048.Variants))
	for i, v := range t2048.Variants {
		out[i] = toVariantDTO(v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "variant")
	if _, ok := t2048.GetVariant(id); !ok {
		writeError(w, http.StatusNotFound, "unknown_variant", "no variant "+strconv.Quote(id))
		return
	}

	limit := 10
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	out := []scoreDTO{}
	if s.store != nil {
		entries, err := s.store.TopScores(id, limit)
		if err != nil {
			s.logger.Error("cannot load scores", "variant", id, "err", err)
			writeError(w, http.StatusInternalServerError, "storage", "cannot load scores")
			return
		}
		for _, e := range entries {
			out = append(out, scoreDTO{
				Score:     e.Score,
				MaxTile:   e.MaxTile,
				Moves:     e.Moves,
				CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if req.Variant == "" {
		req.Variant = "classic"
	}
	v, ok := t2048.GetVariant(req.Variant)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_variant", "no variant "+strconv.Quote(req.Variant))
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	sess, err := s.newSession(v, seed, req.Board)
	if errors.Is(err, engine.ErrMalformedBoard) {
		writeError(w, http.StatusBadRequest, "malformed_board", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	sess.mu.Lock()
	state := sess.stateLocked()
	sess.mu.Unlock()

	s.logger.Info("session created", "session", sess.id, "variant", v.ID, "resumed", req.Board != nil)
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	state := sess.stateLocked()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var req swipeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	swipe, err := engine.ParseSwipe(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_direction", err.Error())
		return
	}

	sess.mu.Lock()
	res := sess.eng.Swipe(swipe)
	if res.GameOver {
		s.recordScoreLocked(sess)
	}
	state := sess.stateLocked()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, swipeResponse{Events: toEventDTOs(res.Events), State: state})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	sess.eng.Reset()
	sess.scoreSaved = false
	state := sess.stateLocked()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	sess, ok := s.remove(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no session "+id.String())
		return
	}

	sess.mu.Lock()
	s.recordScoreLocked(sess)
	sess.mu.Unlock()

	s.hub.Disconnect(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	if !s.hub.Running() {
		writeError(w, http.StatusServiceUnavailable, "events_unavailable", "event hub not running")
		return
	}

	sess.mu.Lock()
	hello, err := json.Marshal(envelope{Session: sess.id.String(), Type: "state", State: sess.stateLocked()})
	sess.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	s.hub.ServeWS(w, r, sess.id, hello)
}

// sessionFor resolves the {id} parameter, writing the error response if the
// session does not exist.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}
	sess, ok := s.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no session "+id.String())
		return nil, false
	}
	return sess, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "session id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // The client is gone if this fails
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
