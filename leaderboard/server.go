package leaderboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// MaxNameLength bounds usernames, in runes.
const MaxNameLength = 16

// Server serves the leaderboard API over a Store.
type Server struct {
	r     *chi.Mux
	store Store
	limit int
}

// NewServer installs middleware and routes. limit caps GET /leaderboard.
func NewServer(st Store, limit int, logger zerolog.Logger) *Server {
	if limit <= 0 {
		limit = 10
	}
	s := &Server{r: chi.NewRouter(), store: st, limit: limit}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(logger))
	s.r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	s.r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Post("/register", s.handleRegister)
	s.r.Post("/submit", s.handleSubmit)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// normalizeName trims the name and checks it is 1..MaxNameLength printable runes.
func normalizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxNameLength || !utf8.ValidString(name) {
		return "", false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return "", false
		}
	}
	return name, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	name, ok := normalizeName(req.Username)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_name")
		return
	}
	created, err := s.store.CreatePlayer(r.Context(), name)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("user", name).Msg("create player")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if !created {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"username": name, "status": "exists"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"username": name, "status": "created"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	name, ok := normalizeName(req.Username)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_name")
		return
	}
	if req.Score < 0 {
		writeError(w, http.StatusBadRequest, "invalid_score")
		return
	}
	err := s.store.RecordScore(r.Context(), name, req.Score)
	if errors.Is(err, ErrUnknownPlayer) {
		writeError(w, http.StatusNotFound, "unknown_player")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("user", name).Msg("record score")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	top, err := s.store.Top(r.Context(), s.limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(top)
}
