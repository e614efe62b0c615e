// Package server exposes the matching engine and linkage service over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/roster-cli/internal/linkage"
	"github.com/sells-group/roster-cli/internal/match"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/store"
)

// Server holds the services behind the HTTP API.
type Server struct {
	store   store.Store
	engine  *match.Engine
	linkage *linkage.Service
}

func New(st store.Store, engine *match.Engine, svc *linkage.Service) *Server {
	return &Server{store: st, engine: engine, linkage: svc}
}

// Router builds the chi router with CORS and per-client rate limiting.
func (s *Server) Router(limit float64, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(rate.Limit(limit), burst))

	r.Get("/health", s.handleHealth)
	r.Post("/api/match", s.handleMatch)
	r.Post("/api/link", s.handleLink)
	r.Post("/api/players", s.handleCreatePlayer)
	r.Get("/api/users/{id}/audit", s.handleListAudit)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	SchoolID   string `json:"school_id"`
	SchoolName string `json:"school_name"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidates, err := s.engine.FindPotentialMatches(r.Context(), model.SignupInfo{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		SchoolID:   req.SchoolID,
		SchoolName: req.SchoolName,
	})
	if err != nil {
		zap.L().Error("match request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

type linkRequest struct {
	UserID          string `json:"user_id"`
	PlayerID        string `json:"player_id"`
	UserEmail       string `json:"user_email"`
	PerformedBy     string `json:"performed_by"`
	RequireUnlinked bool   `json:"require_unlinked"`
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "user_id and player_id are required")
		return
	}

	res, err := s.linkage.LinkUserToPlayer(r.Context(), linkage.LinkRequest{
		UserID:          req.UserID,
		PlayerID:        req.PlayerID,
		UserEmail:       req.UserEmail,
		PerformedBy:     req.PerformedBy,
		RequireUnlinked: req.RequireUnlinked,
	})
	switch {
	case errors.Is(err, linkage.ErrAlreadyLinked):
		writeError(w, http.StatusConflict, "player already linked to another user")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user or player not found")
		return
	case err != nil:
		zap.L().Error("link request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "link failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type createPlayerRequest struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SchoolID    string `json:"school_id"`
	SchoolName  string `json:"school_name"`
	PerformedBy string `json:"performed_by"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	res, err := s.linkage.CreatePlayerFromSignup(r.Context(), req.UserID, model.SignupInfo{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		SchoolID:   req.SchoolID,
		SchoolName: req.SchoolName,
	}, req.PerformedBy)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		zap.L().Error("create player request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	entries, err := s.store.ListAudit(r.Context(), userID)
	if err != nil {
		zap.L().Error("audit request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "audit lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
