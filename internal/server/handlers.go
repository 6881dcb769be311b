package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/auth"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := "connected"
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check ping failed", "error", err)
		database = "unavailable"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
}

type userSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("hashing password", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Username, req.Email, hash)
	if errors.Is(err, storage.ErrConflict) {
		writeError(w, http.StatusConflict, "Username or email already exists")
		return
	}
	if err != nil {
		s.log.Error("creating user", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.respondWithToken(w, http.StatusCreated, "User created successfully", user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.store.GetActiveUserByUsername(r.Context(), req.Username)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		s.log.Error("looking up user", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := s.store.TouchLastLogin(r.Context(), user.ID); err != nil {
		s.log.Warn("updating last login", "user_id", user.ID, "error", err)
	}
	s.respondWithToken(w, http.StatusOK, "Login successful", user)
}

func (s *Server) respondWithToken(w http.ResponseWriter, status int, msg string, user *models.UserRow) {
	token, err := s.issuer.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		s.log.Error("issuing token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, status, authResponse{
		Message: msg,
		Token:   token,
		User:    userSummary{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}
