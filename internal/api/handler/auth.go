// Package handler contains the HTTP handlers for the v1 API. Handlers
// depend on narrow interfaces and are constructed with their dependencies,
// so each can be tested against mocks.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	mw "github.com/slidegenius/slidegenius/internal/api/middleware"
	"github.com/slidegenius/slidegenius/internal/api/response"
	"github.com/slidegenius/slidegenius/internal/store"
	"github.com/slidegenius/slidegenius/pkg/models"
)

const minPasswordLen = 8

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

// NewSignupHandler returns an http.HandlerFunc for POST /api/v1/auth/signup.
func NewSignupHandler(s store.Store, auth *mw.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string  `json:"email"`
			Password string  `json:"password"`
			FullName *string `json:"full_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || !strings.Contains(email, "@") {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "a valid email is required", nil)
			return
		}
		if len(req.Password) < minPasswordLen {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "password must be at least 8 characters", nil)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", nil)
			return
		}

		user := &models.User{
			Email:        email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
		}
		if err := s.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", nil)
			return
		}

		token, expires, err := auth.IssueToken(user.ID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", nil)
			return
		}

		response.Created(w, authResponse{
			Token:     token,
			ExpiresAt: expires.UTC().Format(time.RFC3339),
			UserID:    user.ID.String(),
			Email:     user.Email,
		})
	}
}

// NewLoginHandler returns an http.HandlerFunc for POST /api/v1/auth/login.
func NewLoginHandler(s store.Store, auth *mw.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		user, err := s.GetUserByEmail(r.Context(), email)
		if err != nil {
			// Same response as a wrong password: never reveal whether the
			// account exists.
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
			return
		}

		token, expires, err := auth.IssueToken(user.ID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", nil)
			return
		}

		response.JSON(w, authResponse{
			Token:     token,
			ExpiresAt: expires.UTC().Format(time.RFC3339),
			UserID:    user.ID.String(),
			Email:     user.Email,
		})
	}
}
