// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wickedhost/wicked-site/internal/auth"
	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

// usernameRegex constrains usernames to url-safe handles.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// AuthHandler handles registration, login, and identity endpoints.
type AuthHandler struct {
	users      *store.UserStore
	tokens     *auth.TokenService
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *store.UserStore, tokens *auth.TokenService, tokenTTL, refreshTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = auth.RefreshTokenTTL
	}
	return &AuthHandler{users: users, tokens: tokens, tokenTTL: tokenTTL, refreshTTL: refreshTTL}
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// AuthResponse carries a fresh token pair and the account it belongs to.
type AuthResponse struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refresh_token"`
	User         model.User `json:"user"`
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && len(email) <= 254
}

// Register handles POST /auth/register. New accounts start as FREE/ACTIVE.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !usernameRegex.MatchString(req.Username) {
		writeJSONError(w, http.StatusBadRequest, "username must be 3-30 characters (letters, digits, underscore)")
		return
	}
	if !validEmail(req.Email) {
		writeJSONError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < MinPasswordLength {
		writeJSONError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.users.Create(r.Context(), store.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         model.RoleFree,
		Status:       model.UserStatusActive,
	})
	if err != nil {
		writeStoreError(w, err, "user not found", "username or email already taken")
		return
	}

	h.issueAndRespond(w, r, user, http.StatusCreated)
}

// LoginRequest is the body for POST /auth/login. Login accepts a
// username or an email address.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.GetByLogin(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeStoreError(w, err, "", "")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.IsActive() {
		writeJSONError(w, http.StatusForbidden, "account is suspended")
		return
	}

	if err := h.users.UpdateLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	h.issueAndRespond(w, r, user, http.StatusOK)
}

func (h *AuthHandler) issueAndRespond(w http.ResponseWriter, r *http.Request, user model.User, status int) {
	token, err := h.tokens.Issue(&user, h.tokenTTL)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	refresh, err := h.tokens.IssueRefresh(&user, h.refreshTTL)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, status, AuthResponse{Token: token, RefreshToken: refresh, User: user})
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout
// only clears the cookie on the client.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// MeResponse is the body for GET /auth/me.
type MeResponse struct {
	User    model.User `json:"user"`
	IsAdmin bool       `json:"isAdmin"`
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{User: *user, IsAdmin: user.IsAdmin()})
}

// CheckUsername handles GET /auth/check-username/{username}.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if !usernameRegex.MatchString(username) {
		writeJSONError(w, http.StatusBadRequest, "invalid username")
		return
	}

	_, err := h.users.GetByUsername(r.Context(), username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusOK, map[string]bool{"available": true})
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"available": false})
	default:
		writeStoreError(w, err, "", "")
	}
}

// CheckEmail handles GET /auth/check-email/{email}.
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if !validEmail(email) {
		writeJSONError(w, http.StatusBadRequest, "invalid email")
		return
	}

	_, err := h.users.GetByEmail(r.Context(), email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusOK, map[string]bool{"available": true})
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"available": false})
	default:
		writeStoreError(w, err, "", "")
	}
}
