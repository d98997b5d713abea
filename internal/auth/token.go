// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wickedhost/wicked-site/internal/model"
)

// Token verification errors. Callers treat any of them as "no
// identity"; verification never panics.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Default token lifetimes.
const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// Claims carried by a signed bearer token. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// UserID parses the subject claim back into a user ID.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing token subject: %w", err)
	}
	return id, nil
}

// TokenService issues and verifies stateless HS256 bearer tokens.
// The server holds no session state.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenService creates a TokenService with the given signing
// secret. ttl of zero falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		defaultTTL: ttl,
	}
}

// Issue signs a token carrying the user's identity claims.
func (s *TokenService) Issue(user *model.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: user.Username,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// IssueRefresh signs a long-lived refresh-class token. ttl of zero
// falls back to RefreshTokenTTL.
func (s *TokenService) IssueRefresh(user *model.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = RefreshTokenTTL
	}
	return s.Issue(user, ttl)
}

// Verify parses and validates a token string, returning its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
