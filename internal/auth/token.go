// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth issues and verifies the HS256 tokens that gate the admin API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olegiv/shopnav/internal/model"
)

// Issuer is the iss claim on every token.
const Issuer = "shopnav"

// MinSecretLength is the shortest accepted signing secret, in bytes.
const MinSecretLength = 32

// DefaultTTL is the lifetime of issued tokens.
const DefaultTTL = 12 * time.Hour

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrShortSecret is returned when the signing secret is too short.
	ErrShortSecret = fmt.Errorf("secret must be at least %d bytes", MinSecretLength)
)

// Claims are the token claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies tokens with one shared secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager for secret. A ttl of zero uses DefaultTTL.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a signed token for subject with role.
func (m *TokenManager) Issue(subject, role string) (string, error) {
	if !model.IsValidRole(role) {
		return "", fmt.Errorf("unknown role %q", role)
	}
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns the caller it identifies.
func (m *TokenManager) Verify(tokenString string) (*model.Staff, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !model.IsValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return &model.Staff{Subject: claims.Subject, Role: claims.Role}, nil
}
