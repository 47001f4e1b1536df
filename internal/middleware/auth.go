// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/olegiv/shopnav/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyStaff holds the authenticated caller.
const ContextKeyStaff ContextKey = "staff"

// TokenCookie is the cookie the admin UI stores its token in.
const TokenCookie = "admin_token"

// TokenVerifier turns a raw token into the caller it identifies.
type TokenVerifier interface {
	Verify(token string) (*model.Staff, error)
}

// tokenFromRequest reads the token from the cookie, falling back to a
// Bearer Authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// StaffAuth creates middleware that requires a valid admin token.
func StaffAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			staff, err := verifier.Verify(raw)
			if err != nil {
				slog.Warn("rejected admin token", "category", model.EventCategoryAuth, "ip", getClientIP(r), "path", r.URL.Path)
				WriteAPIError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyStaff, staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetStaff retrieves the authenticated caller from the request context.
// Returns nil if there is none.
func GetStaff(r *http.Request) *model.Staff {
	staff, _ := r.Context().Value(ContextKeyStaff).(*model.Staff)
	return staff
}

// RequireRole creates middleware that admits only callers holding one of roles.
// It must run after StaffAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			staff := GetStaff(r)
			if staff == nil {
				WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, staff.Role) {
				WriteAPIError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits only admins.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)(next)
}
