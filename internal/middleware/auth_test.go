// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/shopnav/internal/model"
)

// stubVerifier accepts tokens of the form "role" and rejects everything else.
type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*model.Staff, error) {
	if !model.IsValidRole(token) {
		return nil, errors.New("invalid")
	}
	return &model.Staff{Subject: "tester", Role: token}, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetStaff(r) == nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestStaffAuth(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: model.RoleAdmin}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+model.RoleEditor) }, http.StatusOK},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer admin") }, http.StatusOK},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic admin") }, http.StatusUnauthorized},
		{"invalid token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	h := StaffAuth(stubVerifier{})(okHandler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := StaffAuth(stubVerifier{})(RequireAdmin(okHandler()))

	for role, want := range map[string]int{
		model.RoleAdmin:  http.StatusOK,
		model.RoleEditor: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/seed", nil)
		req.Header.Set("Authorization", "Bearer "+role)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("%s: status = %d, want %d", role, rr.Code, want)
		}
	}

	// Without StaffAuth there is no caller at all.
	rr := httptest.NewRecorder()
	RequireAdmin(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}
