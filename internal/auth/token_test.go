// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olegiv/shopnav/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenManagerShortSecret(t *testing.T) {
	if _, err := NewTokenManager("short", 0); !errors.Is(err, ErrShortSecret) {
		t.Errorf("err = %v, want ErrShortSecret", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := m.Issue("alice", model.RoleEditor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	staff, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if staff.Subject != "alice" || staff.Role != model.RoleEditor {
		t.Errorf("staff = %+v", staff)
	}
}

func TestIssueUnknownRole(t *testing.T) {
	m, _ := NewTokenManager(testSecret, 0)
	if _, err := m.Issue("bob", "superuser"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestVerifyRejects(t *testing.T) {
	m, _ := NewTokenManager(testSecret, time.Hour)
	other, _ := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)

	foreign, _ := other.Issue("alice", model.RoleAdmin)

	expiredMgr, _ := NewTokenManager(testSecret, time.Hour)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredMgr.Issue("alice", model.RoleAdmin)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: model.RoleAdmin})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "eve",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongRole, _ := badRole.SignedString([]byte(testSecret))

	tests := map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"other secret": foreign,
		"expired":      expired,
		"alg none":     unsigned,
		"bad role":     wrongRole,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
