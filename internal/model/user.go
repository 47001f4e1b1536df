// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Staff roles accepted on admin tokens.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Staff identifies the authenticated caller of an admin endpoint.
type Staff struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
}

// IsAdmin returns true if the staff member has the admin role.
func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsValidRole reports whether role may access the admin API.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}
