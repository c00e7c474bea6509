// Package account provides the role model gating the back-office surfaces.
// Capability checks are pure functions over an explicit role value and an
// explicit email allow-list, so they are testable without ambient
// configuration lookups.
package account

import "strings"

// Role is the back-office role attached to a user's auth metadata.
type Role string

const (
	// RoleAdmin has full back-office access including role management.
	RoleAdmin Role = "admin"

	// RoleStaff has fulfillment access (orders, labels, tracking) but no
	// elevated operations.
	RoleStaff Role = "staff"
)

// ParseRole converts an external role string to a Role; unknown values map
// to the empty Role, which carries no capabilities.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleStaff):
		return RoleStaff
	default:
		return ""
	}
}

// IsAllowedEmail reports whether the email appears in the allow-list,
// case-insensitively. The allow-list is the fallback for operators whose
// auth metadata carries no role yet.
func IsAllowedEmail(email string, allowList []string) bool {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return false
	}
	for _, allowed := range allowList {
		if strings.ToLower(strings.TrimSpace(allowed)) == e {
			return true
		}
	}
	return false
}

// HasBackOfficeAccess reports whether the user can open the operator console:
// admin or staff role, or an allow-listed email.
func HasBackOfficeAccess(role Role, email string, allowList []string) bool {
	if role == RoleAdmin || role == RoleStaff {
		return true
	}
	return IsAllowedEmail(email, allowList)
}

// HasElevatedAccess reports whether the user can perform admin-only
// operations: admin role, or an allow-listed email.
func HasElevatedAccess(role Role, email string, allowList []string) bool {
	if role == RoleAdmin {
		return true
	}
	return IsAllowedEmail(email, allowList)
}
