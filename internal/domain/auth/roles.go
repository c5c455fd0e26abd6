package auth

import "strings"

const (
	RoleEmployee    = "employee"
	RoleLineManager = "line_manager"
	RoleHeadOfUnit  = "head_of_unit"
	RoleHR          = "hr"
	RoleAdmin       = "admin"
)

var BuiltinRoles = []string{RoleEmployee, RoleLineManager, RoleHeadOfUnit, RoleHR, RoleAdmin}

var roleDescriptions = map[string]string{
	RoleEmployee:    "Regular employee with self-service access",
	RoleLineManager: "Approves leave for direct reports",
	RoleHeadOfUnit:  "Second-level approver for a unit",
	RoleHR:          "Human resources staff",
	RoleAdmin:       "System administrator with full access",
}

func RoleDescription(role string) string {
	return roleDescriptions[role]
}

func ValidRole(role string) bool {
	for _, candidate := range BuiltinRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

func (i Identity) IsHR() bool { return i.Role == RoleHR }

// IsHROrAdmin reports whether the caller may act on other employees' records.
func (i Identity) IsHROrAdmin() bool {
	return i.Role == RoleHR || i.Role == RoleAdmin
}

func (i Identity) HasRole(roles ...string) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}
