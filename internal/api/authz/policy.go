// Package authz holds the role-based permission predicates consulted
// before every mutation. They are pure functions over the role value and
// staff flag so middleware and services can call them without loading
// anything beyond the acting user.
package authz

import "reviewhub/internal/api/models"

// IsAdmin reports whether the role/staff combination carries admin-level
// authorization. Staff users are admins regardless of role.
func IsAdmin(role string, isStaff bool) bool {
	return role == models.RoleAdmin || isStaff
}

// IsModerator reports whether the role is the moderator role.
func IsModerator(role string) bool {
	return role == models.RoleModerator
}

// CanModifyContent reports whether user may mutate a review or comment
// written by authorID: the author, moderators and admins may.
func CanModifyContent(user *models.User, authorID string) bool {
	if user == nil {
		return false
	}
	return user.ID == authorID || IsAdmin(user.Role, user.IsStaff) || IsModerator(user.Role)
}
