package authz

import (
	"testing"

	"reviewhub/internal/api/models"

	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		isStaff bool
		want    bool
	}{
		{"admin role", models.RoleAdmin, false, true},
		{"staff overrides plain role", models.RoleUser, true, true},
		{"staff moderator", models.RoleModerator, true, true},
		{"plain user", models.RoleUser, false, false},
		{"moderator is not admin", models.RoleModerator, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdmin(tt.role, tt.isStaff))
		})
	}
}

func TestCanModifyContent(t *testing.T) {
	const authorID = "author-1"

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"anonymous", nil, false},
		{"author", &models.User{ID: authorID, Role: models.RoleUser}, true},
		{"other user", &models.User{ID: "other", Role: models.RoleUser}, false},
		{"moderator", &models.User{ID: "other", Role: models.RoleModerator}, true},
		{"admin", &models.User{ID: "other", Role: models.RoleAdmin}, true},
		{"staff user", &models.User{ID: "other", Role: models.RoleUser, IsStaff: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyContent(tt.user, authorID))
		})
	}
}
