package service

import (
	"context"
	"errors"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate_DefaultsToUserRole(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), dto.CreateUserDTO{
		Username: "plain",
		Email:    "Plain@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, "plain@example.com", created.Email)
}

func TestUserCreate_UnknownRoleRejected(t *testing.T) {
	svc := NewUserService(&mockUserRepo{})

	_, err := svc.Create(context.Background(), dto.CreateUserDTO{
		Username: "plain",
		Email:    "plain@example.com",
		Role:     "superuser",
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUserUpdate_UnknownRoleRejected(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: username, Role: models.RoleUser}, nil
		},
	}
	svc := NewUserService(repo)

	role := "root"
	_, err := svc.Update(context.Background(), "plain", dto.UpdateUserDTO{Role: &role}, true)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUserUpdate_SelfServiceCannotEscalate(t *testing.T) {
	var saved *models.User
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: username, Role: models.RoleUser}, nil
		},
		updateFn: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := NewUserService(repo)

	role := models.RoleAdmin
	staff := true
	bio := "just a reader"
	resp, err := svc.Update(context.Background(), "plain", dto.UpdateUserDTO{
		Role:    &role,
		IsStaff: &staff,
		Bio:     &bio,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, saved.Role, "role stays read-only on the profile path")
	assert.False(t, saved.IsStaff)
	assert.Equal(t, "just a reader", resp.Bio)
}

func TestUserUpdate_AdminMayChangeRole(t *testing.T) {
	var saved *models.User
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: username, Role: models.RoleUser}, nil
		},
		updateFn: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := NewUserService(repo)

	role := models.RoleModerator
	_, err := svc.Update(context.Background(), "plain", dto.UpdateUserDTO{Role: &role}, true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, saved.Role)
}
