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
	"gorm.io/gorm"
)

func TestCategoryCreate_Success(t *testing.T) {
	var created *models.Category
	repo := &mockCategoryRepo{
		createFn: func(ctx context.Context, category *models.Category) error {
			category.ID = 1
			created = category
			return nil
		},
	}
	svc := NewCategoryService(repo, nil, 0)

	resp, err := svc.Create(context.Background(), dto.CreateSluggedDTO{Name: "Movies", Slug: "movies"})
	require.NoError(t, err)

	assert.Equal(t, "movies", resp.Slug)
	assert.Equal(t, "Movies", created.Name)
}

// The slug column is unique; a second create with the same slug has no
// pre-check and relies on the translated duplicate-key error.
func TestCategoryCreate_DuplicateSlugConflicts(t *testing.T) {
	repo := &mockCategoryRepo{
		createFn: func(ctx context.Context, category *models.Category) error {
			return gorm.ErrDuplicatedKey
		},
	}
	svc := NewCategoryService(repo, nil, 0)

	_, err := svc.Create(context.Background(), dto.CreateSluggedDTO{Name: "Movies", Slug: "movies"})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestCategoryCreate_BadSlugRejected(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{}, nil, 0)

	_, err := svc.Create(context.Background(), dto.CreateSluggedDTO{Name: "Movies", Slug: "no spaces"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCategoryDelete_Unknown(t *testing.T) {
	repo := &mockCategoryRepo{
		deleteBySlugFn: func(ctx context.Context, slug string) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := NewCategoryService(repo, nil, 0)

	err := svc.Delete(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
