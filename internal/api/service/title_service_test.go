package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockCategoryRepo struct {
	listFn         func(ctx context.Context, search string) ([]models.Category, error)
	createFn       func(ctx context.Context, category *models.Category) error
	findBySlugFn   func(ctx context.Context, slug string) (*models.Category, error)
	deleteBySlugFn func(ctx context.Context, slug string) error
}

func (m *mockCategoryRepo) List(ctx context.Context, search string) ([]models.Category, error) {
	return m.listFn(ctx, search)
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return m.createFn(ctx, category)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return m.findBySlugFn(ctx, slug)
}

func (m *mockCategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return m.deleteBySlugFn(ctx, slug)
}

func knownCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*models.Category, error) {
			return &models.Category{Slugged: models.Slugged{ID: 7, Name: "Movies", Slug: slug}}, nil
		},
	}
}

func noReviewsRepo() *mockReviewRepo {
	return &mockReviewRepo{
		scoreStatsFn: func(ctx context.Context, titleID int64) (int64, int64, error) {
			return 0, 0, nil
		},
	}
}

func genreRefs(slugs ...string) []dto.GenreRefDTO {
	refs := make([]dto.GenreRefDTO, 0, len(slugs))
	for _, s := range slugs {
		refs = append(refs, dto.GenreRefDTO{Name: s, Slug: s})
	}
	return refs
}

func TestTitleCreate_Success(t *testing.T) {
	var createdSpecs []repository.GenreSpec
	titleRepo := &mockTitleRepo{
		createFn: func(ctx context.Context, title *models.Title, genres []repository.GenreSpec) error {
			title.ID = 5
			createdSpecs = genres
			return nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*models.Title, error) {
			return &models.Title{ID: id, Name: "Blade Runner", Year: 1982}, nil
		},
	}
	svc := NewTitleService(titleRepo, knownCategoryRepo(), noReviewsRepo())

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Blade Runner",
		Year:     1982,
		Category: "movies",
		Genre:    genreRefs("sci-fi", "noir"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, 0, resp.Rating, "no reviews yet")
	require.Len(t, createdSpecs, 2)
	assert.Equal(t, "sci-fi", createdSpecs[0].Slug)
}

func TestTitleCreate_FutureYearRejected(t *testing.T) {
	svc := NewTitleService(&mockTitleRepo{}, knownCategoryRepo(), noReviewsRepo())

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "From The Future",
		Year:     time.Now().Year() + 1,
		Category: "movies",
		Genre:    genreRefs("sci-fi"),
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestTitleCreate_EmptyGenreSetRejected(t *testing.T) {
	svc := NewTitleService(&mockTitleRepo{}, knownCategoryRepo(), noReviewsRepo())

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "No Genres",
		Year:     2000,
		Category: "movies",
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestTitleCreate_UnknownCategoryRejected(t *testing.T) {
	categoryRepo := &mockCategoryRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*models.Category, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewTitleService(&mockTitleRepo{}, categoryRepo, noReviewsRepo())

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Orphan",
		Year:     2000,
		Category: "nope",
		Genre:    genreRefs("drama"),
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestTitleUpdate_OmittedGenreLeavesAssociationsAlone(t *testing.T) {
	var gotReplace bool
	titleRepo := &mockTitleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Title, error) {
			return &models.Title{ID: id, Name: "Old Name", Year: 1990}, nil
		},
		updateFn: func(ctx context.Context, title *models.Title, genres []repository.GenreSpec, replaceGenres bool) error {
			gotReplace = replaceGenres
			return nil
		},
	}
	svc := NewTitleService(titleRepo, knownCategoryRepo(), noReviewsRepo())

	name := "New Name"
	_, err := svc.Update(context.Background(), 5, dto.UpdateTitleDTO{Name: &name})
	require.NoError(t, err)
	assert.False(t, gotReplace)
}

func TestTitleUpdate_PresentGenreReplacesWholesale(t *testing.T) {
	var gotSpecs []repository.GenreSpec
	var gotReplace bool
	titleRepo := &mockTitleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Title, error) {
			return &models.Title{ID: id, Name: "Name", Year: 1990}, nil
		},
		updateFn: func(ctx context.Context, title *models.Title, genres []repository.GenreSpec, replaceGenres bool) error {
			gotSpecs = genres
			gotReplace = replaceGenres
			return nil
		},
	}
	svc := NewTitleService(titleRepo, knownCategoryRepo(), noReviewsRepo())

	genres := genreRefs("thriller")
	_, err := svc.Update(context.Background(), 5, dto.UpdateTitleDTO{Genre: &genres})
	require.NoError(t, err)

	assert.True(t, gotReplace)
	require.Len(t, gotSpecs, 1)
	assert.Equal(t, "thriller", gotSpecs[0].Slug)
}

func TestTitleUpdate_EmptyPresentGenreSetRejected(t *testing.T) {
	titleRepo := &mockTitleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Title, error) {
			return &models.Title{ID: id, Name: "Name", Year: 1990}, nil
		},
	}
	svc := NewTitleService(titleRepo, knownCategoryRepo(), noReviewsRepo())

	empty := []dto.GenreRefDTO{}
	_, err := svc.Update(context.Background(), 5, dto.UpdateTitleDTO{Genre: &empty})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestTitleGet_RatingTruncates(t *testing.T) {
	titleRepo := &mockTitleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Title, error) {
			return &models.Title{ID: id, Name: "Rated", Year: 2001}, nil
		},
	}
	reviewRepo := &mockReviewRepo{
		scoreStatsFn: func(ctx context.Context, titleID int64) (int64, int64, error) {
			return 11, 2, nil // scores 5 and 6
		},
	}
	svc := NewTitleService(titleRepo, knownCategoryRepo(), reviewRepo)

	resp, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
}

func TestTitleGet_Unknown(t *testing.T) {
	titleRepo := &mockTitleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Title, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewTitleService(titleRepo, knownCategoryRepo(), noReviewsRepo())

	_, err := svc.Get(context.Background(), 404)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
