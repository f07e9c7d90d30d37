package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/apperrors"
	"reviewhub/internal/cache"
	"reviewhub/internal/validation"

	"gorm.io/gorm"
)

const (
	categoryListCacheKey = "categories:list"
	genreListCacheKey    = "genres:list"
)

// CategoryService and GenreService mirror each other; both serve the
// unfiltered list through the fail-safe cache and invalidate it on
// every write.

type CategoryService interface {
	List(ctx context.Context, search string) ([]dto.SluggedResponse, error)
	Create(ctx context.Context, in dto.CreateSluggedDTO) (*dto.SluggedResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	cache    *cache.Client
	cacheTTL time.Duration
}

func NewCategoryService(repo repository.CategoryRepository, c *cache.Client, cacheTTL time.Duration) CategoryService {
	return &categoryService{repo: repo, cache: c, cacheTTL: cacheTTL}
}

func (s *categoryService) List(ctx context.Context, search string) ([]dto.SluggedResponse, error) {
	if search == "" {
		if cached, _ := s.cache.Get(ctx, categoryListCacheKey); cached != nil {
			var resp []dto.SluggedResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		}
	}

	list, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	resp := make([]dto.SluggedResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryFromModel(c))
	}

	if search == "" {
		if payload, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, categoryListCacheKey, payload, s.cacheTTL)
		}
	}
	return resp, nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateSluggedDTO) (*dto.SluggedResponse, error) {
	if err := validation.Slug(in.Slug); err != nil {
		return nil, err
	}

	category := &models.Category{Slugged: models.Slugged{Name: in.Name, Slug: in.Slug}}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("category with slug %q already exists", in.Slug)
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Delete(ctx, categoryListCacheKey)
	resp := dto.CategoryFromModel(*category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("category %q not found", slug)
		}
		return apperrors.Internal(err)
	}
	s.cache.Delete(ctx, categoryListCacheKey)
	return nil
}

type GenreService interface {
	List(ctx context.Context, search string) ([]dto.SluggedResponse, error)
	Create(ctx context.Context, in dto.CreateSluggedDTO) (*dto.SluggedResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo     repository.GenreRepository
	cache    *cache.Client
	cacheTTL time.Duration
}

func NewGenreService(repo repository.GenreRepository, c *cache.Client, cacheTTL time.Duration) GenreService {
	return &genreService{repo: repo, cache: c, cacheTTL: cacheTTL}
}

func (s *genreService) List(ctx context.Context, search string) ([]dto.SluggedResponse, error) {
	if search == "" {
		if cached, _ := s.cache.Get(ctx, genreListCacheKey); cached != nil {
			var resp []dto.SluggedResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		}
	}

	list, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	resp := make([]dto.SluggedResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}

	if search == "" {
		if payload, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, genreListCacheKey, payload, s.cacheTTL)
		}
	}
	return resp, nil
}

func (s *genreService) Create(ctx context.Context, in dto.CreateSluggedDTO) (*dto.SluggedResponse, error) {
	if err := validation.Slug(in.Slug); err != nil {
		return nil, err
	}

	genre := &models.Genre{Slugged: models.Slugged{Name: in.Name, Slug: in.Slug}}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("genre with slug %q already exists", in.Slug)
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Delete(ctx, genreListCacheKey)
	resp := dto.GenreFromModel(*genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("genre %q not found", slug)
		}
		return apperrors.Internal(err)
	}
	s.cache.Delete(ctx, genreListCacheKey)
	return nil
}
