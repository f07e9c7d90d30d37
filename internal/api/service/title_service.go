package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/apperrors"
	"reviewhub/internal/validation"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

func (s *titleService) List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filters, page, pageSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ids := make([]int64, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
	}
	ratings, err := s.titleRepo.RatingsFor(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, dto.TitleFromModel(&titles[i], ratings[titles[i].ID]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("title %d not found", id)
		}
		return nil, apperrors.Internal(err)
	}

	// Rating is always computed fresh from the current review set.
	sum, count, err := s.reviewRepo.ScoreStats(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	resp := dto.TitleFromModel(title, AggregateRating(sum, count))
	return &resp, nil
}

func (s *titleService) genreSpecs(in []dto.GenreRefDTO) ([]repository.GenreSpec, error) {
	specs := make([]repository.GenreSpec, 0, len(in))
	for _, g := range in {
		if err := validation.Slug(g.Slug); err != nil {
			return nil, err
		}
		specs = append(specs, repository.GenreSpec{Name: g.Name, Slug: g.Slug})
	}
	return specs, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validationf("category %q does not exist", slug)
		}
		return nil, apperrors.Internal(err)
	}
	return category, nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := validation.Year(in.Year); err != nil {
		return nil, err
	}
	if len(in.Genre) == 0 {
		return nil, apperrors.Validationf("genre set must not be empty")
	}
	specs, err := s.genreSpecs(in.Genre)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        in.Name,
		Description: in.Description,
		Year:        in.Year,
		CategoryID:  &category.ID,
	}
	if err := s.titleRepo.Create(ctx, title, specs); err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("title %d not found", id)
		}
		return nil, apperrors.Internal(err)
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := validation.Year(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	// An omitted genre field leaves the association set untouched; a
	// present one rewrites it wholesale.
	var specs []repository.GenreSpec
	replace := in.Genre != nil
	if replace {
		if len(*in.Genre) == 0 {
			return nil, apperrors.Validationf("genre set must not be empty")
		}
		specs, err = s.genreSpecs(*in.Genre)
		if err != nil {
			return nil, err
		}
	}

	// Save scalar fields only; associations are managed through the
	// replacement protocol.
	title.Genres = nil
	title.Category = nil
	if err := s.titleRepo.Update(ctx, title, specs, replace); err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("title %d not found", id)
		}
		return apperrors.Internal(err)
	}
	return nil
}
