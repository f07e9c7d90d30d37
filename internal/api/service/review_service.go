package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/authz"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/apperrors"
	"reviewhub/internal/validation"

	"gorm.io/gorm"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, titleID int64, actor *models.User, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, titleID, reviewID int64, actor *models.User, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, titleID, reviewID int64, actor *models.User) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("title %d not found", titleID)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, dto.ReviewFromModel(&reviews[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("review %d not found", reviewID)
		}
		return nil, apperrors.Internal(err)
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

func (s *reviewService) Create(ctx context.Context, titleID int64, actor *models.User, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := validation.Score(in.Score); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.Conflictf("you have already reviewed this title")
	}

	review := &models.Review{
		Authored: models.Authored{Text: in.Text, AuthorID: actor.ID},
		TitleID:  titleID,
		Score:    in.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// The unique (author, title) constraint backstops the
		// pre-check against racing inserts.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("you have already reviewed this title")
		}
		return nil, apperrors.Internal(err)
	}

	return s.Get(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actor *models.User, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("review %d not found", reviewID)
		}
		return nil, apperrors.Internal(err)
	}

	if !authz.CanModifyContent(actor, review.AuthorID) {
		return nil, apperrors.Authorizationf("no permission to modify this review")
	}

	// Only text and score are mutable; author, title and pub_date stay
	// as written, and the one-review-per-title check is create-only.
	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		if err := validation.Score(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.Get(ctx, titleID, reviewID)
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actor *models.User) error {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("review %d not found", reviewID)
		}
		return apperrors.Internal(err)
	}

	if !authz.CanModifyContent(actor, review.AuthorID) {
		return apperrors.Authorizationf("no permission to delete this review")
	}

	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
