package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/apperrors"
	"reviewhub/internal/validation"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	// Update applies a partial edit. Role and staff changes are only
	// honored when allowRoleChange is set; the self-service profile
	// path keeps them read-only.
	Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := validation.Username(in.Username); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, apperrors.Validationf("unknown role %q", role)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     strings.ToLower(in.Email),
		Role:      role,
		IsStaff:   in.IsStaff,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("a user with this username or email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %q not found", username)
		}
		return nil, apperrors.Internal(err)
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %q not found", username)
		}
		return nil, apperrors.Internal(err)
	}

	if in.Email != nil {
		user.Email = strings.ToLower(*in.Email)
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if allowRoleChange {
		if in.Role != nil {
			if !models.ValidRole(*in.Role) {
				return nil, apperrors.Validationf("unknown role %q", *in.Role)
			}
			user.Role = *in.Role
		}
		if in.IsStaff != nil {
			user.IsStaff = *in.IsStaff
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("a user with this email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("user %q not found", username)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user not found")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}
