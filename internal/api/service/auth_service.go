package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/apperrors"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
	"reviewhub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const mailDispatchTimeout = 10 * time.Second

// Claims is the identity payload carried by bearer tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// RegisterOrResend creates the user for a new (username, email)
	// pair, or re-delivers the stored confirmation code when the exact
	// pair already exists.
	RegisterOrResend(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges a confirmation code for a signed bearer token.
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo     repository.UserRepository
	mail         mailer.Mailer
	logger       *slog.Logger
	jwtSecret    string
	tokenTTL     time.Duration
	codeAlphabet string
	codeLength   int
}

func NewAuthService(
	userRepo repository.UserRepository,
	mail mailer.Mailer,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		mail:         mail,
		logger:       logger,
		jwtSecret:    cfg.JWTSecret,
		tokenTTL:     cfg.TokenTTL,
		codeAlphabet: cfg.ConfirmationCodeAlphabet,
		codeLength:   cfg.ConfirmationCodeLength,
	}
}

// GenerateConfirmationCode draws a fixed-length code from the given
// alphabet using a cryptographically sound source.
func GenerateConfirmationCode(alphabet string, length int) (string, error) {
	if len(alphabet) == 0 || length < 1 {
		return "", fmt.Errorf("confirmation code alphabet and length must be non-empty")
	}
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate confirmation code: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

func (s *authService) RegisterOrResend(ctx context.Context, username, email string) (*models.User, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	user, err := s.userRepo.FindByPair(ctx, username, email)
	switch {
	case err == nil:
		// Repeat signup for the same identity: resend the stored code,
		// never regenerate.
		code := ""
		if user.ConfirmationCode != nil {
			code = *user.ConfirmationCode
		}
		s.dispatchCode(user.Username, user.Email, code)
		return user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Internal(err)
	}

	// The pair is new; either column bound to a different pairing is a
	// uniqueness conflict.
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.Conflictf("a user with this username or email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflictf("a user with this username or email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	code, err := GenerateConfirmationCode(s.codeAlphabet, s.codeLength)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user = &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: &code,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A racing signup can beat the pre-checks to the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("a user with this username or email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	s.dispatchCode(user.Username, user.Email, code)
	return user, nil
}

// dispatchCode emails the confirmation code best-effort. Delivery
// failure is logged and never fails the signup request.
func (s *authService) dispatchCode(username, email, code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()

		body := fmt.Sprintf("Hello, %s. Your confirmation code: %s", username, code)
		if err := s.mail.Send(ctx, "Account registration", body, email); err != nil {
			s.logger.Error("confirmation code delivery failed",
				"username", username,
				"error", err,
			)
		}
	}()
}

func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFoundf("user %q not found", username)
		}
		return "", apperrors.Internal(err)
	}

	// Exact string comparison against the stored code. Codes stay valid
	// until a later signup overwrites them.
	if user.ConfirmationCode == nil || *user.ConfirmationCode != confirmationCode {
		return "", apperrors.Authenticationf("invalid confirmation code")
	}

	return s.generateToken(user)
}

func (s *authService) generateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, apperrors.Authenticationf("invalid token")
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.Authenticationf("invalid token")
}
