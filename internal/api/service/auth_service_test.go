package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/apperrors"
	"reviewhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockUserRepo lets each test plug in just the calls it cares about.
type mockUserRepo struct {
	createFn         func(ctx context.Context, user *models.User) error
	updateFn         func(ctx context.Context, user *models.User) error
	deleteFn         func(ctx context.Context, username string) error
	findByIDFn       func(ctx context.Context, id string) (*models.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	findByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	findByPairFn     func(ctx context.Context, username, email string) (*models.User, error)
	listFn           func(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	return m.updateFn(ctx, user)
}

func (m *mockUserRepo) Delete(ctx context.Context, username string) error {
	return m.deleteFn(ctx, username)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findByUsernameFn(ctx, username)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepo) FindByPair(ctx context.Context, username, email string) (*models.User, error) {
	return m.findByPairFn(ctx, username, email)
}

func (m *mockUserRepo) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return m.listFn(ctx, search, page, pageSize)
}

// chanMailer forwards every sent body to a channel so tests can wait for
// the asynchronous dispatch.
type chanMailer struct {
	sent chan string
}

func newChanMailer() *chanMailer {
	return &chanMailer{sent: make(chan string, 1)}
}

func (m *chanMailer) Send(ctx context.Context, subject, body, recipient string) error {
	m.sent <- body
	return nil
}

func (m *chanMailer) waitBody(t *testing.T) string {
	t.Helper()
	select {
	case body := <-m.sent:
		return body
	case <-time.After(2 * time.Second):
		t.Fatal("no mail dispatched")
		return ""
	}
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:                "test-secret-test-secret-test-secret",
		TokenTTL:                 time.Hour,
		ConfirmationCodeLength:   20,
		ConfirmationCodeAlphabet: "abcdefghijklmnopqrstuvwxyz0123456789",
	}
}

func newTestAuthService(repo *mockUserRepo, mail *chanMailer) AuthService {
	return NewAuthService(repo, mail, slog.Default(), testAuthConfig())
}

func TestRegisterOrResend_NewUser(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		findByPairFn: func(ctx context.Context, username, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	mail := newChanMailer()
	svc := newTestAuthService(repo, mail)

	user, err := svc.RegisterOrResend(context.Background(), "newcomer", "Newcomer@Example.COM")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "newcomer", user.Username)
	assert.Equal(t, "newcomer@example.com", user.Email, "email is stored lowercased")
	assert.Equal(t, models.RoleUser, user.Role)
	require.NotNil(t, user.ConfirmationCode)
	assert.Len(t, *user.ConfirmationCode, 20)

	body := mail.waitBody(t)
	assert.Contains(t, body, *user.ConfirmationCode)
}

func TestRegisterOrResend_RepeatSignupResendsStoredCode(t *testing.T) {
	code := "stored-code-123"
	existing := &models.User{
		Username:         "returning",
		Email:            "returning@example.com",
		Role:             models.RoleUser,
		ConfirmationCode: &code,
	}
	repo := &mockUserRepo{
		findByPairFn: func(ctx context.Context, username, email string) (*models.User, error) {
			return existing, nil
		},
		createFn: func(ctx context.Context, user *models.User) error {
			t.Fatal("repeat signup must not create a new user")
			return nil
		},
	}
	mail := newChanMailer()
	svc := newTestAuthService(repo, mail)

	user, err := svc.RegisterOrResend(context.Background(), "returning", "returning@example.com")
	require.NoError(t, err)

	// The original code is re-delivered verbatim, never rotated.
	require.NotNil(t, user.ConfirmationCode)
	assert.Equal(t, code, *user.ConfirmationCode)
	assert.Contains(t, mail.waitBody(t), code)
}

func TestRegisterOrResend_UsernameBoundToOtherEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByPairFn: func(ctx context.Context, username, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: username, Email: "other@example.com"}, nil
		},
	}
	svc := newTestAuthService(repo, newChanMailer())

	_, err := svc.RegisterOrResend(context.Background(), "taken", "fresh@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestRegisterOrResend_EmailBoundToOtherUsername(t *testing.T) {
	repo := &mockUserRepo{
		findByPairFn: func(ctx context.Context, username, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{Username: "someoneelse", Email: email}, nil
		},
	}
	svc := newTestAuthService(repo, newChanMailer())

	_, err := svc.RegisterOrResend(context.Background(), "fresh", "taken@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestRegisterOrResend_ReservedUsername(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, newChanMailer())

	_, err := svc.RegisterOrResend(context.Background(), "me", "me@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestIssueToken_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestAuthService(repo, newChanMailer())

	_, err := svc.IssueToken(context.Background(), "ghost", "whatever")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestIssueToken_WrongCode(t *testing.T) {
	code := "right-code"
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: username, ConfirmationCode: &code}, nil
		},
	}
	svc := newTestAuthService(repo, newChanMailer())

	_, err := svc.IssueToken(context.Background(), "somebody", "wrong-code")
	assert.True(t, errors.Is(err, apperrors.ErrAuthentication))
}

func TestIssueToken_Success(t *testing.T) {
	code := "right-code"
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{
				ID:               "user-1",
				Username:         username,
				Role:             models.RoleModerator,
				ConfirmationCode: &code,
			}, nil
		},
	}
	svc := newTestAuthService(repo, newChanMailer())

	token, err := svc.IssueToken(context.Background(), "somebody", code)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "somebody", claims.Username)
	assert.Equal(t, models.RoleModerator, claims.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{}, newChanMailer())

	_, err := svc.ValidateToken("not.a.token")
	assert.True(t, errors.Is(err, apperrors.ErrAuthentication))
}

func TestGenerateConfirmationCode(t *testing.T) {
	alphabet := "abc123"

	code, err := GenerateConfirmationCode(alphabet, 32)
	require.NoError(t, err)
	assert.Len(t, code, 32)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}

	_, err = GenerateConfirmationCode("", 10)
	assert.Error(t, err)
	_, err = GenerateConfirmationCode(alphabet, 0)
	assert.Error(t, err)
}
