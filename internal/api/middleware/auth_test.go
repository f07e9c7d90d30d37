package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterOrResend(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	args := m.Called(username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	args := m.Called(search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserResponse]), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error) {
	args := m.Called(username, in, allowRoleChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	args := m.Called(username)
	return args.Error(0)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// whoamiRouter mounts a route behind the given middleware that reports
// who the middleware resolved.
func whoamiRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Username})
	})
	r.GET("/whoami", chain...)
	return r
}

func get(router *gin.Engine, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	authSvc := new(MockAuthService)
	userSvc := new(MockUserService)
	router := whoamiRouter(Authenticate(authSvc, userSvc))

	w := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	authSvc := new(MockAuthService)
	userSvc := new(MockUserService)
	router := whoamiRouter(Authenticate(authSvc, userSvc))

	authSvc.On("ValidateToken", "good-token").
		Return(&service.Claims{UserID: "user-1"}, nil)
	userSvc.On("GetByID", "user-1").
		Return(&models.User{ID: "user-1", Username: "reader"}, nil)

	w := get(router, "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reader")
}

func TestAuthenticateOptional_AnonymousPassesThrough(t *testing.T) {
	authSvc := new(MockAuthService)
	userSvc := new(MockUserService)
	router := whoamiRouter(AuthenticateOptional(authSvc, userSvc))

	w := get(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestAuthenticateOptional_BadTokenStaysAnonymous(t *testing.T) {
	authSvc := new(MockAuthService)
	userSvc := new(MockUserService)
	router := whoamiRouter(AuthenticateOptional(authSvc, userSvc))

	authSvc.On("ValidateToken", "stale-token").
		Return(nil, assert.AnError)

	w := get(router, "stale-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestAuthenticateOptional_ValidTokenIdentifiesReader(t *testing.T) {
	authSvc := new(MockAuthService)
	userSvc := new(MockUserService)
	router := whoamiRouter(AuthenticateOptional(authSvc, userSvc))

	authSvc.On("ValidateToken", "good-token").
		Return(&service.Claims{UserID: "user-1"}, nil)
	userSvc.On("GetByID", "user-1").
		Return(&models.User{ID: "user-1", Username: "reader"}, nil)

	w := get(router, "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reader")
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", &models.User{Role: models.RoleUser}, http.StatusForbidden},
		{"moderator", &models.User{Role: models.RoleModerator}, http.StatusForbidden},
		{"admin role", &models.User{Role: models.RoleAdmin}, http.StatusOK},
		{"staff flag", &models.User{Role: models.RoleUser, IsStaff: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := func(c *gin.Context) {
				if tt.user != nil {
					c.Set(userContextKey, tt.user)
				}
				c.Next()
			}
			router := whoamiRouter(seed, RequireAdmin())

			w := get(router, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
