package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"expenseflow.backend/pkg/jwt"
	"expenseflow.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type authServiceStub struct {
	registerFn     func(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error)
	loginFn        func(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	refreshTokenFn func(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	getUserByIDFn  func(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

func (s authServiceStub) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	return s.registerFn(ctx, input)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	return s.refreshTokenFn(ctx, refreshToken)
}
func (s authServiceStub) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.getUserByIDFn(ctx, id)
}

type sessionStoreStub struct {
	createFn func(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	deleteFn func(ctx context.Context, sessionID string) error
}

func (s sessionStoreStub) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	return s.createFn(ctx, sessionID, data, expiration)
}
func (s sessionStoreStub) DeleteSession(ctx context.Context, sessionID string) error {
	return s.deleteFn(ctx, sessionID)
}

func jsonBody(t *testing.T, body interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &AuthHandler{authUsecase: authServiceStub{
		registerFn: func(_ context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
			if input.Email == "taken@expenseflow.io" {
				return nil, domainerrors.Conflict("Email already registered")
			}
			return &entities.AuthResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				RedirectPath: "/dashboard",
				User:         &entities.User{Email: input.Email, Role: entities.UserRoleEmployee},
			}, nil
		},
	}}

	r := gin.New()
	r.POST("/register", h.Register)

	w := postJSON(t, r, "/register", gin.H{
		"fullName": "New Person",
		"email":    "new@expenseflow.io",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "/dashboard")

	w = postJSON(t, r, "/register", gin.H{
		"fullName": "Other Person",
		"email":    "taken@expenseflow.io",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// binding failure: password too short
	w = postJSON(t, r, "/register", gin.H{
		"fullName": "X Y",
		"email":    "x@expenseflow.io",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginWithTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &AuthHandler{authUsecase: authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
			if input.Password != "correct" {
				return nil, domainerrors.ErrInvalidCredentials
			}
			return &entities.AuthResponse{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				RedirectPath: "/manager/dashboard",
				User:         &entities.User{Email: input.Email, Role: entities.UserRoleManager},
			}, nil
		},
	}}

	r := gin.New()
	r.POST("/login", h.Login)

	w := postJSON(t, r, "/login", gin.H{"email": "m@expenseflow.io", "password": "correct"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "access-token")
	require.Contains(t, w.Body.String(), "/manager/dashboard")

	cookies := w.Result().Cookies()
	names := make(map[string]string)
	for _, ck := range cookies {
		names[ck.Name] = ck.Value
	}
	require.Equal(t, "access-token", names["token"])
	require.Equal(t, "refresh-token", names["refresh_token"])

	w = postJSON(t, r, "/login", gin.H{"email": "m@expenseflow.io", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginWithSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var storedData *redis.SessionData
	var storedID string
	h := &AuthHandler{
		authUsecase: authServiceStub{
			loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
				return &entities.AuthResponse{
					AccessToken:  "access-token",
					RefreshToken: "refresh-token",
					RedirectPath: "/dashboard",
					User:         &entities.User{Email: input.Email, Role: entities.UserRoleEmployee},
				}, nil
			},
		},
		sessionStore: sessionStoreStub{
			createFn: func(_ context.Context, sessionID string, data *redis.SessionData, _ time.Duration) error {
				storedID = sessionID
				storedData = data
				return nil
			},
		},
	}

	r := gin.New()
	r.POST("/login", h.Login)

	w := postJSON(t, r, "/login", gin.H{"email": "e@expenseflow.io", "password": "correct", "useSession": true})
	require.Equal(t, http.StatusOK, w.Code)

	// tokens stay server-side
	require.NotContains(t, w.Body.String(), "access-token")
	require.NotContains(t, w.Body.String(), "refresh-token")
	require.Contains(t, w.Body.String(), storedID)
	require.Equal(t, "access-token", storedData.AccessToken)
	require.Equal(t, "refresh-token", storedData.RefreshToken)

	var sessionCookie string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookieName {
			sessionCookie = ck.Value
		}
	}
	require.Equal(t, storedID, sessionCookie)
}

func TestAuthHandler_LoginSessionNotEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &AuthHandler{authUsecase: authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
			return &entities.AuthResponse{User: &entities.User{}}, nil
		},
	}}

	r := gin.New()
	r.POST("/login", h.Login)

	w := postJSON(t, r, "/login", gin.H{"email": "e@expenseflow.io", "password": "x", "useSession": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &AuthHandler{authUsecase: authServiceStub{
		refreshTokenFn: func(_ context.Context, token string) (*jwt.TokenPair, error) {
			if token != "valid-refresh" {
				return nil, jwt.ErrInvalidToken
			}
			return &jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}}

	r := gin.New()
	r.POST("/refresh", h.RefreshToken)

	// token in body
	w := postJSON(t, r, "/refresh", gin.H{"refreshToken": "valid-refresh"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "new-access")

	// token in cookie
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "valid-refresh"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// no token anywhere
	req = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// invalid token
	w = postJSON(t, r, "/refresh", gin.H{"refreshToken": "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LogoutDeletesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var deletedID string
	h := &AuthHandler{
		authUsecase: authServiceStub{},
		sessionStore: sessionStoreStub{
			deleteFn: func(_ context.Context, sessionID string) error {
				deletedID = sessionID
				return nil
			},
		},
	}

	r := gin.New()
	r.POST("/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-123"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "sess-123", deletedID)
}

func TestAuthHandler_GetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	h := &AuthHandler{authUsecase: authServiceStub{
		getUserByIDFn: func(_ context.Context, id uuid.UUID) (*entities.User, error) {
			if id != userID {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.User{ID: id, Email: "me@expenseflow.io", Role: entities.UserRoleAdmin}, nil
		},
	}}

	r := gin.New()
	r.GET("/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}, h.GetMe)
	r.GET("/me-anon", h.GetMe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "me@expenseflow.io")
	require.Contains(t, w.Body.String(), "/admin/dashboard")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me-anon", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
