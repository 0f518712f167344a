package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"expenseflow.backend/internal/interfaces/http/response"
	"expenseflow.backend/internal/usecases"
	"expenseflow.backend/pkg/crypto"
	"expenseflow.backend/pkg/jwt"
	"expenseflow.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

type authService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

type sessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase  authService
	sessionStore sessionStore
}

// NewAuthHandler creates a new auth handler. sessionStore may be nil when
// no session encryption key is configured; session logins are then rejected.
func NewAuthHandler(authUsecase *usecases.AuthUsecase, sessionStore *redis.SessionStore) *AuthHandler {
	h := &AuthHandler{authUsecase: authUsecase}
	if sessionStore != nil {
		h.sessionStore = sessionStore
	}
	return h
}

// Register handles user self-registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, authResponse)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if input.UseSession {
		if h.sessionStore == nil {
			response.Error(c, domainerrors.BadRequest("Session login is not enabled"))
			return
		}

		sessionID, err := crypto.GenerateSessionID()
		if err != nil {
			response.Error(c, domainerrors.InternalError(err))
			return
		}

		data := &redis.SessionData{
			AccessToken:  authResponse.AccessToken,
			RefreshToken: authResponse.RefreshToken,
		}
		if err := h.sessionStore.CreateSession(c.Request.Context(), sessionID, data, sessionTTL); err != nil {
			log.Printf("[AuthHandler] Login: failed to create session: %v", err)
			response.Error(c, domainerrors.InternalError(err))
			return
		}

		// Tokens live server-side only; the client gets an opaque session id.
		authResponse.AccessToken = ""
		authResponse.RefreshToken = ""
		authResponse.SessionID = sessionID
		c.SetCookie(SessionCookieName, sessionID, int(sessionTTL.Seconds()), "/", "", false, true)

		response.Success(c, http.StatusOK, authResponse)
		return
	}

	c.SetCookie("token", authResponse.AccessToken, 3600*24, "/", "", false, true)
	c.SetCookie("refresh_token", authResponse.RefreshToken, 3600*24*7, "/", "", false, true)

	response.Success(c, http.StatusOK, authResponse)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string

	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken == "" {
		if cookie, err := c.Cookie("refresh_token"); err == nil {
			refreshToken = cookie
		}
	}

	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	tokenPair, err := h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", err))
		return
	}

	c.SetCookie("token", tokenPair.AccessToken, 3600*24, "/", "", false, true)
	c.SetCookie("refresh_token", tokenPair.RefreshToken, 3600*24*7, "/", "", false, true)

	response.Success(c, http.StatusOK, tokenPair)
}

// Logout clears the token cookies and deletes the server-side session if
// one was used.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.sessionStore != nil {
		if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
			if err := h.sessionStore.DeleteSession(c.Request.Context(), sessionID); err != nil {
				log.Printf("[AuthHandler] Logout: failed to delete session: %v", err)
			}
		}
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns current authenticated user details
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	val, exists := c.Get(middleware.UserIDKey)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	userID, ok := val.(uuid.UUID)
	if !ok {
		response.Error(c, domainerrors.InternalError(nil))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":     user,
		"redirect": usecases.RedirectPathForRole(user.Role),
	})
}
