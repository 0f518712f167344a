package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "expenseflow.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func ginContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := ginContext(t)
	Success(c, http.StatusCreated, gin.H{"ok": true})
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestError_AppErrorKeepsStatus(t *testing.T) {
	c, w := ginContext(t)
	Error(c, domainerrors.Conflict("expense is already Approved"))
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "already Approved")
}

func TestError_SentinelMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domainerrors.ErrNotFound, http.StatusNotFound},
		{domainerrors.ErrAlreadyExists, http.StatusConflict},
		{domainerrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainerrors.ErrForbidden, http.StatusForbidden},
		{domainerrors.ErrBadRequest, http.StatusBadRequest},
		{domainerrors.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, w := ginContext(t)
		Error(c, tc.err)
		require.Equal(t, tc.status, w.Code, "err=%v", tc.err)
	}
}

func TestError_WrappedSentinel(t *testing.T) {
	c, w := ginContext(t)
	Error(c, domainerrors.NewError("manager assignment would create a cycle", domainerrors.ErrManagerCycle))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
