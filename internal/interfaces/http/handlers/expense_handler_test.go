package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"expenseflow.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type expenseServiceStub struct {
	createFn      func(ctx context.Context, userID uuid.UUID, input *entities.CreateExpenseInput) (*entities.Expense, error)
	getByIDFn     func(ctx context.Context, id, requesterID uuid.UUID, requesterRole entities.UserRole) (*entities.Expense, error)
	listByOwnerFn func(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Expense, utils.PaginationMeta, error)
	scanReceiptFn func(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error)
}

func (s expenseServiceStub) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateExpenseInput) (*entities.Expense, error) {
	return s.createFn(ctx, userID, input)
}
func (s expenseServiceStub) GetByID(ctx context.Context, id, requesterID uuid.UUID, requesterRole entities.UserRole) (*entities.Expense, error) {
	return s.getByIDFn(ctx, id, requesterID, requesterRole)
}
func (s expenseServiceStub) ListByOwner(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Expense, utils.PaginationMeta, error) {
	return s.listByOwnerFn(ctx, userID, page, limit)
}
func (s expenseServiceStub) ScanReceipt(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error) {
	return s.scanReceiptFn(ctx, image, filename)
}

func authAs(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
	}
}

func TestExpenseHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	h := &ExpenseHandler{expenseUsecase: expenseServiceStub{
		createFn: func(_ context.Context, uid uuid.UUID, input *entities.CreateExpenseInput) (*entities.Expense, error) {
			require.Equal(t, userID, uid)
			return &entities.Expense{
				ID:                uuid.New(),
				UserID:            uid,
				SubmittedAmount:   input.Amount,
				SubmittedCurrency: input.Currency,
				Status:            entities.ExpenseStatusPending,
			}, nil
		},
	}}

	r := gin.New()
	r.POST("/expenses", authAs(userID, "Employee"), h.Create)
	r.POST("/expenses-anon", h.Create)

	w := postJSON(t, r, "/expenses", gin.H{
		"amount":   120.50,
		"currency": "EUR",
		"category": "Travel",
		"date":     "2026-08-20",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "Pending")

	// validation handled by binding: zero amount
	w = postJSON(t, r, "/expenses", gin.H{
		"amount":   0,
		"currency": "EUR",
		"category": "Travel",
		"date":     "2026-08-20",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// lowercase currency rejected by binding
	w = postJSON(t, r, "/expenses", gin.H{
		"amount":   10,
		"currency": "eur",
		"category": "Travel",
		"date":     "2026-08-20",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/expenses-anon", gin.H{
		"amount":   10,
		"currency": "EUR",
		"category": "Travel",
		"date":     "2026-08-20",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpenseHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	var gotPage, gotLimit int
	h := &ExpenseHandler{expenseUsecase: expenseServiceStub{
		listByOwnerFn: func(_ context.Context, uid uuid.UUID, page, limit int) ([]*entities.Expense, utils.PaginationMeta, error) {
			gotPage, gotLimit = page, limit
			return []*entities.Expense{{ID: uuid.New(), UserID: uid}}, utils.CalculateMeta(1, page, limit), nil
		},
	}}

	r := gin.New()
	r.GET("/expenses", authAs(userID, "Employee"), h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/expenses?page=3&limit=25", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3, gotPage)
	require.Equal(t, 25, gotLimit)
	require.Contains(t, w.Body.String(), "pagination")

	// defaults apply when query params are absent
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/expenses", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, gotPage)
	require.Equal(t, 10, gotLimit)
}

func TestExpenseHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	expenseID := uuid.New()

	h := &ExpenseHandler{expenseUsecase: expenseServiceStub{
		getByIDFn: func(_ context.Context, id, requesterID uuid.UUID, role entities.UserRole) (*entities.Expense, error) {
			if role == entities.UserRoleEmployee && requesterID != userID {
				return nil, domainerrors.Forbidden("You do not have access to this expense")
			}
			if id != expenseID {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.Expense{ID: id, UserID: userID}, nil
		},
	}}

	r := gin.New()
	r.GET("/mine/:id", authAs(userID, "Employee"), h.Get)
	r.GET("/other/:id", authAs(uuid.New(), "Employee"), h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mine/"+expenseID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other/"+expenseID.String(), nil))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mine/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mine/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseHandler_ScanReceipt(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &ExpenseHandler{expenseUsecase: expenseServiceStub{
		scanReceiptFn: func(_ context.Context, image []byte, filename string) (*entities.ReceiptFields, error) {
			require.Equal(t, "receipt.jpg", filename)
			require.Equal(t, []byte("fake-image-bytes"), image)
			return &entities.ReceiptFields{Amount: "42.50", Currency: "USD", Category: "Meals"}, nil
		},
	}}

	r := gin.New()
	r.POST("/scan", h.ScanReceipt)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("receipt", "receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "42.50")
	require.Contains(t, w.Body.String(), "Meals")
}

func TestExpenseHandler_ScanReceiptMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &ExpenseHandler{expenseUsecase: expenseServiceStub{}}

	r := gin.New()
	r.POST("/scan", h.ScanReceipt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
