package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"expenseflow.backend/internal/interfaces/http/response"
	"expenseflow.backend/internal/usecases"
	"expenseflow.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxReceiptSize caps receipt uploads at 10 MB.
const maxReceiptSize = 10 << 20

type expenseService interface {
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateExpenseInput) (*entities.Expense, error)
	GetByID(ctx context.Context, id, requesterID uuid.UUID, requesterRole entities.UserRole) (*entities.Expense, error)
	ListByOwner(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Expense, utils.PaginationMeta, error)
	ScanReceipt(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error)
}

// ExpenseHandler handles expense claim endpoints
type ExpenseHandler struct {
	expenseUsecase expenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseUsecase *usecases.ExpenseUsecase) *ExpenseHandler {
	return &ExpenseHandler{
		expenseUsecase: expenseUsecase,
	}
}

// Create submits a new expense claim for the authenticated user
// POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	expense, err := h.expenseUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, expense)
}

// List returns the authenticated user's expenses, newest first
// GET /api/v1/expenses?page=1&limit=10
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	expenses, meta, err := h.expenseUsecase.ListByOwner(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"expenses":   expenses,
		"pagination": meta,
	})
}

// Get returns a single expense. Employees can only read their own claims.
// GET /api/v1/expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	role, _ := middleware.GetUserRole(c)

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid expense ID"))
		return
	}

	expense, err := h.expenseUsecase.GetByID(c.Request.Context(), expenseID, userID, entities.UserRole(role))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, expense)
}

// ScanReceipt extracts expense fields from an uploaded receipt image.
// Extraction failures come back as empty fields, never an error.
// POST /api/v1/expenses/scan-receipt
func (h *ExpenseHandler) ScanReceipt(c *gin.Context) {
	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Receipt file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxReceiptSize {
		response.Error(c, domainerrors.BadRequest("Receipt file too large"))
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}

	fields, err := h.expenseUsecase.ScanReceipt(c.Request.Context(), image, header.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, fields)
}
