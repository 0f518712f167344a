package handlers

import (
	"context"
	"net/http"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/interfaces/http/response"
	"expenseflow.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type approvalService interface {
	Process(ctx context.Context, input *entities.ProcessApprovalInput) (*entities.ProcessApprovalResult, error)
	History(ctx context.Context, expenseID uuid.UUID) ([]*entities.ApprovalTransaction, error)
}

// ApprovalHandler handles approval workflow endpoints
type ApprovalHandler struct {
	approvalUsecase approvalService
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(approvalUsecase *usecases.ApprovalUsecase) *ApprovalHandler {
	return &ApprovalHandler{
		approvalUsecase: approvalUsecase,
	}
}

// Process records an approve or reject decision on a pending expense
// POST /api/v1/approvals/process
func (h *ApprovalHandler) Process(c *gin.Context) {
	var input entities.ProcessApprovalInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.approvalUsecase.Process(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// History returns the full audit trail for an expense, oldest first
// GET /api/v1/approvals/:expenseId/history
func (h *ApprovalHandler) History(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid expense ID"))
		return
	}

	transactions, err := h.approvalUsecase.History(c.Request.Context(), expenseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"expenseId": expenseID,
		"history":   transactions,
	})
}
