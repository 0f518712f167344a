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

type managerDashboardService interface {
	Manager(ctx context.Context, managerID uuid.UUID) (*entities.ManagerDashboard, error)
}

// DashboardHandler handles manager dashboard endpoints
type DashboardHandler struct {
	dashboardUsecase managerDashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUsecase *usecases.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

// Manager returns the team dashboard for a manager: pending first-step
// approvals, the full team history and year-to-date spend.
// GET /api/v1/dashboard/manager/:managerId
func (h *DashboardHandler) Manager(c *gin.Context) {
	managerID, err := uuid.Parse(c.Param("managerId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid manager ID"))
		return
	}

	dashboard, err := h.dashboardUsecase.Manager(c.Request.Context(), managerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}
