package handlers

import (
	"context"
	"net/http"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"expenseflow.backend/internal/interfaces/http/response"
	"expenseflow.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type userService interface {
	Create(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	List(ctx context.Context, search string) ([]*entities.User, error)
	ListManagers(ctx context.Context) ([]*entities.User, error)
}

type currencyService interface {
	UpdateCompanyCurrency(ctx context.Context, input *entities.UpdateCurrencyInput) (*entities.CurrencyUpdateResult, error)
}

type overrideService interface {
	Override(ctx context.Context, expenseID, adminID uuid.UUID, input *entities.OverrideExpenseInput) (*entities.ProcessApprovalResult, error)
}

type adminDashboardService interface {
	Admin(ctx context.Context) (*entities.AdminDashboard, error)
}

// AdminHandler handles admin-only endpoints: user management, company
// currency and the company-wide dashboard.
type AdminHandler struct {
	userUsecase      userService
	currencyUsecase  currencyService
	approvalUsecase  overrideService
	dashboardUsecase adminDashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	userUsecase *usecases.UserUsecase,
	currencyUsecase *usecases.CurrencyUsecase,
	approvalUsecase *usecases.ApprovalUsecase,
	dashboardUsecase *usecases.DashboardUsecase,
) *AdminHandler {
	return &AdminHandler{
		userUsecase:      userUsecase,
		currencyUsecase:  currencyUsecase,
		approvalUsecase:  approvalUsecase,
		dashboardUsecase: dashboardUsecase,
	}
}

// CreateUser creates a user with an explicit role and manager assignment
// POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var input entities.CreateUserInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.userUsecase.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// ListUsers lists users, optionally filtered by a search term on name or email
// GET /api/v1/admin/users?search=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userUsecase.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// GetUser returns a single user
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	user, err := h.userUsecase.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateUser updates a user's profile, role or manager assignment
// PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.userUsecase.Update(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// DeleteUser soft-deletes a user. Users with expenses on file cannot be
// removed; the audit trail keeps its rows with the approver reference nulled.
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	if err := h.userUsecase.Delete(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User deleted"})
}

// ListManagers lists users eligible to be assigned as a manager
// GET /api/v1/admin/managers
func (h *AdminHandler) ListManagers(c *gin.Context) {
	managers, err := h.userUsecase.ListManagers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"managers": managers})
}

// UpdateCurrency changes the company default currency and rewrites all
// stored converted amounts. The response reports both outcomes separately
// since the rewrite can fail while the currency change sticks.
// PUT /api/v1/admin/company/currency
func (h *AdminHandler) UpdateCurrency(c *gin.Context) {
	var input entities.UpdateCurrencyInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.currencyUsecase.UpdateCompanyCurrency(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// OverrideExpense lets an admin flip a terminal decision. The override is
// recorded in the audit trail as a distinct decision type.
// POST /api/v1/admin/expenses/:id/override
func (h *AdminHandler) OverrideExpense(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid expense ID"))
		return
	}

	var input entities.OverrideExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.approvalUsecase.Override(c.Request.Context(), expenseID, adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Dashboard returns company-wide stats and the pending queue at all steps
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboardUsecase.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}
