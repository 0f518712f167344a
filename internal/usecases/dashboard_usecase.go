package usecases

import (
	"context"
	"errors"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/domain/repositories"
	"expenseflow.backend/pkg/utils"
	"github.com/google/uuid"
)

// DashboardUsecase aggregates expense data for the manager and admin
// dashboards.
type DashboardUsecase struct {
	userRepo    repositories.UserRepository
	expenseRepo repositories.ExpenseRepository
	companyRepo repositories.CompanyRepository
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(
	userRepo repositories.UserRepository,
	expenseRepo repositories.ExpenseRepository,
	companyRepo repositories.CompanyRepository,
) *DashboardUsecase {
	return &DashboardUsecase{
		userRepo:    userRepo,
		expenseRepo: expenseRepo,
		companyRepo: companyRepo,
	}
}

// Manager builds the manager dashboard: the direct reports' expenses,
// the subset awaiting this manager's decision, and total team spend.
// Pending approvals surface only first-step items; later steps belong
// to the admin queue. The spend total sums the whole retained history,
// not the calendar year.
func (u *DashboardUsecase) Manager(ctx context.Context, managerID uuid.UUID) (*entities.ManagerDashboard, error) {
	manager, err := u.userRepo.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("manager not found")
		}
		return nil, err
	}
	if manager.Role != entities.UserRoleManager && manager.Role != entities.UserRoleAdmin {
		return nil, domainerrors.Forbidden("user is not a manager")
	}

	team, err := u.expenseRepo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	dashboard := &entities.ManagerDashboard{
		PendingApprovals: make([]*entities.TeamExpense, 0),
		AllTeamExpenses:  team,
	}

	var total float64
	for _, expense := range team {
		total += expense.ConvertedAmount
		if expense.Status == entities.ExpenseStatusPending && expense.CurrentApprovalStep == entities.InitialApprovalStep {
			dashboard.PendingApprovals = append(dashboard.PendingApprovals, expense)
		}
	}
	dashboard.TotalSpentYTD = utils.RoundAmount(total)

	return dashboard, nil
}

// Admin builds the company-wide dashboard with user counts and the
// pending queue across all approval steps.
func (u *DashboardUsecase) Admin(ctx context.Context) (*entities.AdminDashboard, error) {
	company, err := u.companyRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("company settings not found")
		}
		return nil, err
	}

	totalUsers, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalManagers, err := u.userRepo.CountByRole(ctx, entities.UserRoleManager)
	if err != nil {
		return nil, err
	}
	totalEmployees, err := u.userRepo.CountByRole(ctx, entities.UserRoleEmployee)
	if err != nil {
		return nil, err
	}

	pending, err := u.expenseRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.AdminDashboard{
		CompanyName:         company.Name,
		DefaultCurrencyCode: company.DefaultCurrencyCode,
		TotalUsers:          totalUsers,
		TotalManagers:       totalManagers,
		TotalEmployees:      totalEmployees,
		PendingApprovals:    pending,
	}, nil
}
