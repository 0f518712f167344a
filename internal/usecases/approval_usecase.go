package usecases

import (
	"context"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/domain/repositories"
	"expenseflow.backend/pkg/logger"
	"expenseflow.backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// ApprovalUsecase handles the expense approval workflow. An expense
// walks through approval steps 1..finalStep; the approval at finalStep
// makes it Approved, a rejection at any step makes it Rejected. Both
// end states are terminal.
type ApprovalUsecase struct {
	expenseRepo  repositories.ExpenseRepository
	approvalRepo repositories.ApprovalTransactionRepository
	userRepo     repositories.UserRepository
	uow          repositories.UnitOfWork
	finalStep    int
}

// NewApprovalUsecase creates a new approval usecase
func NewApprovalUsecase(
	expenseRepo repositories.ExpenseRepository,
	approvalRepo repositories.ApprovalTransactionRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	finalStep int,
) *ApprovalUsecase {
	if finalStep < 1 {
		finalStep = 2
	}
	return &ApprovalUsecase{
		expenseRepo:  expenseRepo,
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
		uow:          uow,
		finalStep:    finalStep,
	}
}

// Process applies one approval decision. The expense row is locked for
// the duration of the transaction so two approvers deciding at once
// serialize; the loser of the race sees the terminal status and gets a
// conflict.
func (u *ApprovalUsecase) Process(ctx context.Context, input *entities.ProcessApprovalInput) (*entities.ProcessApprovalResult, error) {
	expenseID, err := uuid.Parse(input.ExpenseID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid expense id")
	}
	approverID, err := uuid.Parse(input.ApproverID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid approver id")
	}

	action := entities.ApprovalAction(input.Action)
	if !action.Valid() {
		return nil, domainerrors.BadRequest("action must be Approve or Reject")
	}

	if _, err := u.userRepo.GetByID(ctx, approverID); err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("approver not found")
		}
		return nil, err
	}

	var result *entities.ProcessApprovalResult
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		expense, err := u.expenseRepo.GetByIDForUpdate(txCtx, expenseID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound("expense not found")
			}
			return err
		}

		if expense.Status.Terminal() {
			return domainerrors.Conflict("expense is already " + string(expense.Status))
		}

		switch action {
		case entities.ApprovalActionApprove:
			result, err = u.approve(txCtx, expense, approverID, input.Comments)
		case entities.ApprovalActionReject:
			result, err = u.reject(txCtx, expense, approverID, input.Comments)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ApprovalDecisions.WithLabelValues(input.Action, string(result.NewStatus)).Inc()
	logger.Info(ctx, "approval decision processed",
		zap.String("expense_id", expenseID.String()),
		zap.String("action", input.Action),
		zap.String("new_status", string(result.NewStatus)),
		zap.Int("new_step", result.NewStep),
	)
	return result, nil
}

func (u *ApprovalUsecase) approve(ctx context.Context, expense *entities.Expense, approverID uuid.UUID, comments string) (*entities.ProcessApprovalResult, error) {
	if err := u.approvalRepo.Append(ctx, &entities.ApprovalTransaction{
		ID:           uuid.New(),
		ExpenseID:    expense.ID,
		ApproverID:   null.StringFrom(approverID.String()),
		StepSequence: expense.CurrentApprovalStep,
		Decision:     entities.DecisionApprove,
		Comments:     comments,
		CreatedAt:    time.Now(),
	}); err != nil {
		return nil, err
	}

	newStatus := entities.ExpenseStatusPending
	newStep := expense.CurrentApprovalStep + 1
	if expense.CurrentApprovalStep >= u.finalStep {
		newStatus = entities.ExpenseStatusApproved
	}

	if err := u.expenseRepo.UpdateStatusStep(ctx, expense.ID, newStatus, newStep); err != nil {
		return nil, err
	}

	return &entities.ProcessApprovalResult{
		ExpenseID: expense.ID,
		NewStatus: newStatus,
		NewStep:   newStep,
	}, nil
}

func (u *ApprovalUsecase) reject(ctx context.Context, expense *entities.Expense, approverID uuid.UUID, comments string) (*entities.ProcessApprovalResult, error) {
	if err := u.approvalRepo.Append(ctx, &entities.ApprovalTransaction{
		ID:           uuid.New(),
		ExpenseID:    expense.ID,
		ApproverID:   null.StringFrom(approverID.String()),
		StepSequence: expense.CurrentApprovalStep,
		Decision:     entities.DecisionReject,
		Comments:     comments,
		CreatedAt:    time.Now(),
	}); err != nil {
		return nil, err
	}

	if err := u.expenseRepo.UpdateStatusStep(ctx, expense.ID, entities.ExpenseStatusRejected, expense.CurrentApprovalStep); err != nil {
		return nil, err
	}

	return &entities.ProcessApprovalResult{
		ExpenseID: expense.ID,
		NewStatus: entities.ExpenseStatusRejected,
		NewStep:   expense.CurrentApprovalStep,
	}, nil
}

// Override lets an admin force a terminal status regardless of the
// current step. The decision is recorded in the audit trail as an
// override so the bypass is visible.
func (u *ApprovalUsecase) Override(ctx context.Context, expenseID, adminID uuid.UUID, input *entities.OverrideExpenseInput) (*entities.ProcessApprovalResult, error) {
	status := entities.ExpenseStatus(input.Status)
	if !status.Terminal() {
		return nil, domainerrors.BadRequest("status must be Approved or Rejected")
	}

	decision := entities.DecisionOverrideApprove
	if status == entities.ExpenseStatusRejected {
		decision = entities.DecisionOverrideReject
	}

	var result *entities.ProcessApprovalResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		expense, err := u.expenseRepo.GetByIDForUpdate(txCtx, expenseID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound("expense not found")
			}
			return err
		}

		if err := u.approvalRepo.Append(txCtx, &entities.ApprovalTransaction{
			ID:           uuid.New(),
			ExpenseID:    expense.ID,
			ApproverID:   null.StringFrom(adminID.String()),
			StepSequence: expense.CurrentApprovalStep,
			Decision:     decision,
			Comments:     input.Comments,
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		if err := u.expenseRepo.UpdateStatusStep(txCtx, expense.ID, status, expense.CurrentApprovalStep); err != nil {
			return err
		}

		result = &entities.ProcessApprovalResult{
			ExpenseID: expense.ID,
			NewStatus: status,
			NewStep:   expense.CurrentApprovalStep,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "admin override applied",
		zap.String("expense_id", expenseID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("status", string(result.NewStatus)),
	)
	return result, nil
}

// History returns the expense's audit trail, oldest entry first.
func (u *ApprovalUsecase) History(ctx context.Context, expenseID uuid.UUID) ([]*entities.ApprovalTransaction, error) {
	if _, err := u.expenseRepo.GetByID(ctx, expenseID); err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("expense not found")
		}
		return nil, err
	}
	return u.approvalRepo.ListByExpense(ctx, expenseID)
}
