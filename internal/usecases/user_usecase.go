package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/domain/repositories"
	"expenseflow.backend/pkg/crypto"
	"expenseflow.backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// maxManagerChainDepth caps the manager-chain walk during cycle checks.
const maxManagerChainDepth = 64

// UserUsecase handles user administration
type UserUsecase struct {
	userRepo     repositories.UserRepository
	expenseRepo  repositories.ExpenseRepository
	approvalRepo repositories.ApprovalTransactionRepository
	uow          repositories.UnitOfWork
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(
	userRepo repositories.UserRepository,
	expenseRepo repositories.ExpenseRepository,
	approvalRepo repositories.ApprovalTransactionRepository,
	uow repositories.UnitOfWork,
) *UserUsecase {
	return &UserUsecase{
		userRepo:     userRepo,
		expenseRepo:  expenseRepo,
		approvalRepo: approvalRepo,
		uow:          uow,
	}
}

// Create creates a user with an assigned role and optional manager
func (u *UserUsecase) Create(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	role := entities.UserRole(input.Role)
	if !role.Valid() {
		return nil, domainerrors.BadRequest("unknown role")
	}

	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.Conflict("email already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entities.User{
		ID:                uuid.New(),
		FullName:          input.FullName,
		Email:             input.Email,
		PasswordHash:      passwordHash,
		Role:              role,
		IsManagerApprover: input.IsManagerApprover,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if input.ManagerID != "" {
		managerID, err := uuid.Parse(input.ManagerID)
		if err != nil {
			return nil, domainerrors.BadRequest("invalid manager id")
		}
		if managerID == user.ID {
			return nil, domainerrors.NewError("user cannot manage themselves", domainerrors.ErrManagerCycle)
		}
		if _, err := u.userRepo.GetByID(ctx, managerID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.NotFound("manager not found")
			}
			return nil, err
		}
		user.ManagerID = null.StringFrom(managerID.String())
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email already registered")
		}
		return nil, err
	}

	logger.Info(ctx, "user created",
		zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Update updates a user's name, role, manager assignment, and approver flag
func (u *UserUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Role != "" {
		role := entities.UserRole(input.Role)
		if !role.Valid() {
			return nil, domainerrors.BadRequest("unknown role")
		}
		user.Role = role
	}
	if input.IsManagerApprover != nil {
		user.IsManagerApprover = *input.IsManagerApprover
	}

	if input.ManagerID != "" {
		managerID, err := uuid.Parse(input.ManagerID)
		if err != nil {
			return nil, domainerrors.BadRequest("invalid manager id")
		}
		if err := u.checkManagerCycle(ctx, id, managerID); err != nil {
			return nil, err
		}
		user.ManagerID = null.StringFrom(managerID.String())
	}

	user.UpdatedAt = time.Now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Users with recorded expenses cannot be
// deleted; their history must stay attributable. Otherwise subordinate
// manager links and audit approver references are nulled and the user
// is soft deleted, all in one transaction.
func (u *UserUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return err
	}

	count, err := u.expenseRepo.CountByOwner(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.NewAppError(http.StatusConflict, "user has expenses and cannot be deleted", domainerrors.ErrHasExpenses)
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.ClearManagerRefs(txCtx, id); err != nil {
			return err
		}
		if err := u.approvalRepo.ClearApproverRefs(txCtx, id); err != nil {
			return err
		}
		return u.userRepo.SoftDelete(txCtx, id)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "user deleted", zap.String("user_id", id.String()))
	return nil
}

// GetByID gets a user by ID
func (u *UserUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// List lists users with an optional search filter
func (u *UserUsecase) List(ctx context.Context, search string) ([]*entities.User, error) {
	return u.userRepo.List(ctx, search)
}

// ListManagers lists users assignable as a manager
func (u *UserUsecase) ListManagers(ctx context.Context) ([]*entities.User, error) {
	return u.userRepo.ListManagers(ctx)
}

// checkManagerCycle walks the proposed manager's chain upward and
// rejects the assignment if it ever reaches the user being updated.
func (u *UserUsecase) checkManagerCycle(ctx context.Context, userID, managerID uuid.UUID) error {
	if userID == managerID {
		return domainerrors.NewError("user cannot manage themselves", domainerrors.ErrManagerCycle)
	}

	current := managerID
	for depth := 0; depth < maxManagerChainDepth; depth++ {
		manager, err := u.userRepo.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				if depth == 0 {
					return domainerrors.NotFound("manager not found")
				}
				return nil
			}
			return err
		}

		if !manager.ManagerID.Valid {
			return nil
		}
		next, err := uuid.Parse(manager.ManagerID.String)
		if err != nil {
			return nil
		}
		if next == userID {
			return domainerrors.NewError("manager assignment would create a cycle", domainerrors.ErrManagerCycle)
		}
		current = next
	}
	return domainerrors.NewError("manager chain too deep", domainerrors.ErrManagerCycle)
}
