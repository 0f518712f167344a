package usecases_test

import (
	"context"
	"testing"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func newUserFixture() (*usecases.UserUsecase, *MockUserRepository, *MockExpenseRepository, *MockApprovalTransactionRepository, *MockUnitOfWork) {
	userRepo := new(MockUserRepository)
	expenseRepo := new(MockExpenseRepository)
	approvalRepo := new(MockApprovalTransactionRepository)
	uow := new(MockUnitOfWork)
	uc := usecases.NewUserUsecase(userRepo, expenseRepo, approvalRepo, uow)
	return uc, userRepo, expenseRepo, approvalRepo, uow
}

func TestUserUsecase_Create(t *testing.T) {
	uc, userRepo, _, _, _ := newUserFixture()
	ctx := context.Background()

	managerID := uuid.New()
	userRepo.On("GetByEmail", mock.Anything, "new@expenseflow.io").Return(nil, domainerrors.ErrNotFound)
	userRepo.On("GetByID", mock.Anything, managerID).Return(&entities.User{ID: managerID, Role: entities.UserRoleManager}, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Role == entities.UserRoleEmployee && u.ManagerID.String == managerID.String() && u.PasswordHash != "secret123"
	})).Return(nil)

	user, err := uc.Create(ctx, &entities.CreateUserInput{
		FullName:  "New Person",
		Email:     "new@expenseflow.io",
		Password:  "secret123",
		Role:      "Employee",
		ManagerID: managerID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, entities.UserRoleEmployee, user.Role)
	userRepo.AssertExpectations(t)
}

func TestUserUsecase_Create_Errors(t *testing.T) {
	uc, userRepo, _, _, _ := newUserFixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, &entities.CreateUserInput{
		FullName: "X", Email: "x@expenseflow.io", Password: "p", Role: "Overlord",
	})
	require.Error(t, err)

	userRepo.On("GetByEmail", mock.Anything, "taken@expenseflow.io").Return(&entities.User{ID: uuid.New()}, nil)
	_, err = uc.Create(ctx, &entities.CreateUserInput{
		FullName: "X", Email: "taken@expenseflow.io", Password: "p", Role: "Employee",
	})
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 409, appErr.Code)

	userRepo.On("GetByEmail", mock.Anything, "ok@expenseflow.io").Return(nil, domainerrors.ErrNotFound)
	missingManager := uuid.New()
	userRepo.On("GetByID", mock.Anything, missingManager).Return(nil, domainerrors.ErrNotFound)
	_, err = uc.Create(ctx, &entities.CreateUserInput{
		FullName: "X", Email: "ok@expenseflow.io", Password: "p", Role: "Employee",
		ManagerID: missingManager.String(),
	})
	require.Error(t, err)
}

func TestUserUsecase_Update_DetectsManagerCycle(t *testing.T) {
	uc, userRepo, _, _, _ := newUserFixture()
	ctx := context.Background()

	// a manages b; assigning b as a's manager closes the loop.
	aID := uuid.New()
	bID := uuid.New()
	a := &entities.User{ID: aID, FullName: "A", Role: entities.UserRoleManager}
	b := &entities.User{ID: bID, FullName: "B", Role: entities.UserRoleManager, ManagerID: null.StringFrom(aID.String())}

	userRepo.On("GetByID", mock.Anything, aID).Return(a, nil)
	userRepo.On("GetByID", mock.Anything, bID).Return(b, nil)

	_, err := uc.Update(ctx, aID, &entities.UpdateUserInput{ManagerID: bID.String()})
	require.ErrorIs(t, err, domainerrors.ErrManagerCycle)

	// Self-management is the degenerate cycle.
	_, err = uc.Update(ctx, aID, &entities.UpdateUserInput{ManagerID: aID.String()})
	require.ErrorIs(t, err, domainerrors.ErrManagerCycle)
}

func TestUserUsecase_Update_AppliesFields(t *testing.T) {
	uc, userRepo, _, _, _ := newUserFixture()
	ctx := context.Background()

	id := uuid.New()
	managerID := uuid.New()
	userRepo.On("GetByID", mock.Anything, id).Return(&entities.User{ID: id, FullName: "Old", Role: entities.UserRoleEmployee}, nil)
	userRepo.On("GetByID", mock.Anything, managerID).Return(&entities.User{ID: managerID, Role: entities.UserRoleManager}, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.FullName == "New Name" && u.Role == entities.UserRoleManager && u.IsManagerApprover
	})).Return(nil)

	approver := true
	user, err := uc.Update(ctx, id, &entities.UpdateUserInput{
		FullName:          "New Name",
		Role:              "Manager",
		ManagerID:         managerID.String(),
		IsManagerApprover: &approver,
	})
	require.NoError(t, err)
	require.Equal(t, "New Name", user.FullName)
	userRepo.AssertExpectations(t)
}

func TestUserUsecase_Delete_BlocksWhenExpensesExist(t *testing.T) {
	uc, userRepo, expenseRepo, _, uow := newUserFixture()
	ctx := context.Background()

	id := uuid.New()
	userRepo.On("GetByID", mock.Anything, id).Return(&entities.User{ID: id}, nil)
	expenseRepo.On("CountByOwner", mock.Anything, id).Return(int64(3), nil)

	err := uc.Delete(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrHasExpenses)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 409, appErr.Code)
	uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestUserUsecase_Delete_ClearsReferences(t *testing.T) {
	uc, userRepo, expenseRepo, approvalRepo, uow := newUserFixture()
	ctx := context.Background()

	id := uuid.New()
	userRepo.On("GetByID", mock.Anything, id).Return(&entities.User{ID: id}, nil)
	expenseRepo.On("CountByOwner", mock.Anything, id).Return(int64(0), nil)
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("ClearManagerRefs", mock.Anything, id).Return(nil)
	approvalRepo.On("ClearApproverRefs", mock.Anything, id).Return(nil)
	userRepo.On("SoftDelete", mock.Anything, id).Return(nil)

	require.NoError(t, uc.Delete(ctx, id))
	userRepo.AssertExpectations(t)
	approvalRepo.AssertExpectations(t)
}

func TestUserUsecase_ListAndGet(t *testing.T) {
	uc, userRepo, _, _, _ := newUserFixture()
	ctx := context.Background()

	userRepo.On("List", mock.Anything, "ali").Return([]*entities.User{{ID: uuid.New()}}, nil)
	items, err := uc.List(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, items, 1)

	userRepo.On("ListManagers", mock.Anything).Return([]*entities.User{{ID: uuid.New()}}, nil)
	managers, err := uc.ListManagers(ctx)
	require.NoError(t, err)
	require.Len(t, managers, 1)

	missing := uuid.New()
	userRepo.On("GetByID", mock.Anything, missing).Return(nil, domainerrors.ErrNotFound)
	_, err = uc.GetByID(ctx, missing)
	require.Error(t, err)
}
