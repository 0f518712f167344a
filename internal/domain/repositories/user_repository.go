package repositories

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]*entities.User, error)
	ListManagers(ctx context.Context) ([]*entities.User, error)
	// ClearManagerRefs nulls the manager reference of every subordinate
	// of the given manager.
	ClearManagerRefs(ctx context.Context, managerID uuid.UUID) error
	CountByRole(ctx context.Context, role entities.UserRole) (int64, error)
	Count(ctx context.Context) (int64, error)
}
