package repositories

import (
	"context"
	"errors"
	"time"

	"expenseflow.backend/internal/domain/entities"
	domainerrors "expenseflow.backend/internal/domain/errors"
	"expenseflow.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:                user.ID,
		FullName:          user.FullName,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Role:              string(user.Role),
		ManagerID:         managerIDPtr(user.ManagerID),
		IsManagerApprover: user.IsManagerApprover,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Update updates a user's mutable fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"full_name":           user.FullName,
		"role":                string(user.Role),
		"manager_id":          managerIDPtr(user.ManagerID),
		"is_manager_approver": user.IsManagerApprover,
		"updated_at":          time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes a user
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional search filter
func (r *UserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	var userModels []models.User
	query := GetDB(ctx, r.db).WithContext(ctx).Order("created_at DESC")

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userToEntity(&userModels[i]))
	}
	return users, nil
}

// ListManagers lists users that can appear as a manager choice
func (r *UserRepository) ListManagers(ctx context.Context) ([]*entities.User, error) {
	var userModels []models.User
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("role IN ?", []string{string(entities.UserRoleManager), string(entities.UserRoleAdmin)}).
		Order("full_name ASC").
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userToEntity(&userModels[i]))
	}
	return users, nil
}

// ClearManagerRefs nulls the manager reference of the manager's subordinates
func (r *UserRepository) ClearManagerRefs(ctx context.Context, managerID uuid.UUID) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("manager_id = ?", managerID).
		Updates(map[string]interface{}{"manager_id": nil, "updated_at": time.Now()}).Error
}

// CountByRole counts users with the given role
func (r *UserRepository) CountByRole(ctx context.Context, role entities.UserRole) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", string(role)).
		Count(&count).Error
	return count, err
}

// Count counts all users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func userToEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:                m.ID,
		FullName:          m.FullName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              entities.UserRole(m.Role),
		IsManagerApprover: m.IsManagerApprover,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.ManagerID != nil {
		u.ManagerID = null.StringFrom(m.ManagerID.String())
	}
	return u
}

func managerIDPtr(id null.String) *uuid.UUID {
	if !id.Valid || id.String == "" {
		return nil
	}
	parsed, err := uuid.Parse(id.String)
	if err != nil {
		return nil
	}
	return &parsed
}
