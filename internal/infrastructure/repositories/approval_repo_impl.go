package repositories

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
	"expenseflow.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// ApprovalTransactionRepository implements the append-only approval
// audit log.
type ApprovalTransactionRepository struct {
	db *gorm.DB
}

// NewApprovalTransactionRepository creates a new approval transaction repository
func NewApprovalTransactionRepository(db *gorm.DB) *ApprovalTransactionRepository {
	return &ApprovalTransactionRepository{db: db}
}

// Append inserts a new audit log entry
func (r *ApprovalTransactionRepository) Append(ctx context.Context, txn *entities.ApprovalTransaction) error {
	m := &models.ApprovalTransaction{
		ID:           txn.ID,
		ExpenseID:    txn.ExpenseID,
		ApproverID:   approverIDPtr(txn.ApproverID),
		StepSequence: txn.StepSequence,
		Decision:     string(txn.Decision),
		Comments:     txn.Comments,
		CreatedAt:    txn.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// ListByExpense lists the expense's audit trail, oldest first
func (r *ApprovalTransactionRepository) ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]*entities.ApprovalTransaction, error) {
	var txnModels []models.ApprovalTransaction
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Find(&txnModels).Error
	if err != nil {
		return nil, err
	}

	txns := make([]*entities.ApprovalTransaction, 0, len(txnModels))
	for i := range txnModels {
		txns = append(txns, approvalTxnToEntity(&txnModels[i]))
	}
	return txns, nil
}

// ClearApproverRefs nulls the approver reference on all entries by the
// given approver. Entries themselves are preserved.
func (r *ApprovalTransactionRepository) ClearApproverRefs(ctx context.Context, approverID uuid.UUID) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ApprovalTransaction{}).
		Where("approver_id = ?", approverID).
		Update("approver_id", nil).Error
}

func approvalTxnToEntity(m *models.ApprovalTransaction) *entities.ApprovalTransaction {
	txn := &entities.ApprovalTransaction{
		ID:           m.ID,
		ExpenseID:    m.ExpenseID,
		StepSequence: m.StepSequence,
		Decision:     entities.ApprovalDecision(m.Decision),
		Comments:     m.Comments,
		CreatedAt:    m.CreatedAt,
	}
	if m.ApproverID != nil {
		txn.ApproverID = null.StringFrom(m.ApproverID.String())
	}
	return txn
}

func approverIDPtr(id null.String) *uuid.UUID {
	if !id.Valid || id.String == "" {
		return nil
	}
	parsed, err := uuid.Parse(id.String)
	if err != nil {
		return nil
	}
	return &parsed
}
