package repositories

import (
	"context"

	"expenseflow.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// ApprovalTransactionRepository defines operations on the append-only
// approval audit log. Entries are inserted, never updated or deleted;
// the only permitted mutation is nulling approver references when the
// approver's user record is removed.
type ApprovalTransactionRepository interface {
	Append(ctx context.Context, txn *entities.ApprovalTransaction) error
	ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]*entities.ApprovalTransaction, error)
	ClearApproverRefs(ctx context.Context, approverID uuid.UUID) error
}
