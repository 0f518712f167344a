package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApprovalAction is a decision submitted by an approver
type ApprovalAction string

const (
	ApprovalActionApprove ApprovalAction = "Approve"
	ApprovalActionReject  ApprovalAction = "Reject"
)

// Valid reports whether the action is one of the accepted actions.
func (a ApprovalAction) Valid() bool {
	return a == ApprovalActionApprove || a == ApprovalActionReject
}

// ApprovalDecision is what gets recorded in the audit trail. Override
// decisions are distinguished so the log shows when step logic was bypassed.
type ApprovalDecision string

const (
	DecisionApprove         ApprovalDecision = "Approve"
	DecisionReject          ApprovalDecision = "Reject"
	DecisionOverrideApprove ApprovalDecision = "OverrideApprove"
	DecisionOverrideReject  ApprovalDecision = "OverrideReject"
)

// ApprovalTransaction is one append-only audit log entry. Entries are
// never updated or deleted; ApproverID is nulled if the approver's user
// record is removed.
type ApprovalTransaction struct {
	ID           uuid.UUID        `json:"id"`
	ExpenseID    uuid.UUID        `json:"expenseId"`
	ApproverID   null.String      `json:"approverId,omitempty"`
	StepSequence int              `json:"stepSequence"`
	Decision     ApprovalDecision `json:"decision"`
	Comments     string           `json:"comments"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ProcessApprovalInput represents input for an approval decision
type ProcessApprovalInput struct {
	ExpenseID  string `json:"expenseId" binding:"required,uuid"`
	Action     string `json:"action" binding:"required"`
	ApproverID string `json:"approverId" binding:"required,uuid"`
	Comments   string `json:"comments"`
}

// ProcessApprovalResult reports the post-transition state of the expense
type ProcessApprovalResult struct {
	ExpenseID uuid.UUID     `json:"expenseId"`
	NewStatus ExpenseStatus `json:"newStatus"`
	NewStep   int           `json:"newStep"`
}

// OverrideExpenseInput represents input for an administrative override
type OverrideExpenseInput struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments"`
}
