package entities

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseStatus represents the lifecycle status of an expense claim
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "Pending"
	ExpenseStatusApproved ExpenseStatus = "Approved"
	ExpenseStatusRejected ExpenseStatus = "Rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s ExpenseStatus) Terminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// InitialApprovalStep is the step a freshly submitted expense starts at.
const InitialApprovalStep = 1

// Expense represents a single expense claim. ConvertedAmount is kept
// normalized to the company default currency and is rewritten in place
// when the default currency changes; it is not a historical record.
type Expense struct {
	ID                  uuid.UUID     `json:"id"`
	UserID              uuid.UUID     `json:"userId"`
	SubmittedAmount     float64       `json:"submittedAmount"`
	SubmittedCurrency   string        `json:"submittedCurrency"`
	ConvertedAmount     float64       `json:"convertedAmount"`
	ConvertedCurrency   string        `json:"convertedCurrency"`
	Category            string        `json:"category"`
	Description         string        `json:"description"`
	ExpenseDate         time.Time     `json:"expenseDate"`
	Status              ExpenseStatus `json:"status"`
	CurrentApprovalStep int           `json:"currentApprovalStep"`
	ReceiptScanned      bool          `json:"receiptScanned"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// TeamExpense is an expense joined with its owner's name for dashboards.
type TeamExpense struct {
	Expense
	UserName string `json:"userName"`
}

// CreateExpenseInput represents input for submitting an expense claim
type CreateExpenseInput struct {
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Currency       string  `json:"currency" binding:"required,len=3,uppercase"`
	Category       string  `json:"category" binding:"required"`
	Description    string  `json:"description"`
	Date           string  `json:"date" binding:"required"` // YYYY-MM-DD
	ReceiptScanned bool    `json:"receiptScanned"`
}

// ConversionResult carries a converted amount plus a warning flag.
// Converted is false when the rate provider was unavailable and the
// amount passed through unchanged.
type ConversionResult struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Converted bool    `json:"converted"`
}
