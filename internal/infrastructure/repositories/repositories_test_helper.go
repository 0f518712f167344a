package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		manager_id TEXT,
		is_manager_approver BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCompanyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		default_currency_code TEXT NOT NULL DEFAULT 'USD',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createExpenseTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		submitted_amount REAL NOT NULL,
		submitted_currency TEXT NOT NULL,
		converted_amount REAL NOT NULL,
		converted_currency TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		expense_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		current_approval_step INTEGER NOT NULL DEFAULT 1,
		receipt_scanned BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createApprovalTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE approval_transactions (
		id TEXT PRIMARY KEY,
		expense_id TEXT NOT NULL,
		approver_id TEXT,
		step_sequence INTEGER NOT NULL,
		decision TEXT NOT NULL,
		comments TEXT,
		created_at DATETIME
	);`)
}
