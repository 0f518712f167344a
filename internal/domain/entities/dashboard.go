package entities

// ManagerDashboard aggregates a manager's team expenses.
// TotalSpentYTD sums converted amounts across the full team set.
type ManagerDashboard struct {
	TotalSpentYTD    float64        `json:"totalSpentYTD"`
	PendingApprovals []*TeamExpense `json:"pendingApprovals"`
	AllTeamExpenses  []*TeamExpense `json:"allTeamExpenses"`
}

// AdminDashboard aggregates company-wide stats plus the pending queue
// at every step, which is where second-tier approvals surface.
type AdminDashboard struct {
	CompanyName         string         `json:"companyName"`
	DefaultCurrencyCode string         `json:"defaultCurrencyCode"`
	TotalUsers          int64          `json:"totalUsers"`
	TotalManagers       int64          `json:"totalManagers"`
	TotalEmployees      int64          `json:"totalEmployees"`
	PendingApprovals    []*TeamExpense `json:"pendingApprovals"`
}
