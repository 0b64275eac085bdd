package models

// UserDashboard is what a signed-in client sees.
type UserDashboard struct {
	Profile     *Profile         `json:"profile"`
	Submissions []FormSubmission `json:"submissions"`
	Payments    []Payment        `json:"payments"`
	Purchases   []Purchase       `json:"purchases"`
}

// AdminStats summarises the review queue.
type AdminStats struct {
	TotalSubmissions   int64            `json:"total_submissions"`
	PendingSubmissions int64            `json:"pending_submissions"`
	ByStatus           map[string]int64 `json:"by_status"`
	TotalUsers         int64            `json:"total_users"`
	SucceededPayments  int64            `json:"succeeded_payments"`
	Revenue            float64          `json:"revenue"`
}
