package models

// PendingAccountState marks a visitor who paid before creating an account.
// It is stored per visitor and never mirrored into the relational store.
type PendingAccountState struct {
	Email     string `json:"email"`
	PaymentID string `json:"payment_id"`
	Pending   bool   `json:"pending"`
}

// IsPending reports whether the visitor still owes an account creation.
func (s PendingAccountState) IsPending() bool {
	return s.Pending && s.Email != ""
}
