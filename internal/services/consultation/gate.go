package consultation

import "counsel/internal/models"

const (
	SignupPath   = "/signup"
	SignupReason = "Please create your account to access additional forms"
)

// AccessDecision is the answer of the form access gate.
type AccessDecision struct {
	CanAccess  bool   `json:"canAccess"`
	Reason     string `json:"reason,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// CanAccessForms lets signed-in users through, stops anonymous visitors
// who already paid once, and lets first-time visitors submit one form.
func CanAccessForms(user *models.UserClaims, state models.PendingAccountState) AccessDecision {
	if user != nil {
		return AccessDecision{CanAccess: true}
	}
	if state.IsPending() {
		return AccessDecision{CanAccess: false, Reason: SignupReason, RedirectTo: SignupPath}
	}
	return AccessDecision{CanAccess: true}
}
