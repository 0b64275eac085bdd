package consultation

// State is the visitor's position in the pay-first flow.
type State int

const (
	StateNoPayment State = iota
	StateAwaitingPayment
	StatePaidPending
	StateLinked
)

func (s State) String() string {
	switch s {
	case StateNoPayment:
		return "no_payment"
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StatePaidPending:
		return "paid_pending"
	case StateLinked:
		return "linked"
	default:
		return "unknown"
	}
}

// Session is one visitor's flow state. Only StatePaidPending outlives a
// request, through the PendingStore.
type Session struct {
	VisitorID string
	Email     string
	PaymentID string
	State     State
}
