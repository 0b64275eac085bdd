package consultation

import "errors"

var (
	// ErrPostPaymentBookkeeping wraps any failure that happens after the
	// provider has already taken the money.
	ErrPostPaymentBookkeeping = errors.New("payment was successful but there was an error")

	ErrNotAwaitingPayment = errors.New("no payment is awaited for this session")
	ErrNoPendingPayment   = errors.New("no pending consultation payment")
	ErrMissingEmail       = errors.New("email is required")
	ErrMissingPaymentRef  = errors.New("payment reference is required")
	ErrMissingAccount     = errors.New("account id is required")
)

// BookkeepingMessage is the only text shown to a visitor when
// ErrPostPaymentBookkeeping occurs.
const BookkeepingMessage = "Payment was successful but there was an error. Please contact us."
