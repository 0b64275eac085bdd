// Package consultation implements the pay-first consultation flow.
//
// An anonymous visitor may submit one intake form and pay the consultation
// fee before creating an account. The payment and submissions are stored
// with a null user_id and the visitor keeps a PendingAccountState. The
// access gate then asks the visitor to sign up before the next form, and
// the linker re-owns the orphaned rows once the account exists.
//
// Every re-own step is a set-based update guarded by user_id IS NULL, so
// linking can be interrupted and re-run without compensation.
package consultation
