package fault

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies a failure so callers can render a specific message
// and decide whether the operation is retryable.
type Kind string

const (
	// WalletUnavailable means no wallet provider is present. Fatal for any
	// operation; the user must install or enable a wallet.
	WalletUnavailable Kind = "wallet_unavailable"

	// UserRejected means the user declined a provider prompt. Recoverable.
	UserRejected Kind = "user_rejected"

	// UnsupportedChainAdd means the provider could not add the target
	// network. Fatal for that attempt.
	UnsupportedChainAdd Kind = "unsupported_chain_add"

	// NetworkMismatch means the active chain differs from the target at
	// write time. Recoverable by re-running the network check.
	NetworkMismatch Kind = "network_mismatch"

	// NoAccounts means the provider exposes no accounts. Fatal for connect.
	NoAccounts Kind = "no_accounts"

	// Validation means a malformed recipient, message, or amount was caught
	// locally. No RPC was issued.
	Validation Kind = "validation"

	// SubmissionFailed means the provider refused or failed a transaction
	// submission for a reason other than user rejection (for example
	// insufficient funds). Recoverable; the user may resubmit.
	SubmissionFailed Kind = "submission_failed"

	// Reverted means the transaction was included but failed on-chain.
	// Recoverable; the user may adjust and resubmit.
	Reverted Kind = "reverted"

	// OperationInProgress means a concurrent write was attempted while one
	// is already pending. Retry after the current one completes.
	OperationInProgress Kind = "operation_in_progress"

	// ProfileUnavailable means a required profile read failed.
	ProfileUnavailable Kind = "profile_unavailable"

	// AwaitTimedOut means the confirmation wait was abandoned locally. The
	// transaction itself may still confirm; this is informational.
	AwaitTimedOut Kind = "await_timed_out"
)

// Fault is a classified failure with a human-readable detail. Provider and
// network failures are mapped into a Fault at each suspension point rather
// than surfaced as raw provider error objects.
type Fault struct {
	Kind   Kind
	Detail string
	Err    error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Fault) Unwrap() error { return f.Err }

// New creates a Fault with no underlying cause.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. The cause is preserved for
// errors.Is/As chains and %+v stack rendering.
func Wrap(err error, kind Kind, format string, args ...any) *Fault {
	return &Fault{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
		Err:    errors.WithStack(err),
	}
}

// KindOf extracts the Kind from an error chain. The second return is false
// if the error carries no Fault.
func KindOf(err error) (Kind, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// Is reports whether the error chain carries a Fault of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
