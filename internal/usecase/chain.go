package usecase

import (
	"context"
	"errors"
)

// Chain interaction failure categories. Unreachable is retryable,
// rejection needs corrected input, timeout is ambiguous and must be
// reconciled against ledger state before a retry.
var (
	ErrChainUnreachable = errors.New("ledger unreachable")
	ErrChainRejected    = errors.New("rejected by ledger")
	ErrChainTimeout     = errors.New("ledger confirmation timed out")
)

// ChainSubmission is the tuple anchored on the ledger. Retries must
// resubmit the identical tuple.
type ChainSubmission struct {
	ContentHash string
	Title       string
	Description string
	// Signer is the principal the gateway attributes the registration to.
	Signer string
}

// ChainPendingRef identifies an in-flight ledger transaction. Mock refs
// are synthesized locally in degraded mode and carry no proof.
type ChainPendingRef struct {
	TxRef string
	Mock  bool
}

type ChainOutcome struct {
	Confirmed bool
	BlockRef  int64
	Reason    string
	Receipt   []byte
}

// ChainAsset is the ledger's own view of a registered hash, used for
// out-of-band reconciliation after an ambiguous timeout.
type ChainAsset struct {
	Owner       string
	ContentHash string
	Timestamp   int64
	Title       string
	Description string
	BlockRef    int64
}

// ChainProvider is the narrow surface of the remote ledger gateway.
type ChainProvider interface {
	// SubmitRegistration submits fire-and-forget; tracking the outcome
	// is AwaitOutcome's job. In degraded mode it returns a mock ref.
	SubmitRegistration(context.Context, ChainSubmission) (ChainPendingRef, error)

	// AwaitOutcome blocks until the transaction resolves or ctx's
	// deadline expires (ErrChainTimeout).
	AwaitOutcome(context.Context, ChainPendingRef) (ChainOutcome, error)

	// GetAssetByHash reads the ledger's record for a hash, ErrNotFound
	// when the hash was never anchored.
	GetAssetByHash(ctx context.Context, contentHash string) (ChainAsset, error)

	// Degraded reports whether the provider is running without a
	// reachable ledger.
	Degraded() bool
}
