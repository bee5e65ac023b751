// Package ledger fetches identity credentials from a ledger node.
package ledger

import (
	"context"
	"time"

	"attestor/pkg/domain"
)

// CredentialKindNormal is the only credential kind that carries the identity
// commitment attestations are verified against. Initial credentials are
// deployment artifacts and never hold one.
const CredentialKindNormal = "normal"

// Credential is an account's on-ledger identity credential.
type Credential struct {
	AccountAddress domain.AccountAddress
	CredentialID   string
	Kind           string
	// Commitment is the Pedersen commitment to the account's hidden
	// attribute, as stored on the ledger. Opaque at this layer.
	Commitment []byte
	UpdatedAt  time.Time
}

// Client retrieves credentials from a ledger node. Implementations make at
// most one attempt per call; retries are the caller's decision, not the
// client's.
type Client interface {
	// FetchCredential returns the account's active credential, or a coded
	// error: account_not_found when the node answers but knows no such
	// account, ledger_unreachable when no answer arrives, and
	// ledger_query_failed when the answer is unusable.
	FetchCredential(ctx context.Context, addr domain.AccountAddress) (*Credential, error)

	// Ping checks that the node answers at all. Used at startup and by the
	// readiness probe.
	Ping(ctx context.Context) error
}
