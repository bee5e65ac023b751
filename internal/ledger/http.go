package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"attestor/pkg/domain"
	dErrors "attestor/pkg/domain-errors"
	"attestor/pkg/platform/circuit"
)

// HTTPClient implements Client against a ledger node's JSON API.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *circuit.Breaker
}

var _ Client = (*HTTPClient)(nil)

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithBreaker sets a custom circuit breaker.
func WithBreaker(b *circuit.Breaker) HTTPClientOption {
	return func(c *HTTPClient) {
		c.breaker = b
	}
}

// NewHTTPClient creates an HTTP-based ledger client. The timeout bounds each
// individual call; there is no retrying.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: circuit.New("ledger"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// credentialResponse is the node's wire format for a credential lookup.
type credentialResponse struct {
	AccountAddress string `json:"account_address"`
	CredentialID   string `json:"credential_id"`
	Kind           string `json:"kind"`
	Commitment     string `json:"commitment"`
	UpdatedAt      string `json:"updated_at"`
}

// FetchCredential fetches the account's active credential in a single attempt.
//
// When the circuit is open the call fails fast as ledger_unreachable without
// touching the node; Ping is what probes an open circuit back to health.
func (c *HTTPClient) FetchCredential(ctx context.Context, addr domain.AccountAddress) (*Credential, error) {
	if c.breaker.IsOpen() {
		return nil, dErrors.New(dErrors.CodeLedgerUnreachable, "ledger circuit open")
	}

	url := fmt.Sprintf("%s/v1/accounts/%s/credential", c.baseURL, addr.String())
	body, status, err := c.get(ctx, url)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}

	switch status {
	case http.StatusOK:
		// Continue below.
	case http.StatusNotFound:
		// The node answered; the account simply does not exist. That is a
		// healthy node, not a failing one.
		c.breaker.RecordSuccess()
		return nil, dErrors.New(dErrors.CodeAccountNotFound, "account not found on ledger")
	default:
		c.breaker.RecordFailure()
		return nil, dErrors.New(dErrors.CodeLedgerQueryFailed,
			fmt.Sprintf("ledger returned status %d", status))
	}

	var resp credentialResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.breaker.RecordFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeLedgerQueryFailed, "ledger response is not valid JSON")
	}

	cred, err := resp.toCredential()
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}

	c.breaker.RecordSuccess()
	return cred, nil
}

// Ping checks node liveness. Unlike FetchCredential it bypasses an open
// circuit, so readiness probes double as recovery probes.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, status, err := c.get(ctx, c.baseURL+"/v1/health")
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}
	if status != http.StatusOK {
		c.breaker.RecordFailure()
		return dErrors.New(dErrors.CodeLedgerQueryFailed,
			fmt.Sprintf("ledger health returned status %d", status))
	}
	c.breaker.RecordSuccess()
	return nil
}

// get performs one GET with the client's timeout applied on top of whatever
// deadline the caller already set.
func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeLedgerQueryFailed, "failed to create ledger request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, 0, dErrors.Wrap(err, dErrors.CodeLedgerUnreachable, "ledger request timed out")
		}
		return nil, 0, dErrors.Wrap(err, dErrors.CodeLedgerUnreachable, "failed to reach ledger")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeLedgerUnreachable, "failed to read ledger response")
	}
	return body, resp.StatusCode, nil
}

func (r credentialResponse) toCredential() (*Credential, error) {
	addr, err := domain.ParseAccountAddress(r.AccountAddress)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeLedgerQueryFailed, "ledger returned malformed account address")
	}

	if r.Kind != CredentialKindNormal {
		return nil, dErrors.New(dErrors.CodeLedgerQueryFailed,
			fmt.Sprintf("credential kind %q carries no identity commitment", r.Kind))
	}

	commitment, err := hex.DecodeString(r.Commitment)
	if err != nil || len(commitment) == 0 {
		return nil, dErrors.New(dErrors.CodeLedgerQueryFailed, "ledger returned malformed commitment")
	}

	updatedAt, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		updatedAt = time.Time{}
	}

	return &Credential{
		AccountAddress: addr,
		CredentialID:   r.CredentialID,
		Kind:           r.Kind,
		Commitment:     commitment,
		UpdatedAt:      updatedAt,
	}, nil
}
