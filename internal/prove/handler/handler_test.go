package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attestor/internal/prove"
	"attestor/internal/statement"
	"attestor/pkg/domain"
	dErrors "attestor/pkg/domain-errors"
)

// stubService lets each test script the pipeline outcome.
type stubService struct {
	attestFunc func(ctx context.Context, req prove.Request) (*prove.Attestation, error)
	calls      int
}

func (s *stubService) Attest(ctx context.Context, req prove.Request) (*prove.Attestation, error) {
	s.calls++
	if s.attestFunc == nil {
		return nil, errors.New("unexpected Attest call")
	}
	return s.attestFunc(ctx, req)
}

func newTestRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func testAddrHex(t *testing.T) string {
	t.Helper()
	var raw [32]byte
	_, err := rand.Read(raw[:])
	require.NoError(t, err)
	return hex.EncodeToString(raw[:])
}

func validBody(addrHex string) string {
	return `{
		"account_address": "` + addrHex + `",
		"statement": {"type": "nonMembership", "attribute_tag": "countryOfResidence", "set": ["DK", "IT"]},
		"challenge": "aabbccdd",
		"proof": "` + strings.Repeat("00", 96) + `"
	}`
}

func postAttestation(r chi.Router, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/attestations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAttestationSuccess(t *testing.T) {
	addrHex := testAddrHex(t)
	norm := statement.Normalized{Tag: statement.TagCountryOfResidence, Set: []string{"DK", "IT"}}

	svc := &stubService{
		attestFunc: func(ctx context.Context, req prove.Request) (*prove.Attestation, error) {
			assert.Equal(t, addrHex, req.AccountAddress.String())
			assert.Equal(t, statement.PredicateNonMembership, req.Statement.Predicate)
			assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0xdd}, req.Challenge)
			assert.Len(t, req.Proof, 96)
			return &prove.Attestation{
				AccountAddress: req.AccountAddress,
				Statement:      norm,
				Message:        []byte{1, 2, 3},
				Signature:      []byte{4, 5, 6},
			}, nil
		},
	}

	rec := postAttestation(newTestRouter(svc), validBody(addrHex))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AttestationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, addrHex, resp.AccountAddress)
	assert.Equal(t, "countryOfResidence", resp.AttributeTag)
	assert.Equal(t, []string{"DK", "IT"}, resp.NotInSet)
	assert.Equal(t, "010203", resp.Message)
	assert.Equal(t, "040506", resp.Signature)
}

func TestCreateAttestationRejectsMalformedWire(t *testing.T) {
	addrHex := testAddrHex(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "short address", body: strings.Replace(validBody(addrHex), addrHex, "abcd", 1)},
		{name: "address not hex", body: strings.Replace(validBody(addrHex), addrHex, strings.Repeat("zz", 32), 1)},
		{name: "challenge not hex", body: strings.Replace(validBody(addrHex), `"challenge": "aabbccdd"`, `"challenge": "xyz"`, 1)},
		{name: "proof not hex", body: strings.Replace(validBody(addrHex), strings.Repeat("00", 96), "not-hex", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := postAttestation(newTestRouter(svc), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"invalid_request"}`, rec.Body.String())
			assert.Zero(t, svc.calls, "pipeline must not run for malformed wire input")
		})
	}
}

func TestCreateAttestationCollapsesRejectionCauses(t *testing.T) {
	codes := []dErrors.Code{
		dErrors.CodeMalformedStatement,
		dErrors.CodeUnsupportedStatement,
		dErrors.CodeProofMalformed,
		dErrors.CodeVerificationFailed,
		dErrors.CodeAccountNotFound,
		dErrors.CodeLedgerUnreachable,
		dErrors.CodeLedgerQueryFailed,
	}

	addrHex := testAddrHex(t)
	var bodies []string
	for _, code := range codes {
		svc := &stubService{
			attestFunc: func(ctx context.Context, req prove.Request) (*prove.Attestation, error) {
				return nil, dErrors.New(code, "internal detail that must not leak")
			},
		}
		rec := postAttestation(newTestRouter(svc), validBody(addrHex))
		require.Equal(t, http.StatusBadRequest, rec.Code, "code %s", code)
		bodies = append(bodies, rec.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "all rejection causes must be indistinguishable")
	}
	assert.JSONEq(t, `{"error":"invalid_request"}`, bodies[0])
	assert.NotContains(t, bodies[0], "must not leak")
}

func TestCreateAttestationInternalError(t *testing.T) {
	svc := &stubService{
		attestFunc: func(ctx context.Context, req prove.Request) (*prove.Attestation, error) {
			return nil, errors.New("boom")
		},
	}

	rec := postAttestation(newTestRouter(svc), validBody(testAddrHex(t)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, rec.Body.String())
}

func TestWireParsingPreservesProofBytes(t *testing.T) {
	proof := make([]byte, 192)
	_, err := rand.Read(proof)
	require.NoError(t, err)

	wire := AttestationRequest{
		AccountAddress: testAddrHex(t),
		Statement:      StatementPayload{Type: "nonMembership", AttributeTag: "nationality", Set: []string{"SE"}},
		Challenge:      "00ff",
		Proof:          hex.EncodeToString(proof),
	}

	parsed, err := wire.toRequest()
	require.NoError(t, err)
	assert.Equal(t, proof, parsed.Proof)
	assert.Equal(t, "nationality", parsed.Statement.Tag)

	addr, err := domain.ParseAccountAddress(wire.AccountAddress)
	require.NoError(t, err)
	assert.Equal(t, addr, parsed.AccountAddress)
}
