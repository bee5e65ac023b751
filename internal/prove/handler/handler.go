// Package handler exposes the attestation pipeline over HTTP.
package handler

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"attestor/internal/prove"
	"attestor/internal/statement"
	"attestor/pkg/domain"
	dErrors "attestor/pkg/domain-errors"
	"attestor/pkg/platform/httputil"
	"attestor/pkg/requestcontext"
)

// Service runs the attestation pipeline for a parsed request.
type Service interface {
	Attest(ctx context.Context, req prove.Request) (*prove.Attestation, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/attestations", h.HandleCreateAttestation)
}

// StatementPayload is the wire form of a statement.
type StatementPayload struct {
	Type         string   `json:"type"`
	AttributeTag string   `json:"attribute_tag"`
	Set          []string `json:"set"`
}

// AttestationRequest is the wire form of an attestation request. Binary
// fields travel hex-encoded.
type AttestationRequest struct {
	AccountAddress string           `json:"account_address"`
	Statement      StatementPayload `json:"statement"`
	Challenge      string           `json:"challenge"`
	Proof          string           `json:"proof"`
}

// AttestationResponse is returned only for accepted requests.
type AttestationResponse struct {
	AccountAddress string   `json:"account_address"`
	AttributeTag   string   `json:"attribute_tag"`
	NotInSet       []string `json:"not_in_set"`
	Message        string   `json:"message"`
	Signature      string   `json:"signature"`
}

// HandleCreateAttestation implements POST /v1/attestations.
//
// Any rejection, whatever its cause, produces the same response body; the
// real reason is logged against the request ID and nowhere else.
func (h *Handler) HandleCreateAttestation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[AttestationRequest](w, r, h.logger)
	if !ok {
		return
	}

	parsed, err := req.toRequest()
	if err != nil {
		h.logger.WarnContext(ctx, "rejected attestation request",
			"reason", string(dErrors.CodeOf(err)),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	att, err := h.service.Attest(ctx, parsed)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected attestation request",
			"reason", string(dErrors.CodeOf(err)),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, AttestationResponse{
		AccountAddress: att.AccountAddress.String(),
		AttributeTag:   att.Statement.Tag.String(),
		NotInSet:       att.Statement.Set,
		Message:        hex.EncodeToString(att.Message),
		Signature:      hex.EncodeToString(att.Signature),
	})
}

// toRequest parses the hex-encoded wire fields. Statement content is not
// judged here; that is the pipeline's job.
func (r AttestationRequest) toRequest() (prove.Request, error) {
	addr, err := domain.ParseAccountAddress(r.AccountAddress)
	if err != nil {
		return prove.Request{}, err
	}

	challenge, err := hex.DecodeString(r.Challenge)
	if err != nil {
		return prove.Request{}, dErrors.New(dErrors.CodeBadRequest, "challenge is not valid hex")
	}

	proof, err := hex.DecodeString(r.Proof)
	if err != nil {
		return prove.Request{}, dErrors.New(dErrors.CodeBadRequest, "proof is not valid hex")
	}

	return prove.Request{
		AccountAddress: addr,
		Statement: statement.Statement{
			Predicate: statement.Predicate(r.Statement.Type),
			Tag:       r.Statement.AttributeTag,
			Set:       r.Statement.Set,
		},
		Challenge: challenge,
		Proof:     proof,
	}, nil
}
