// Package prove implements the attestation pipeline: validate the statement,
// fetch the account's credential from the ledger, verify the proof, and sign
// the outcome.
package prove

import (
	"context"
	"log/slog"
	"time"

	"attestor/internal/attestation"
	"attestor/internal/ledger"
	"attestor/internal/prove/metrics"
	"attestor/internal/prove/tracer"
	"attestor/internal/statement"
	"attestor/internal/zkproof"
	"attestor/pkg/domain"
	dErrors "attestor/pkg/domain-errors"
)

// LedgerClient is the slice of the ledger API the pipeline needs.
type LedgerClient interface {
	FetchCredential(ctx context.Context, addr domain.AccountAddress) (*ledger.Credential, error)
}

// Request is a parsed attestation request. The transport layer decodes wire
// bytes into this; everything here is already structurally plausible.
type Request struct {
	AccountAddress domain.AccountAddress
	Statement      statement.Statement
	Challenge      []byte
	Proof          []byte
}

// Attestation is a signed verification outcome.
type Attestation struct {
	AccountAddress domain.AccountAddress
	Statement      statement.Normalized
	Message        []byte
	Signature      []byte
}

// Service runs the attestation pipeline.
type Service struct {
	ledger  LedgerClient
	signer  *attestation.Signer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the Prometheus metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the distributed tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates the attestation service.
func New(ledgerClient LedgerClient, signer *attestation.Signer, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		ledger: ledgerClient,
		signer: signer,
		logger: logger,
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attest runs the full pipeline for one request.
//
// Stages run strictly in order and the first failure wins: the ledger is
// never consulted for a statement that does not validate, and nothing is
// signed unless the proof verifies against the ledger's commitment. Every
// rejection carries an internal reason code; the transport layer collapses
// them all into one indistinguishable response.
func (s *Service) Attest(ctx context.Context, req Request) (*Attestation, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAttest,
		tracer.String(tracer.AttrAccountAddress, req.AccountAddress.String()),
	)
	s.metrics.RecordRequest()

	att, err := s.attest(ctx, req)
	if err != nil {
		reason := string(dErrors.CodeOf(err))
		s.metrics.RecordRejected(reason)
		span.SetAttributes(tracer.String(tracer.AttrRejectReason, reason))
		s.logger.InfoContext(ctx, "attestation rejected",
			"account_address", req.AccountAddress.String(),
			"reason", reason,
		)
		span.End(err)
		return nil, err
	}

	s.metrics.RecordAccepted()
	s.logger.InfoContext(ctx, "attestation issued",
		"account_address", req.AccountAddress.String(),
		"attribute_tag", att.Statement.Tag.String(),
		"set_size", len(att.Statement.Set),
	)
	span.End(nil)
	return att, nil
}

func (s *Service) attest(ctx context.Context, req Request) (*Attestation, error) {
	norm, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	cred, err := s.fetchCredential(ctx, req.AccountAddress)
	if err != nil {
		return nil, err
	}

	if err := s.verify(ctx, norm, req, cred.Commitment); err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, tracer.SpanSign)
	message, signature := s.signer.Sign(req.AccountAddress, norm)
	span.End(nil)

	return &Attestation{
		AccountAddress: req.AccountAddress,
		Statement:      norm,
		Message:        message,
		Signature:      signature,
	}, nil
}

func (s *Service) validate(ctx context.Context, req Request) (statement.Normalized, error) {
	_, span := s.tracer.Start(ctx, tracer.SpanValidate)
	start := time.Now()
	defer func() { s.metrics.ObserveStage("validate", time.Since(start).Seconds()) }()

	if len(req.Challenge) == 0 {
		err := dErrors.New(dErrors.CodeBadRequest, "challenge is required")
		span.End(err)
		return statement.Normalized{}, err
	}

	norm, err := statement.Validate(req.Statement)
	if err != nil {
		span.End(err)
		return statement.Normalized{}, err
	}

	span.SetAttributes(
		tracer.String(tracer.AttrAttributeTag, norm.Tag.String()),
		tracer.Int64(tracer.AttrSetSize, int64(len(norm.Set))),
	)
	span.End(nil)
	return norm, nil
}

func (s *Service) fetchCredential(ctx context.Context, addr domain.AccountAddress) (*ledger.Credential, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFetch)
	start := time.Now()
	defer func() { s.metrics.ObserveStage("fetch_credential", time.Since(start).Seconds()) }()

	cred, err := s.ledger.FetchCredential(ctx, addr)
	if err != nil {
		span.End(err)
		return nil, err
	}
	span.End(nil)
	return cred, nil
}

func (s *Service) verify(ctx context.Context, norm statement.Normalized, req Request, commitment []byte) error {
	_, span := s.tracer.Start(ctx, tracer.SpanVerify)
	start := time.Now()
	defer func() { s.metrics.ObserveStage("verify", time.Since(start).Seconds()) }()

	err := zkproof.Verify(norm, req.Challenge, req.AccountAddress, req.Proof, commitment)
	span.End(err)
	return err
}
