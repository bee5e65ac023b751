package attestation

import (
	"crypto/ed25519"

	"attestor/internal/statement"
	"attestor/pkg/domain"
)

// Signer produces attestations over verification outcomes with a single
// process-wide ed25519 key.
type Signer struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// NewSigner wraps a loaded key pair.
func NewSigner(private ed25519.PrivateKey, public ed25519.PublicKey) *Signer {
	return &Signer{private: private, public: public}
}

// PublicKey returns the verifying key relying parties check attestations with.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.public
}

// Message builds the canonical byte string an attestation signs: the account
// address followed by the canonical statement encoding. Relying parties
// reconstruct exactly these bytes to check a signature, so the layout is a
// wire contract.
func Message(addr domain.AccountAddress, stmt statement.Normalized) []byte {
	canonical := stmt.Canonical()
	msg := make([]byte, 0, len(addr.Bytes())+len(canonical))
	msg = append(msg, addr.Bytes()...)
	msg = append(msg, canonical...)
	return msg
}

// Sign attests that the statement holds for the account. It returns the
// signed message alongside the signature so callers can hand both to the
// relying party.
func (s *Signer) Sign(addr domain.AccountAddress, stmt statement.Normalized) (message, signature []byte) {
	message = Message(addr, stmt)
	signature = ed25519.Sign(s.private, message)
	return message, signature
}
