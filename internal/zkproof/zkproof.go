// Package zkproof verifies non-membership proofs against Pedersen identity
// commitments.
//
// The ledger records, per account, a Pedersen commitment C = a*G + r*H to the
// account's hidden attribute value a (H is a second generator with unknown
// discrete log relative to G). A wallet holding (a, r) proves that a differs
// from every value v in a disclosed set without revealing a: for each v it
// exhibits knowledge of a representation of G in terms of (C - enc(v)*G, H),
// which exists exactly when a != v. Fiat-Shamir binds the caller's challenge,
// the account address, the commitment, the canonical statement, and the
// element index into each proof, so any mismatch fails verification instead
// of silently substituting defaults.
//
// The rest of the service treats proofs as opaque byte blobs; this package is
// the only place their structure is interpreted.
package zkproof

import (
	"crypto/rand"

	"github.com/cloudflare/circl/group"

	"attestor/internal/statement"
)

// g is the prime-order group all commitments and proofs live in.
var g = group.Ristretto255

// Domain-separation tags. Changing any of these invalidates every existing
// commitment and proof.
const (
	dstPedersenH  = "attestor/v1/pedersen-h"
	dstAttribute  = "attestor/v1/attribute"
	dstTranscript = "attestor/v1/transcript"
)

const (
	scalarSize  = 32
	elementSize = 32

	// proofChunkSize is the encoded size of one per-set-element proof:
	// a commitment element T and two response scalars.
	proofChunkSize = elementSize + 2*scalarSize
)

// pedersenH is the blinding generator, derived by hashing so that nobody
// knows its discrete log with respect to G.
var pedersenH = g.HashToElement([]byte("pedersen blinding generator"), []byte(dstPedersenH))

// attributeScalar maps an attribute (tag, value) pair to a scalar. Both the
// committed attribute and the disclosed-set entries use this encoding, so
// equality of values is equality of scalars.
func attributeScalar(tag statement.AttributeTag, value string) group.Scalar {
	data := make([]byte, 0, 1+len(value))
	data = append(data, byte(tag))
	data = append(data, value...)
	return g.HashToScalar(data, []byte(dstAttribute))
}

// NewBlinding returns a fresh random blinding factor for a commitment.
func NewBlinding() group.Scalar {
	return g.RandomNonZeroScalar(rand.Reader)
}

// Commit produces the Pedersen commitment a*G + r*H for an attribute value.
// The ledger stores this per account; wallets and tests construct it.
func Commit(tag statement.AttributeTag, value string, blinding group.Scalar) ([]byte, error) {
	c := g.NewElement().MulGen(attributeScalar(tag, value))
	hr := g.NewElement().Mul(pedersenH, blinding)
	c.Add(c, hr)
	return c.MarshalBinary()
}

// sub returns a - b without mutating either argument.
func sub(a, b group.Element) group.Element {
	out := g.NewElement().Neg(b)
	return out.Add(out, a)
}
