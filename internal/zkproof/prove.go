package zkproof

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/group"

	"attestor/internal/statement"
	"attestor/pkg/domain"
)

// ErrValueInSet is returned when the committed attribute value is a member of
// the disclosed set. No valid non-membership proof exists in that case; the
// prover refuses rather than emitting bytes that cannot verify.
var ErrValueInSet = errors.New("attribute value is in the disclosed set")

// Prove constructs a non-membership proof for the account whose ledger
// commitment was built from (value, blinding).
//
// This is the wallet side of the protocol. The service itself never proves;
// it lives here so the scheme has one home and the end-to-end tests can
// construct genuine proofs.
func Prove(
	stmt statement.Normalized,
	challenge []byte,
	addr domain.AccountAddress,
	value string,
	blinding group.Scalar,
) ([]byte, error) {
	a := attributeScalar(stmt.Tag, value)

	commitment := g.NewElement().MulGen(a)
	commitment.Add(commitment, g.NewElement().Mul(pedersenH, blinding))
	commitmentBytes, err := commitment.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal commitment: %w", err)
	}

	zero := g.NewScalar()
	out := make([]byte, 0, proofChunkSize*len(stmt.Set))

	for i, v := range stmt.Set {
		s := attributeScalar(stmt.Tag, v)

		// m = a - enc(v); zero exactly when the statement is false.
		m := g.NewScalar().Sub(a, s)
		if m.IsEqual(zero) {
			return nil, ErrValueInSet
		}

		// Witness for the representation G = sigma*(C - enc(v)*G) + tau*H:
		// sigma = 1/m, tau = -r/m.
		sigma := g.NewScalar().Inv(m)
		tau := g.NewScalar().Mul(blinding, sigma)
		tau = g.NewScalar().Sub(zero, tau)

		cp := sub(commitment, g.NewElement().MulGen(s))

		alpha := g.RandomScalar(rand.Reader)
		beta := g.RandomScalar(rand.Reader)
		t := g.NewElement().Mul(cp, alpha)
		t.Add(t, g.NewElement().Mul(pedersenH, beta))
		tBytes, err := t.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal proof element %d: %w", i, err)
		}

		c := challengeScalar(stmt, challenge, addr, commitmentBytes, i, tBytes)

		z1 := g.NewScalar().Mul(c, sigma)
		z1.Add(z1, alpha)
		z2 := g.NewScalar().Mul(c, tau)
		z2.Add(z2, beta)

		z1Bytes, err := z1.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal response scalar: %w", err)
		}
		z2Bytes, err := z2.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal response scalar: %w", err)
		}

		out = append(out, tBytes...)
		out = append(out, z1Bytes...)
		out = append(out, z2Bytes...)
	}

	return out, nil
}
