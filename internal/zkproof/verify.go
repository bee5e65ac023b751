package zkproof

import (
	"fmt"

	"attestor/internal/statement"
	"attestor/pkg/domain"
	dErrors "attestor/pkg/domain-errors"
)

// Verify checks a non-membership proof against the account's ledger
// commitment. It is deterministic: the same inputs always yield the same
// result, with no randomness and no I/O.
//
// Structural defects (wrong length, undecodable group encodings) are
// reported as proof_malformed; a structurally sound proof that fails the
// verification equation is verification_failed. An undecodable commitment is
// verification_failed too, since the proof bytes themselves may be fine.
func Verify(
	stmt statement.Normalized,
	challenge []byte,
	addr domain.AccountAddress,
	proof []byte,
	commitment []byte,
) error {
	c := g.NewElement()
	if err := c.UnmarshalBinary(commitment); err != nil {
		return dErrors.Wrap(err, dErrors.CodeVerificationFailed, "ledger commitment is not a valid group element")
	}

	if want := proofChunkSize * len(stmt.Set); len(proof) != want {
		return dErrors.New(dErrors.CodeProofMalformed,
			fmt.Sprintf("proof is %d bytes, want %d for a %d-element set", len(proof), want, len(stmt.Set)))
	}

	for i, v := range stmt.Set {
		chunk := proof[i*proofChunkSize : (i+1)*proofChunkSize]
		tBytes := chunk[:elementSize]
		z1Bytes := chunk[elementSize : elementSize+scalarSize]
		z2Bytes := chunk[elementSize+scalarSize:]

		t := g.NewElement()
		if err := t.UnmarshalBinary(tBytes); err != nil {
			return dErrors.Wrap(err, dErrors.CodeProofMalformed,
				fmt.Sprintf("proof element %d: invalid commitment encoding", i))
		}
		z1 := g.NewScalar()
		if err := z1.UnmarshalBinary(z1Bytes); err != nil {
			return dErrors.Wrap(err, dErrors.CodeProofMalformed,
				fmt.Sprintf("proof element %d: invalid response scalar", i))
		}
		z2 := g.NewScalar()
		if err := z2.UnmarshalBinary(z2Bytes); err != nil {
			return dErrors.Wrap(err, dErrors.CodeProofMalformed,
				fmt.Sprintf("proof element %d: invalid response scalar", i))
		}

		cp := sub(c, g.NewElement().MulGen(attributeScalar(stmt.Tag, v)))

		ch := challengeScalar(stmt, challenge, addr, commitment, i, tBytes)

		// Cp*z1 + H*z2 == T + G*ch
		lhs := g.NewElement().Mul(cp, z1)
		lhs.Add(lhs, g.NewElement().Mul(pedersenH, z2))
		rhs := g.NewElement().MulGen(ch)
		rhs.Add(rhs, t)

		if !lhs.IsEqual(rhs) {
			return dErrors.New(dErrors.CodeVerificationFailed,
				fmt.Sprintf("proof element %d does not verify", i))
		}
	}

	return nil
}
