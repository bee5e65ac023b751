package zkproof

import (
	"encoding/binary"
	"hash"

	"github.com/cloudflare/circl/group"
	"golang.org/x/crypto/sha3"

	"attestor/internal/statement"
	"attestor/pkg/domain"
)

// challengeScalar derives the Fiat-Shamir challenge for one set element.
//
// The transcript covers everything the proof must be bound to: the caller's
// challenge bytes, the account address, the ledger commitment, the canonical
// statement, the element index, and the prover's per-element commitment T.
// A proof generated for any other combination of these inputs yields a
// different scalar and fails the verification equation.
func challengeScalar(
	stmt statement.Normalized,
	challenge []byte,
	addr domain.AccountAddress,
	commitment []byte,
	index int,
	t []byte,
) group.Scalar {
	h := sha3.New256()
	h.Write([]byte(dstTranscript))
	writeChunk(h, challenge)
	writeChunk(h, addr.Bytes())
	writeChunk(h, commitment)
	writeChunk(h, stmt.Canonical())
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], uint32(index))
	h.Write(idx[:])
	writeChunk(h, t)
	return g.HashToScalar(h.Sum(nil), []byte(dstTranscript))
}

// writeChunk writes a length-prefixed field so adjacent variable-length
// fields cannot be confused for one another.
func writeChunk(h hash.Hash, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	h.Write(n[:])
	h.Write(data)
}
