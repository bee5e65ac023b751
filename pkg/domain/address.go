// Package domain provides type-safe ledger primitives to prevent mixing up
// raw byte slices at compile time.
package domain

import (
	"encoding/hex"

	dErrors "attestor/pkg/domain-errors"
)

// AddressLength is the size of a ledger account address in bytes.
const AddressLength = 32

// AccountAddress identifies an account on the ledger.
type AccountAddress [AddressLength]byte

// ParseAccountAddress parses a hex-encoded account address.
// Use at trust boundaries (handlers, API inputs).
func ParseAccountAddress(s string) (AccountAddress, error) {
	var addr AccountAddress
	if len(s) != AddressLength*2 {
		return addr, dErrors.New(dErrors.CodeBadRequest, "account address must be 32 hex-encoded bytes")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return addr, dErrors.New(dErrors.CodeBadRequest, "account address is not valid hex")
	}
	copy(addr[:], raw)
	return addr, nil
}

// String returns the canonical hex encoding, for logging and wire use.
func (a AccountAddress) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns the raw address bytes.
func (a AccountAddress) Bytes() []byte {
	return a[:]
}

// IsZero reports whether the address is the all-zero value.
func (a AccountAddress) IsZero() bool {
	return a == AccountAddress{}
}
