// Package statement models predicates over hidden identity attributes and
// validates them before any cryptographic work is attempted.
//
// One predicate shape is supported: non-membership of a single attribute
// against a finite disclosed set ("my country of residence is none of these").
package statement

import (
	"fmt"
)

// Predicate names the kind of claim a statement makes.
type Predicate string

// PredicateNonMembership asserts that the hidden attribute value equals none
// of the values in the disclosed set.
const PredicateNonMembership Predicate = "nonMembership"

// AttributeTag identifies which identity attribute a statement is about.
// Tag numbers follow the ledger's credential attribute layout.
type AttributeTag uint8

const (
	// TagCountryOfResidence is the account holder's country of residence.
	TagCountryOfResidence AttributeTag = 4
	// TagNationality is the account holder's nationality.
	TagNationality AttributeTag = 5
)

// attributeTagNames maps wire names to tags. Both tags hold ISO 3166-1
// alpha-2 country codes.
var attributeTagNames = map[string]AttributeTag{
	"countryOfResidence": TagCountryOfResidence,
	"nationality":        TagNationality,
}

// ParseAttributeTag resolves a wire-format attribute name.
func ParseAttributeTag(name string) (AttributeTag, error) {
	tag, ok := attributeTagNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown attribute tag %q", name)
	}
	return tag, nil
}

// String returns the wire name of the tag.
func (t AttributeTag) String() string {
	for name, tag := range attributeTagNames {
		if tag == t {
			return name
		}
	}
	return fmt.Sprintf("attribute(%d)", uint8(t))
}

// Statement is a predicate over one identity attribute, as received from the
// caller before validation.
type Statement struct {
	Predicate Predicate
	Tag       string
	Set       []string
}

// Normalized is a validated statement with canonical attribute values.
// Downstream comparison is exact-match on the canonical form.
type Normalized struct {
	Tag AttributeTag
	Set []string
}

// ValueLength is the fixed byte width of a canonical attribute value
// (ISO 3166-1 alpha-2 country code).
const ValueLength = 2

// MaxSetSize bounds the disclosed set so the canonical encoding's set-length
// byte cannot overflow.
const MaxSetSize = 255

// Canonical returns the statement's canonical byte encoding:
// tag byte, set-length byte, then each value as fixed-width bytes.
// The same logical statement always produces identical bytes; both the proof
// transcript and the attestation message bind it.
func (n Normalized) Canonical() []byte {
	out := make([]byte, 0, 2+len(n.Set)*ValueLength)
	out = append(out, byte(n.Tag), byte(len(n.Set)))
	for _, v := range n.Set {
		out = append(out, v...)
	}
	return out
}
