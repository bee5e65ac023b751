package statement

import (
	"fmt"
	"strings"

	dErrors "attestor/pkg/domain-errors"
)

// Validate checks that a statement is of the supported shape and well-formed,
// and normalizes attribute values so downstream comparison is exact-match.
//
// Pure function of its input: no side effects, no I/O.
func Validate(s Statement) (Normalized, error) {
	if s.Predicate != PredicateNonMembership {
		return Normalized{}, dErrors.New(dErrors.CodeUnsupportedStatement,
			fmt.Sprintf("unsupported predicate %q: only non-membership statements are accepted", s.Predicate))
	}

	tag, err := ParseAttributeTag(s.Tag)
	if err != nil {
		return Normalized{}, dErrors.Wrap(err, dErrors.CodeUnsupportedStatement, "unsupported attribute tag")
	}

	if len(s.Set) == 0 {
		return Normalized{}, dErrors.New(dErrors.CodeMalformedStatement, "disclosed set is empty")
	}
	if len(s.Set) > MaxSetSize {
		return Normalized{}, dErrors.New(dErrors.CodeMalformedStatement,
			fmt.Sprintf("disclosed set exceeds %d entries", MaxSetSize))
	}

	seen := make(map[string]struct{}, len(s.Set))
	normalized := make([]string, 0, len(s.Set))
	for _, raw := range s.Set {
		v, err := normalizeValue(raw)
		if err != nil {
			return Normalized{}, err
		}
		if _, dup := seen[v]; dup {
			return Normalized{}, dErrors.New(dErrors.CodeMalformedStatement,
				fmt.Sprintf("disclosed set contains duplicate value %q", v))
		}
		seen[v] = struct{}{}
		normalized = append(normalized, v)
	}

	return Normalized{Tag: tag, Set: normalized}, nil
}

// normalizeValue canonicalizes one attribute value: trimmed, uppercased,
// exactly two ASCII letters.
func normalizeValue(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if len(v) != ValueLength {
		return "", dErrors.New(dErrors.CodeMalformedStatement,
			fmt.Sprintf("attribute value %q is not a two-letter country code", raw))
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 'A' || v[i] > 'Z' {
			return "", dErrors.New(dErrors.CodeMalformedStatement,
				fmt.Sprintf("attribute value %q is not a two-letter country code", raw))
		}
	}
	return v, nil
}
