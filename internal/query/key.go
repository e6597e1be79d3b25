package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a cached query result. It is an ordered tuple of parts,
// e.g. NewKey("users", ListParams{Page: 1}) or NewKey("user", id).
// Equality is structural; invalidation matches exact keys or key prefixes.
type Key struct {
	parts []string
}

// NewKey builds a key from its parts. Strings are used as-is; everything
// else is canonicalized through JSON so that structurally equal parameter
// structs produce equal keys.
func NewKey(parts ...any) Key {
	canonical := make([]string, len(parts))
	for i, part := range parts {
		switch v := part.(type) {
		case string:
			canonical[i] = v
		case fmt.Stringer:
			canonical[i] = v.String()
		default:
			b, err := json.Marshal(v)
			if err != nil {
				canonical[i] = fmt.Sprintf("%v", v)
			} else {
				canonical[i] = string(b)
			}
		}
	}
	return Key{parts: canonical}
}

// String returns the canonical form of the key
func (k Key) String() string {
	return strings.Join(k.parts, "\x1f")
}

// IsZero reports whether the key has no parts
func (k Key) IsZero() bool {
	return len(k.parts) == 0
}

// Equal reports whether two keys have identical part sequences
func (k Key) Equal(other Key) bool {
	if len(k.parts) != len(other.parts) {
		return false
	}
	for i := range k.parts {
		if k.parts[i] != other.parts[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the key starts with the given prefix key
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.parts) > len(k.parts) {
		return false
	}
	for i := range prefix.parts {
		if k.parts[i] != prefix.parts[i] {
			return false
		}
	}
	return true
}
