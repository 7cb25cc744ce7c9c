package action

import (
	"fmt"
	"slices"
	"strings"
)

// Delimiter separates tags in the string form of a CombinedKey.
const Delimiter = "||"

// CombinedKey is a set of type tags treated as one reducer table key.
// Matching is the reducer table's job; the key only carries the set.
type CombinedKey struct {
	types []Type
}

// Combine returns the set union of the tags of keys. Repeated tags collapse
// to one entry and the order of first occurrence is kept.
func Combine(keys ...Key) (CombinedKey, error) {
	var types []Type
	for i, k := range keys {
		if k == nil {
			return CombinedKey{}, fmt.Errorf("%w: position %d", ErrNilKey, i)
		}
		for _, t := range k.Types() {
			if t == "" {
				return CombinedKey{}, ErrEmptyType
			}
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}

	if len(types) == 0 {
		return CombinedKey{}, ErrEmptyCombination
	}
	return CombinedKey{types: types}, nil
}

// Types returns a copy of the tags in the combination.
func (k CombinedKey) Types() []Type {
	return slices.Clone(k.types)
}

// Has reports whether t is a member of the combination.
func (k CombinedKey) Has(t Type) bool {
	return slices.Contains(k.types, t)
}

func (k CombinedKey) String() string {
	parts := make([]string, len(k.types))
	for i, t := range k.types {
		parts[i] = string(t)
	}
	return strings.Join(parts, Delimiter)
}
