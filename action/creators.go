package action

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Creators is a batch of creators keyed by type tag.
type Creators map[Type]Creator

// NewCreators builds one creator per entry of builders, plus one identity
// creator per tag in identity. A nil builder also means identity. Each
// creator follows the single-creator contract independently. Two tags with
// the same camelCase name fail with ErrDuplicateType, so Get never has to
// choose between them.
//
//	creators, err := action.NewCreators(map[action.Type]action.PayloadBuilder{
//	    "INCREMENT": func(args ...any) (any, error) { return amount(args, 1) },
//	})
//	increment, _ := creators.Get("increment")
func NewCreators(builders map[Type]PayloadBuilder, identity ...Type) (Creators, error) {
	creators := make(Creators, len(builders)+len(identity))
	names := make(map[string]Type, len(builders)+len(identity))

	add := func(t Type, opts ...CreatorOption) error {
		if _, exists := creators[t]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateType, t)
		}
		c, err := NewCreator(t, opts...)
		if err != nil {
			return err
		}
		name := CamelName(t)
		if other, exists := names[name]; exists {
			return fmt.Errorf("%w: %s and %s are both named %s", ErrDuplicateType, other, t, name)
		}
		creators[t] = c
		names[name] = t
		return nil
	}

	for t, b := range builders {
		if err := add(t, WithPayload(b)); err != nil {
			return nil, err
		}
	}
	for _, t := range identity {
		if err := add(t); err != nil {
			return nil, err
		}
	}

	return creators, nil
}

// Get looks a creator up by its type tag ("INCREMENT_FIVE") or by the
// camelCase name derived from it ("incrementFive").
func (cs Creators) Get(name string) (Creator, bool) {
	if c, exists := cs[Type(name)]; exists {
		return c, true
	}
	for t, c := range cs {
		if CamelName(t) == name {
			return c, true
		}
	}
	return Creator{}, false
}

// Names returns the camelCase names of all creators, sorted.
func (cs Creators) Names() []string {
	names := make([]string, 0, len(cs))
	for t := range cs {
		names = append(names, CamelName(t))
	}
	slices.Sort(names)
	return names
}

// CamelName converts a type tag such as "INCREMENT_FIVE" to "incrementFive".
// Underscores, hyphens, slashes and spaces separate words.
func CamelName(t Type) string {
	words := strings.FieldsFunc(string(t), func(r rune) bool {
		return r == '_' || r == '-' || r == '/' || r == ' '
	})

	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}
