// Package action defines the values that flow into a store: actions, the
// creators that build them, and the keys a reducer table routes on.
//
// An Action is an immutable {type, payload} value. A Creator is bound to one
// type tag and builds actions of that type, optionally shaping the payload
// from its call arguments. Creators, plain type tags and combined keys all
// implement Key, so a reducer table can reference a creator directly instead
// of repeating its tag:
//
//	increment, _ := action.NewCreator("INCREMENT")
//	decrement, _ := action.NewCreator("DECREMENT")
//	both, _ := action.Combine(increment, decrement)
//	// both routes INCREMENT and DECREMENT to a single handler
package action

// Type is the tag identifying what kind of change an action describes.
type Type string

// Types lets a bare type tag act as a reducer table key.
func (t Type) Types() []Type {
	return []Type{t}
}

func (t Type) String() string {
	return string(t)
}

// Key is anything a reducer table can route on. Types returns the concrete
// tags the key expands to.
type Key interface {
	Types() []Type
}

// Action describes one intended state change.
//
// Error marks a failed action: it is set when the payload is an error value.
// Meta carries optional data produced by a creator's meta builder.
type Action struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload,omitempty"`
	Error   bool `json:"error,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

// New builds an action directly, without a creator. An error payload sets
// the Error flag.
func New(t Type, payload any) Action {
	_, failed := payload.(error)
	return Action{Type: t, Payload: payload, Error: failed}
}
