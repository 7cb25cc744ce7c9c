package action

import "fmt"

// PayloadBuilder shapes an action payload from the creator's call arguments.
type PayloadBuilder func(args ...any) (any, error)

// MetaBuilder derives action metadata from the creator's call arguments.
type MetaBuilder func(args ...any) (any, error)

// CreatorOption configures a Creator at construction.
type CreatorOption func(*Creator)

// WithPayload sets the builder used to shape payloads. A nil builder keeps
// the identity default.
func WithPayload(b PayloadBuilder) CreatorOption {
	return func(c *Creator) { c.payload = b }
}

// WithMeta sets the builder used to attach metadata to every action.
func WithMeta(b MetaBuilder) CreatorOption {
	return func(c *Creator) { c.meta = b }
}

// Creator builds actions of one fixed type. It is stateless and can be
// reused across any number of dispatches.
type Creator struct {
	typ     Type
	payload PayloadBuilder
	meta    MetaBuilder
}

// NewCreator returns a Creator bound to t. Without WithPayload the payload
// of each action is the first call argument, or nil when there is none.
func NewCreator(t Type, opts ...CreatorOption) (Creator, error) {
	if t == "" {
		return Creator{}, ErrEmptyType
	}

	c := Creator{typ: t}
	for _, opt := range opts {
		opt(&c)
	}
	return c, nil
}

// Create builds an action from args. A builder failure is returned to the
// caller unchanged apart from wrapping; the creator does not recover or retry.
func (c Creator) Create(args ...any) (Action, error) {
	var payload any
	if c.payload != nil {
		p, err := c.payload(args...)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %s: %w", ErrPayloadBuilder, c.typ, err)
		}
		payload = p
	} else if len(args) > 0 {
		payload = args[0]
	}

	act := New(c.typ, payload)

	if c.meta != nil {
		meta, err := c.meta(args...)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %s: %w", ErrMetaBuilder, c.typ, err)
		}
		act.Meta = meta
	}

	return act, nil
}

// MustCreate is like Create but panics if a builder fails.
func (c Creator) MustCreate(args ...any) Action {
	act, err := c.Create(args...)
	if err != nil {
		panic(err)
	}
	return act
}

// Type returns the tag this creator is bound to.
func (c Creator) Type() Type {
	return c.typ
}

// Types lets the creator stand in for its own tag as a reducer table key.
func (c Creator) Types() []Type {
	return []Type{c.typ}
}

func (c Creator) String() string {
	return string(c.typ)
}
