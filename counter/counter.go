// Package counter is the counter application from the flux walkthrough:
// a single integer moved up and down by INCREMENT and DECREMENT actions
// that share one handler through a combined key.
//
//	c, err := counter.New(&cfg)
//	c.Store().Subscribe(counter.Render(os.Stdout, c.Store()))
//	c.Increment()
package counter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tailored-agentic-units/flux/action"
	"github.com/tailored-agentic-units/flux/store"
)

// Counter binds the counter actions to the store they are dispatched to.
type Counter struct {
	actions Actions
	store   *store.Store[State]
}

// New creates the counter's actions, reducer and store from cfg.
func New(cfg *Config, opts ...store.Option) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	acts, err := NewActions(cfg.Step)
	if err != nil {
		return nil, fmt.Errorf("failed to create actions: %w", err)
	}

	initial := State{Counter: cfg.Initial}

	r, err := NewReducer(acts, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to create reducer: %w", err)
	}

	s, err := store.FromConfig(&cfg.Store, r, initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return &Counter{actions: acts, store: s}, nil
}

// Store returns the counter's store.
func (c *Counter) Store() *store.Store[State] {
	return c.store
}

// Actions returns the counter's creators.
func (c *Counter) Actions() Actions {
	return c.actions
}

// Value returns the current count.
func (c *Counter) Value() int {
	return c.store.State().Counter
}

// Increment dispatches INCREMENT with the given amount, or the configured
// step when none is given.
func (c *Counter) Increment(amount ...any) error {
	return c.dispatch(c.actions.Increment, amount...)
}

// Decrement dispatches DECREMENT with the given amount, or the configured
// step when none is given.
func (c *Counter) Decrement(amount ...any) error {
	return c.dispatch(c.actions.Decrement, amount...)
}

func (c *Counter) dispatch(creator action.Creator, args ...any) error {
	act, err := creator.Create(args...)
	if err != nil {
		return err
	}
	c.store.Dispatch(act)
	return nil
}

// Exec runs one text command and reports whether the caller should stop.
//
//	inc [n]   increment by n, or by the step
//	dec [n]   decrement by n, or by the step
//	quit      stop
//
// Any other word is dispatched as an action of that (upper-cased) type,
// which the counter ignores.
func (c *Counter) Exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "inc", "increment", "+":
		args, err := amountArgs(fields[1:])
		if err != nil {
			return false, err
		}
		return false, c.Increment(args...)
	case "dec", "decrement", "-":
		args, err := amountArgs(fields[1:])
		if err != nil {
			return false, err
		}
		return false, c.Decrement(args...)
	case "quit", "exit", "q":
		return true, nil
	default:
		c.store.Dispatch(action.New(action.Type(strings.ToUpper(fields[0])), nil))
		return false, nil
	}
}

func amountArgs(fields []string) ([]any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, fields[0])
	}
	return []any{n}, nil
}

// Render returns a subscriber writing the current count to w, one line per
// dispatch.
func Render(w io.Writer, s *store.Store[State]) func() {
	return func() {
		fmt.Fprintln(w, s.State().Counter)
	}
}
