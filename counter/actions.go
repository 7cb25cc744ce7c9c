package counter

import (
	"fmt"

	"github.com/tailored-agentic-units/flux/action"
)

// Counter action types.
const (
	TypeIncrement action.Type = "INCREMENT"
	TypeDecrement action.Type = "DECREMENT"
)

// Amount is the payload of both counter actions. Decrement carries a
// negative amount so one handler can serve both.
type Amount struct {
	Amount int `json:"amount"`
}

// Actions holds the counter's creators and the combined key routing both
// to the same handler.
type Actions struct {
	Increment action.Creator
	Decrement action.Creator
	Change    action.CombinedKey
}

// NewActions builds the creators. step is the amount used when a creator
// is called without arguments.
func NewActions(step int) (Actions, error) {
	creators, err := action.NewCreators(map[action.Type]action.PayloadBuilder{
		TypeIncrement: amount(step, 1),
		TypeDecrement: amount(step, -1),
	})
	if err != nil {
		return Actions{}, err
	}

	increment, _ := creators.Get("increment")
	decrement, _ := creators.Get("decrement")

	change, err := action.Combine(increment, decrement)
	if err != nil {
		return Actions{}, err
	}

	return Actions{
		Increment: increment,
		Decrement: decrement,
		Change:    change,
	}, nil
}

func amount(step, sign int) action.PayloadBuilder {
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return Amount{Amount: sign * step}, nil
		}
		n, ok := args[0].(int)
		if !ok {
			return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidAmount, args[0], args[0])
		}
		return Amount{Amount: sign * n}, nil
	}
}
