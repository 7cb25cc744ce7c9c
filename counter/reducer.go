package counter

import (
	"github.com/tailored-agentic-units/flux/action"
	"github.com/tailored-agentic-units/flux/reducer"
)

// State is the counter's state slice.
type State struct {
	Counter int `json:"counter"`
}

// NewReducer routes both counter actions to one handler adding the
// payload amount. Payloads decoded from their serialized form are accepted.
func NewReducer(acts Actions, initial State) (reducer.Reducer[State], error) {
	return reducer.HandleActions(initial, reducer.Handle[State](acts.Change, change))
}

func change(s State, act action.Action) State {
	amt, err := action.PayloadAs[Amount](act)
	if err != nil {
		return s
	}
	return State{Counter: s.Counter + amt.Amount}
}
