// Package reducer builds reducers from routing tables.
//
// A table maps keys (type tags, creators or combined keys) to handlers. At
// build time every key is expanded to its concrete tags and checked for
// overlap with every other key, so a collision surfaces before any action
// flows through the table. At dispatch time the reducer is a single map
// lookup:
//
//	both, _ := action.Combine(increment, decrement)
//	r, err := reducer.HandleActions(State{},
//	    reducer.Handle(both, func(s State, a action.Action) State {
//	        return State{Counter: s.Counter + a.Payload.(Amount).Amount}
//	    }),
//	)
package reducer

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/tailored-agentic-units/flux/action"
)

// Handler computes the next state from the current state and an action.
// Handlers must be pure: no writes outside the returned value.
type Handler[S any] func(state S, act action.Action) S

// Reducer is the function a store runs on every dispatch.
type Reducer[S any] func(state S, act action.Action) S

// Route is one table entry. Next handles regular actions and Throw handles
// actions flagged with Error; a nil side leaves the state unchanged.
type Route[S any] struct {
	Key   action.Key
	Next  Handler[S]
	Throw Handler[S]
}

// Handle routes every action matching key to h, failed or not.
func Handle[S any](key action.Key, h Handler[S]) Route[S] {
	return Route[S]{Key: key, Next: h, Throw: h}
}

// HandleSplit routes regular actions matching key to next and failed ones
// to throw.
func HandleSplit[S any](key action.Key, next, throw Handler[S]) Route[S] {
	return Route[S]{Key: key, Next: next, Throw: throw}
}

// Table is a built routing table.
type Table[S any] struct {
	initial S
	routes  []Route[S]
	index   map[action.Type]int
}

// Build expands every route key and indexes the resulting tags. It fails
// with an *AmbiguousRouteError when two routes share a tag, and with
// ErrInvalidRoute for a route without key, tags or handlers.
func Build[S any](initial S, routes ...Route[S]) (*Table[S], error) {
	t := &Table[S]{
		initial: initial,
		routes:  slices.Clone(routes),
		index:   make(map[action.Type]int),
	}

	for i, r := range t.routes {
		if r.Key == nil {
			return nil, fmt.Errorf("%w: entry %d has no key", ErrInvalidRoute, i)
		}
		if r.Next == nil && r.Throw == nil {
			return nil, fmt.Errorf("%w: entry %d has no handler", ErrInvalidRoute, i)
		}

		types := r.Key.Types()
		if len(types) == 0 {
			return nil, fmt.Errorf("%w: entry %d has no action types", ErrInvalidRoute, i)
		}

		for _, typ := range types {
			if typ == "" {
				return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidRoute, i, action.ErrEmptyType)
			}
			if prev, exists := t.index[typ]; exists && prev != i {
				return nil, &AmbiguousRouteError{Type: typ, First: prev, Second: i}
			}
			t.index[typ] = i
		}
	}

	return t, nil
}

// HandleActions builds a table from routes and returns its reducer.
func HandleActions[S any](initial S, routes ...Route[S]) (Reducer[S], error) {
	t, err := Build(initial, routes...)
	if err != nil {
		return nil, err
	}
	return t.Reduce, nil
}

// HandleAction builds a single-route reducer.
func HandleAction[S any](key action.Key, h Handler[S], initial S) (Reducer[S], error) {
	return HandleActions(initial, Handle(key, h))
}

// Reduce applies the handler routed for act.Type. An undefined state (a nil
// pointer, map, slice or interface) is replaced by the initial state first.
// Unmatched actions return state unchanged.
func (t *Table[S]) Reduce(state S, act action.Action) S {
	if undefined(state) {
		state = t.initial
	}

	i, exists := t.index[act.Type]
	if !exists {
		return state
	}

	h := t.routes[i].Next
	if act.Error {
		h = t.routes[i].Throw
	}
	if h == nil {
		return state
	}
	return h(state, act)
}

// Initial returns the state used when the reducer receives an undefined one.
func (t *Table[S]) Initial() S {
	return t.initial
}

// Handles reports whether some route matches typ.
func (t *Table[S]) Handles(typ action.Type) bool {
	_, exists := t.index[typ]
	return exists
}

// Types returns every routed tag, sorted.
func (t *Table[S]) Types() []action.Type {
	types := make([]action.Type, 0, len(t.index))
	for typ := range t.index {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

func undefined[S any](state S) bool {
	v := reflect.ValueOf(any(state))
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
