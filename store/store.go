// Package store holds application state behind a single update path.
//
// A Store owns the current state, the reducer and the subscriber list. The
// only way to change state is Dispatch: the reducer computes the next state
// from the current one and the action, the store replaces its state, then
// every subscriber is called with no arguments and pulls what it needs
// through State.
//
//	r, _ := reducer.HandleActions(State{}, routes...)
//	s, _ := store.New(r, State{})
//	unsubscribe := s.Subscribe(func() { render(s.State()) })
//	s.Dispatch(increment.MustCreate())
//
// # Re-entrancy
//
// A Dispatch issued while another is in progress (from a reducer, from a
// subscriber or from another goroutine) is queued and returns at once. The
// running dispatch drains the queue in FIFO order after its notification
// pass, so the subscribers of dispatch N always observe the state produced
// by dispatch N.
//
// # Subscriber snapshots
//
// Each notification pass iterates the subscriber list as it was when that
// action started its step. Subscribing or unsubscribing during a pass only
// affects later dispatches.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/flux/action"
	"github.com/tailored-agentic-units/flux/observability"
	"github.com/tailored-agentic-units/flux/reducer"
)

// Option configures a Store at construction.
type Option func(*options)

type options struct {
	name     string
	observer observability.Observer
}

// WithName sets the name reported in store events.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithObserver sets the observer receiving store events.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

type subscriber struct {
	fn func()
}

// Store is the single owner of one state slice. Safe for concurrent use;
// its lock is never held while the reducer or a subscriber runs.
type Store[S any] struct {
	id       string
	name     string
	reducer  reducer.Reducer[S]
	observer observability.Observer

	mu          sync.Mutex
	state       S
	subscribers []*subscriber
	queue       []action.Action
	dispatching bool
}

// New creates a Store holding initial. Without options the store is named
// "store" and discards its events.
func New[S any](r reducer.Reducer[S], initial S, opts ...Option) (*Store[S], error) {
	if r == nil {
		return nil, ErrNilReducer
	}

	o := options{name: "store"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}

	s := &Store[S]{
		id:       uuid.Must(uuid.NewV7()).String(),
		name:     o.name,
		reducer:  r,
		observer: o.observer,
		state:    initial,
	}

	s.emit(EventStoreCreate, observability.LevelInfo, "store.New", nil)
	return s, nil
}

// FromConfig creates a Store whose name and observer come from cfg. The
// observer is resolved by name from the observability registry. Options
// are applied after the config and can override it.
func FromConfig[S any](cfg *Config, r reducer.Reducer[S], initial S, opts ...Option) (*Store[S], error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	base := []Option{WithName(cfg.Name), WithObserver(observer)}
	return New(r, initial, append(base, opts...)...)
}

// ID returns the store's UUIDv7 identifier.
func (s *Store[S]) ID() string {
	return s.id
}

// Name returns the name given at construction.
func (s *Store[S]) Name() string {
	return s.name
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatching reports whether a dispatch is in progress.
func (s *Store[S]) Dispatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatching
}

// Subscribe registers fn to run after every future dispatch and returns a
// function removing it. Calling the returned function more than once has
// no further effect. A nil fn is not registered and gets a no-op
// unsubscribe.
func (s *Store[S]) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		s.emit(EventSubscribeIgnored, observability.LevelWarning, "store.Subscribe", nil)
		return func() {}
	}

	sub := &subscriber{fn: fn}

	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	count := len(s.subscribers)
	s.mu.Unlock()

	s.emit(EventSubscribe, observability.LevelVerbose, "store.Subscribe", map[string]any{
		"subscribers": count,
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.subscribers = slices.DeleteFunc(s.subscribers, func(c *subscriber) bool {
				return c == sub
			})
			count := len(s.subscribers)
			s.mu.Unlock()

			s.emit(EventUnsubscribe, observability.LevelVerbose, "store.Subscribe", map[string]any{
				"subscribers": count,
			})
		})
	}
}

// Dispatch runs act through the reducer, replaces the state with the
// result and notifies subscribers. It returns act unchanged.
//
// When a dispatch is already in progress act is queued instead, and
// Dispatch returns before act has been applied.
//
// If the reducer or a subscriber panics, the store drops its pending queue,
// returns to idle and lets the panic propagate.
func (s *Store[S]) Dispatch(act action.Action) action.Action {
	s.mu.Lock()
	if s.dispatching {
		s.queue = append(s.queue, act)
		depth := len(s.queue)
		s.mu.Unlock()

		s.emit(EventDispatchQueued, observability.LevelVerbose, "store.Dispatch", map[string]any{
			"action_type": string(act.Type),
			"queued":      depth,
		})
		return act
	}
	s.dispatching = true
	s.mu.Unlock()

	current := act
	completed := false
	defer func() {
		if completed {
			return
		}
		s.mu.Lock()
		dropped := len(s.queue)
		s.queue = nil
		s.dispatching = false
		s.mu.Unlock()

		s.emit(EventDispatchAborted, observability.LevelError, "store.Dispatch", map[string]any{
			"action_type": string(current.Type),
			"dropped":     dropped,
		})
	}()

	for ok := true; ok; current, ok = s.dequeue() {
		s.step(current)
	}

	completed = true
	return act
}

// dequeue pops the next queued action, or leaves the dispatching state
// when the queue is empty.
func (s *Store[S]) dequeue() (action.Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.queue = nil
		s.dispatching = false
		return action.Action{}, false
	}

	next := s.queue[0]
	s.queue = s.queue[1:]
	return next, true
}

func (s *Store[S]) step(act action.Action) {
	start := time.Now()
	s.emit(EventDispatchStart, observability.LevelVerbose, "store.Dispatch", map[string]any{
		"action_type": string(act.Type),
	})

	s.mu.Lock()
	current := s.state
	snapshot := slices.Clone(s.subscribers)
	s.mu.Unlock()

	next := s.reducer(current, act)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn()
	}

	s.emit(EventDispatchComplete, observability.LevelVerbose, "store.Dispatch", map[string]any{
		"action_type": string(act.Type),
		"subscribers": len(snapshot),
		"duration":    time.Since(start),
	})
}

func (s *Store[S]) emit(t observability.EventType, level observability.Level, source string, data map[string]any) {
	if data == nil {
		data = make(map[string]any, 2)
	}
	data["store_id"] = s.id
	data["store"] = s.name

	s.observer.OnEvent(context.Background(), observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
