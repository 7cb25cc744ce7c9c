package store_test

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/tailored-agentic-units/flux/action"
	"github.com/tailored-agentic-units/flux/observability"
	"github.com/tailored-agentic-units/flux/reducer"
	"github.com/tailored-agentic-units/flux/store"
)

type state struct {
	Counter int
}

var (
	increment = mustCreator("INCREMENT")
	decrement = mustCreator("DECREMENT")
	same      = mustCreator("SAME")
	boom      = mustCreator("BOOM")
)

func mustCreator(t action.Type) action.Creator {
	c, err := action.NewCreator(t)
	if err != nil {
		panic(err)
	}
	return c
}

func newReducer(t *testing.T) reducer.Reducer[*state] {
	t.Helper()

	r, err := reducer.HandleActions(&state{},
		reducer.Handle[*state](increment, func(s *state, _ action.Action) *state {
			return &state{Counter: s.Counter + 1}
		}),
		reducer.Handle[*state](decrement, func(s *state, _ action.Action) *state {
			return &state{Counter: s.Counter - 1}
		}),
		reducer.Handle[*state](same, func(s *state, _ action.Action) *state {
			return &state{Counter: s.Counter}
		}),
		reducer.Handle[*state](boom, func(*state, action.Action) *state {
			panic("reducer failure")
		}),
	)
	if err != nil {
		t.Fatalf("HandleActions() unexpected error: %v", err)
	}
	return r
}

func newStore(t *testing.T, initial *state, opts ...store.Option) *store.Store[*state] {
	t.Helper()

	s, err := store.New(newReducer(t), initial, opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return s
}

func TestNew_NilReducer(t *testing.T) {
	_, err := store.New[*state](nil, &state{})
	if !errors.Is(err, store.ErrNilReducer) {
		t.Errorf("New(nil) error = %v, want %v", err, store.ErrNilReducer)
	}
}

func TestStore_InitialState(t *testing.T) {
	initial := &state{}
	s := newStore(t, initial)

	if s.State() != initial {
		t.Error("State() before any dispatch should be the initial state")
	}
	if s.ID() == "" {
		t.Error("ID() is empty")
	}
	if s.Name() != "store" {
		t.Errorf("Name() = %q, want %q", s.Name(), "store")
	}
	if s.Dispatching() {
		t.Error("Dispatching() = true on an idle store")
	}
}

func TestStore_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		act     action.Action
		want    int
	}{
		{name: "increment", initial: 0, act: increment.MustCreate(), want: 1},
		{name: "decrement", initial: 5, act: decrement.MustCreate(), want: 4},
		{name: "unknown action", initial: 2, act: action.Action{Type: "NOOP"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, &state{Counter: tt.initial})

			got := s.Dispatch(tt.act)
			if got.Type != tt.act.Type {
				t.Errorf("Dispatch() returned type %q, want %q", got.Type, tt.act.Type)
			}
			if s.State().Counter != tt.want {
				t.Errorf("Counter = %d, want %d", s.State().Counter, tt.want)
			}
		})
	}
}

func TestStore_UnknownActionKeepsReference(t *testing.T) {
	initial := &state{Counter: 2}
	s := newStore(t, initial)

	s.Dispatch(action.Action{Type: "NOOP"})

	if s.State() != initial {
		t.Error("unknown action replaced the state reference")
	}
}

func TestStore_SubscribersInOrder(t *testing.T) {
	s := newStore(t, &state{})

	var calls []string
	s.Subscribe(func() { calls = append(calls, "first") })
	s.Subscribe(func() { calls = append(calls, "second") })
	s.Subscribe(func() { calls = append(calls, "third") })

	s.Dispatch(increment.MustCreate())

	want := []string{"first", "second", "third"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestStore_SubscriberSeesNewState(t *testing.T) {
	s := newStore(t, &state{})

	var seen []int
	s.Subscribe(func() { seen = append(seen, s.State().Counter) })

	s.Dispatch(increment.MustCreate())
	s.Dispatch(increment.MustCreate())
	s.Dispatch(decrement.MustCreate())

	if want := []int{1, 2, 1}; !slices.Equal(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestStore_Unsubscribe(t *testing.T) {
	s := newStore(t, &state{})

	var calls int
	unsubscribe := s.Subscribe(func() { calls++ })

	s.Dispatch(increment.MustCreate())
	unsubscribe()
	unsubscribe()
	s.Dispatch(increment.MustCreate())

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStore_SubscribeNil(t *testing.T) {
	rec := &observability.Recorder{}
	s := newStore(t, &state{}, store.WithObserver(rec))

	var calls int
	s.Subscribe(func() { calls++ })
	unsubscribe := s.Subscribe(nil)

	s.Dispatch(increment.MustCreate())
	unsubscribe()
	s.Dispatch(increment.MustCreate())

	if s.State().Counter != 2 {
		t.Errorf("Counter = %d, want 2", s.State().Counter)
	}
	if calls != 2 {
		t.Errorf("subscriber calls = %d, want 2", calls)
	}
	if n := len(rec.OfType(store.EventSubscribeIgnored)); n != 1 {
		t.Errorf("ignored events = %d, want 1", n)
	}
	if n := len(rec.OfType(store.EventDispatchAborted)); n != 0 {
		t.Errorf("aborted events = %d, want 0", n)
	}
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	s := newStore(t, &state{})

	var unsubscribeLate func()
	var lateCalls int

	s.Subscribe(func() {
		if unsubscribeLate != nil {
			unsubscribeLate()
		}
	})
	unsubscribeLate = s.Subscribe(func() { lateCalls++ })

	s.Dispatch(increment.MustCreate())
	if lateCalls != 1 {
		t.Errorf("after dispatch 1: lateCalls = %d, want 1", lateCalls)
	}

	s.Dispatch(increment.MustCreate())
	if lateCalls != 1 {
		t.Errorf("after dispatch 2: lateCalls = %d, want 1", lateCalls)
	}
}

func TestStore_SubscribeDuringNotification(t *testing.T) {
	s := newStore(t, &state{})

	var added bool
	var newCalls int
	s.Subscribe(func() {
		if !added {
			added = true
			s.Subscribe(func() { newCalls++ })
		}
	})

	s.Dispatch(increment.MustCreate())
	if newCalls != 0 {
		t.Errorf("after dispatch 1: newCalls = %d, want 0", newCalls)
	}

	s.Dispatch(increment.MustCreate())
	if newCalls != 1 {
		t.Errorf("after dispatch 2: newCalls = %d, want 1", newCalls)
	}
}

func TestStore_DeepEqualStateStillNotifies(t *testing.T) {
	initial := &state{Counter: 3}
	s := newStore(t, initial)

	var calls int
	s.Subscribe(func() { calls++ })

	s.Dispatch(same.MustCreate())

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.State() == initial {
		t.Error("state reference not replaced by the handler result")
	}
	if s.State().Counter != 3 {
		t.Errorf("Counter = %d, want 3", s.State().Counter)
	}
}

func TestStore_ReentrantDispatchFromSubscriberIsQueued(t *testing.T) {
	s := newStore(t, &state{})

	var seen []int
	var dispatchedDuring bool
	s.Subscribe(func() {
		seen = append(seen, s.State().Counter)
		if !dispatchedDuring {
			dispatchedDuring = true
			s.Dispatch(increment.MustCreate())
			// queued: this pass still observes dispatch 1
			seen = append(seen, s.State().Counter)
		}
	})
	s.Subscribe(func() {
		seen = append(seen, -s.State().Counter)
	})

	s.Dispatch(increment.MustCreate())

	want := []int{1, 1, -1, 2, -2}
	if !slices.Equal(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
	if s.State().Counter != 2 {
		t.Errorf("Counter = %d, want 2", s.State().Counter)
	}
	if s.Dispatching() {
		t.Error("Dispatching() = true after the queue drained")
	}
}

func TestStore_ReentrantDispatchFromReducerIsQueued(t *testing.T) {
	var s *store.Store[*state]

	chain := mustCreator("CHAIN")
	r, err := reducer.HandleActions(&state{},
		reducer.Handle[*state](chain, func(st *state, _ action.Action) *state {
			s.Dispatch(increment.MustCreate())
			return &state{Counter: st.Counter + 10}
		}),
		reducer.Handle[*state](increment, func(st *state, _ action.Action) *state {
			return &state{Counter: st.Counter + 1}
		}),
	)
	if err != nil {
		t.Fatalf("HandleActions() unexpected error: %v", err)
	}

	s, err = store.New(r, &state{})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	var seen []int
	s.Subscribe(func() { seen = append(seen, s.State().Counter) })

	s.Dispatch(chain.MustCreate())

	if want := []int{10, 11}; !slices.Equal(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestStore_PanicResetsToIdle(t *testing.T) {
	rec := &observability.Recorder{}
	s := newStore(t, &state{}, store.WithObserver(rec))

	s.Subscribe(func() {
		if s.State().Counter == 1 {
			s.Dispatch(boom.MustCreate())
			s.Dispatch(increment.MustCreate())
		}
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Dispatch() did not propagate the reducer panic")
			}
		}()
		s.Dispatch(increment.MustCreate())
	}()

	if s.Dispatching() {
		t.Error("Dispatching() = true after a panic")
	}
	if s.State().Counter != 1 {
		t.Errorf("Counter = %d, want 1", s.State().Counter)
	}

	aborted := rec.OfType(store.EventDispatchAborted)
	if len(aborted) != 1 {
		t.Fatalf("aborted events = %d, want 1", len(aborted))
	}
	if aborted[0].Data["dropped"] != 1 {
		t.Errorf("dropped = %v, want 1", aborted[0].Data["dropped"])
	}
	if aborted[0].Data["action_type"] != "BOOM" {
		t.Errorf("action_type = %v, want BOOM", aborted[0].Data["action_type"])
	}

	s.Dispatch(decrement.MustCreate())
	if s.State().Counter != 0 {
		t.Errorf("Counter after recovery = %d, want 0", s.State().Counter)
	}
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := newStore(t, &state{})

	var notified int
	var mu sync.Mutex
	s.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	const workers, perWorker = 8, 25

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				s.Dispatch(increment.MustCreate())
			}
		}()
	}
	wg.Wait()

	if got := s.State().Counter; got != workers*perWorker {
		t.Errorf("Counter = %d, want %d", got, workers*perWorker)
	}
	if notified != workers*perWorker {
		t.Errorf("notified = %d, want %d", notified, workers*perWorker)
	}
}

func TestStore_EndToEnd(t *testing.T) {
	s := newStore(t, &state{})

	for range 3 {
		s.Dispatch(increment.MustCreate())
	}
	if s.State().Counter != 3 {
		t.Fatalf("Counter = %d, want 3", s.State().Counter)
	}

	s.Dispatch(decrement.MustCreate())
	if s.State().Counter != 2 {
		t.Fatalf("Counter = %d, want 2", s.State().Counter)
	}

	s.Dispatch(action.Action{Type: "NOOP"})
	if s.State().Counter != 2 {
		t.Errorf("Counter = %d, want 2", s.State().Counter)
	}
}

func TestStore_Events(t *testing.T) {
	rec := &observability.Recorder{}
	s := newStore(t, &state{}, store.WithObserver(rec), store.WithName("counter"))

	unsubscribe := s.Subscribe(func() {})
	s.Dispatch(increment.MustCreate())
	unsubscribe()

	want := []observability.EventType{
		store.EventStoreCreate,
		store.EventSubscribe,
		store.EventDispatchStart,
		store.EventDispatchComplete,
		store.EventUnsubscribe,
	}

	events := rec.Events()
	got := make([]observability.EventType, len(events))
	for i, e := range events {
		got[i] = e.Type
	}
	if !slices.Equal(got, want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}

	complete := events[3]
	if complete.Data["action_type"] != "INCREMENT" {
		t.Errorf("action_type = %v, want INCREMENT", complete.Data["action_type"])
	}
	if complete.Data["subscribers"] != 1 {
		t.Errorf("subscribers = %v, want 1", complete.Data["subscribers"])
	}
	if complete.Data["store"] != "counter" {
		t.Errorf("store = %v, want counter", complete.Data["store"])
	}
	if complete.Data["store_id"] != s.ID() {
		t.Errorf("store_id = %v, want %v", complete.Data["store_id"], s.ID())
	}
}

func TestStore_QueuedEvent(t *testing.T) {
	rec := &observability.Recorder{}
	s := newStore(t, &state{}, store.WithObserver(rec))

	var once sync.Once
	s.Subscribe(func() {
		once.Do(func() { s.Dispatch(decrement.MustCreate()) })
	})
	s.Dispatch(increment.MustCreate())

	queued := rec.OfType(store.EventDispatchQueued)
	if len(queued) != 1 {
		t.Fatalf("queued events = %d, want 1", len(queued))
	}
	if queued[0].Data["action_type"] != "DECREMENT" {
		t.Errorf("action_type = %v, want DECREMENT", queued[0].Data["action_type"])
	}
	if n := len(rec.OfType(store.EventDispatchComplete)); n != 2 {
		t.Errorf("complete events = %d, want 2", n)
	}
}
