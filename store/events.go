package store

import "github.com/tailored-agentic-units/flux/observability"

// Store event types.
const (
	EventStoreCreate      observability.EventType = "store.create"
	EventSubscribe        observability.EventType = "store.subscribe"
	EventSubscribeIgnored observability.EventType = "store.subscribe.ignored"
	EventUnsubscribe      observability.EventType = "store.unsubscribe"
	EventDispatchStart    observability.EventType = "store.dispatch.start"
	EventDispatchComplete observability.EventType = "store.dispatch.complete"
	EventDispatchQueued   observability.EventType = "store.dispatch.queued"
	EventDispatchAborted  observability.EventType = "store.dispatch.aborted"
)
