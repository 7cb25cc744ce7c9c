package action

import "errors"

// Sentinel errors for action construction.
var (
	ErrEmptyType        = errors.New("action type is empty")
	ErrDuplicateType    = errors.New("action type declared twice")
	ErrEmptyCombination = errors.New("combination has no action types")
	ErrNilKey           = errors.New("action key is nil")
	ErrPayloadBuilder   = errors.New("payload builder failed")
	ErrMetaBuilder      = errors.New("meta builder failed")
	ErrNotSerializable  = errors.New("action is not serializable")
)
