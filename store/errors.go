package store

import "errors"

// ErrNilReducer is returned when a store is created without a reducer.
var ErrNilReducer = errors.New("store reducer is nil")
