package reducer

import (
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/flux/action"
)

// Sentinel errors for table construction.
var (
	ErrAmbiguousRoute = errors.New("ambiguous route")
	ErrInvalidRoute   = errors.New("invalid route")
)

// AmbiguousRouteError reports two table routes whose keys share a type tag.
// Routes are identified by their position in the table.
type AmbiguousRouteError struct {
	Type   action.Type
	First  int
	Second int
}

// Error implements the error interface.
func (e *AmbiguousRouteError) Error() string {
	return fmt.Sprintf("%s: type %s routed by entries %d and %d", ErrAmbiguousRoute, e.Type, e.First, e.Second)
}

// Unwrap enables errors.Is(err, ErrAmbiguousRoute).
func (e *AmbiguousRouteError) Unwrap() error {
	return ErrAmbiguousRoute
}
