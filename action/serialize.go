package action

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts an action to its protobuf Struct form. The payload and
// meta must be JSON-representable; error payloads are reduced to their
// message. Numbers come back as float64 from FromStruct, as with any JSON
// round trip.
func ToStruct(a Action) (*structpb.Struct, error) {
	if a.Type == "" {
		return nil, ErrEmptyType
	}

	if err, ok := a.Payload.(error); ok {
		a.Payload = err.Error()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotSerializable, a.Type, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotSerializable, a.Type, err)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotSerializable, a.Type, err)
	}
	return s, nil
}

// FromStruct rebuilds an action from the form produced by ToStruct.
func FromStruct(s *structpb.Struct) (Action, error) {
	if s == nil {
		return Action{}, fmt.Errorf("%w: nil struct", ErrNotSerializable)
	}

	fields := s.AsMap()

	t, _ := fields["type"].(string)
	if t == "" {
		return Action{}, ErrEmptyType
	}

	failed, _ := fields["error"].(bool)

	return Action{
		Type:    Type(t),
		Payload: fields["payload"],
		Error:   failed,
		Meta:    fields["meta"],
	}, nil
}

// PayloadAs returns the payload of a as a T. A payload that already is a T
// is returned as is; any other payload, such as the map produced by
// FromStruct, is converted through its JSON form.
func PayloadAs[T any](a Action) (T, error) {
	var out T
	if p, ok := a.Payload.(T); ok {
		return p, nil
	}

	data, err := json.Marshal(a.Payload)
	if err != nil {
		return out, fmt.Errorf("%w: %s payload: %v", ErrNotSerializable, a.Type, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %s payload as %T: %v", ErrNotSerializable, a.Type, out, err)
	}
	return out, nil
}
