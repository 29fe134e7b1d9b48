/*
Package parsers turns bus events back into the typed payloads the vercheck library published with them.
*/
package parsers

import (
	"fmt"

	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/monitor"
	"github.com/anchore/vercheck/vercheck/presenter"
)

// ErrBadPayload reports an event whose type or value is not what the parser expects. Field is "Type" or "Value".
type ErrBadPayload struct {
	Type  partybus.EventType
	Field string
	Value interface{}
}

func (e *ErrBadPayload) Error() string {
	return fmt.Sprintf("event='%s' has bad event payload field='%v': '%+v'", string(e.Type), e.Field, e.Value)
}

// UpdateCheck is the payload of AppUpdateAvailable.
type UpdateCheck struct {
	New     string
	Current string
}

func payload[T any](e partybus.Event, expected partybus.EventType) (T, error) {
	var zero T
	if e.Type != expected {
		return zero, &ErrBadPayload{Type: expected, Field: "Type", Value: e.Type}
	}
	value, ok := e.Value.(T)
	if !ok {
		return zero, &ErrBadPayload{Type: e.Type, Field: "Value", Value: e.Value}
	}
	return value, nil
}

func ParseCheckStarted(e partybus.Event) (*monitor.Checking, error) {
	mon, err := payload[monitor.Checking](e, event.CheckStarted)
	if err != nil {
		return nil, err
	}
	return &mon, nil
}

func ParseBinaryChecked(e partybus.Event) (*vercheck.CheckResult, error) {
	result, err := payload[vercheck.CheckResult](e, event.BinaryChecked)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func ParseCheckFinished(e partybus.Event) (presenter.Presenter, error) {
	return payload[presenter.Presenter](e, event.CheckFinished)
}

func ParseAppUpdateAvailable(e partybus.Event) (*UpdateCheck, error) {
	update, err := payload[UpdateCheck](e, event.AppUpdateAvailable)
	if err != nil {
		return nil, err
	}
	return &update, nil
}
