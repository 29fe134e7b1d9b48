package parsers

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/monitor"
	"github.com/anchore/vercheck/vercheck/presenter"
)

func TestParseCheckStarted(t *testing.T) {
	checked := progress.NewManual(3)
	mon, err := ParseCheckStarted(partybus.Event{
		Type:  event.CheckStarted,
		Value: monitor.Checking{BinariesChecked: checked},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mon.BinariesChecked.Size())

	_, err = ParseCheckStarted(partybus.Event{Type: event.CheckStarted, Value: "nope"})
	var payloadErr *ErrBadPayload
	require.True(t, errors.As(err, &payloadErr))
	assert.Equal(t, "Value", payloadErr.Field)
}

func TestParseBinaryChecked(t *testing.T) {
	res, err := ParseBinaryChecked(partybus.Event{
		Type:  event.BinaryChecked,
		Value: vercheck.CheckResult{Name: "node", Status: vercheck.StatusSatisfied},
	})
	require.NoError(t, err)
	assert.Equal(t, "node", res.Name)

	_, err = ParseBinaryChecked(partybus.Event{Type: event.CheckFinished})
	var payloadErr *ErrBadPayload
	require.True(t, errors.As(err, &payloadErr))
	assert.Equal(t, "Type", payloadErr.Field)
}

func TestParseCheckFinished(t *testing.T) {
	var called bool
	pres, err := ParseCheckFinished(partybus.Event{
		Type: event.CheckFinished,
		Value: presenter.Func(func(io.Writer) error {
			called = true
			return nil
		}),
	})
	require.NoError(t, err)
	require.NoError(t, pres.Present(io.Discard))
	assert.True(t, called)

	_, err = ParseCheckFinished(partybus.Event{Type: event.CheckFinished, Value: 42})
	assert.Error(t, err)
}

func TestParseAppUpdateAvailable(t *testing.T) {
	update, err := ParseAppUpdateAvailable(partybus.Event{
		Type:  event.AppUpdateAvailable,
		Value: UpdateCheck{New: "1.2.0", Current: "1.1.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", update.New)

	_, err = ParseAppUpdateAvailable(partybus.Event{Type: event.AppUpdateAvailable, Value: "1.2.0"})
	assert.Error(t, err)
}
