package cli

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/ui"
	"github.com/anchore/vercheck/vercheck/event"
)

var _ ui.UI = (*uiMock)(nil)

// uiMock closes the subscription when it sees CheckFinished, like the real UIs do.
type uiMock struct {
	mock.Mock
	unsubscribe func() error
}

func (u *uiMock) Setup(unsubscribe func() error) error {
	u.unsubscribe = unsubscribe
	return u.Called(unsubscribe).Error(0)
}

func (u *uiMock) Handle(e partybus.Event) error {
	if e.Type == event.CheckFinished {
		if err := u.unsubscribe(); err != nil {
			return err
		}
	}
	return u.Called(e).Error(0)
}

func (u *uiMock) Teardown(force bool) error {
	return u.Called(force).Error(0)
}

type worker func(*partybus.Bus) <-chan error

// completes publishes CheckFinished (carrying the given error) after closing the error channel, the order
// runCheck's worker uses.
func completes(finishErr error) worker {
	return func(b *partybus.Bus) <-chan error {
		errs := make(chan error)
		go func() {
			errs <- nil
			close(errs)
			b.Publish(partybus.Event{Type: event.CheckFinished, Error: finishErr})
		}()
		return errs
	}
}

// fails reports an error and never publishes CheckFinished.
func fails(err error) worker {
	return func(*partybus.Bus) <-chan error {
		errs := make(chan error)
		go func() {
			errs <- nil
			errs <- err
			close(errs)
		}()
		return errs
	}
}

// hangs never finishes.
func hangs(*partybus.Bus) <-chan error {
	return make(chan error)
}

func Test_eventLoop(t *testing.T) {
	errWorker := errors.New("unable to check versions")
	errPresent := errors.New("unable to create presenter")
	errTeardown := errors.New("terminal went away")

	tests := []struct {
		name        string
		worker      worker
		interrupt   bool
		handleErr   error
		teardownErr error
		wantErrs    []error
		wantForced  bool
	}{
		{
			name:   "check finishes",
			worker: completes(nil),
		},
		{
			name:     "worker fails before finishing",
			worker:   fails(errWorker),
			wantErrs: []error{errWorker},
		},
		{
			name:      "failed unsubscribe is only logged",
			worker:    completes(nil),
			handleErr: partybus.ErrUnsubscribe,
		},
		{
			name:      "handler error is returned",
			worker:    completes(errPresent),
			handleErr: errPresent,
			wantErrs:  []error{errPresent},
		},
		{
			name:        "teardown error is returned",
			worker:      completes(nil),
			teardownErr: errTeardown,
			wantErrs:    []error{errTeardown},
		},
		{
			name:       "interrupt abandons a hung worker",
			worker:     hangs,
			interrupt:  true,
			wantForced: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := partybus.NewBus()
			t.Cleanup(b.Close)
			subscription := b.Subscribe()

			ux := &uiMock{}
			ux.On("Setup", mock.AnythingOfType("func() error")).Return(nil)
			ux.On("Handle", mock.MatchedBy(func(e partybus.Event) bool {
				return e.Type == event.CheckFinished
			})).Return(test.handleErr).Maybe()
			ux.On("Teardown", test.wantForced).Return(test.teardownErr)

			var interrupts chan os.Signal
			if test.interrupt {
				interrupts = make(chan os.Signal, 1)
				interrupts <- syscall.SIGINT
			}

			var cleanedUp bool
			var err error
			withTimeout(t, 5*time.Second, func() {
				err = eventLoop(test.worker(b), interrupts, subscription, func() { cleanedUp = true }, ux)
			})

			if len(test.wantErrs) == 0 {
				assert.NoError(t, err)
			}
			for _, want := range test.wantErrs {
				assert.ErrorIs(t, err, want)
			}
			assert.True(t, cleanedUp, "cleanup not called")
			ux.AssertExpectations(t)
		})
	}
}

func Test_setupUI_fallback(t *testing.T) {
	broken := &uiMock{}
	broken.On("Setup", mock.AnythingOfType("func() error")).Return(errors.New("no tty"))

	working := &uiMock{}
	working.On("Setup", mock.AnythingOfType("func() error")).Return(nil)

	ux, err := setupUI(func() error { return nil }, broken, working)
	require.NoError(t, err)
	assert.Same(t, working, ux)

	_, err = setupUI(func() error { return nil }, broken)
	assert.Error(t, err)
}

// withTimeout fails the test if fn does not return in time; a broken loop would otherwise hang forever.
func withTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()

	select {
	case <-time.After(timeout):
		t.Fatal("timed out")
	case <-done:
	}
}
