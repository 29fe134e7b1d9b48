package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/internal/ui"
)

// notifyInterrupts relays SIGINT and SIGTERM; the channel is buffered so a signal raised before the loop starts
// is not lost.
func notifyInterrupts() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	return c
}

// eventLoop drives the first UI that sets up successfully with bus events until the worker is done and the
// subscription is closed. The worker closes its error channel when it is finished; CheckFinished handling in the
// UI closes the subscription. An interrupt abandons both sources and forces a teardown, leaving cleanupFn to
// cancel any version commands still running.
// nolint:gocognit
func eventLoop(workerErrs <-chan error, interrupts <-chan os.Signal, subscription *partybus.Subscription, cleanupFn func(), uxs ...ui.UI) error {
	defer cleanupFn()

	ux, err := setupUI(subscription.Unsubscribe, uxs...)
	if err != nil {
		return err
	}

	var (
		errs    error
		events  = subscription.Events()
		aborted bool
	)

	for workerErrs != nil || events != nil {
		select {
		case workerErr, ok := <-workerErrs:
			switch {
			case !ok:
				workerErrs = nil
			case workerErr != nil:
				// nothing more will be published; stop listening so the loop can drain and exit
				errs = multierror.Append(errs, workerErr)
				if err := subscription.Unsubscribe(); err != nil {
					errs = multierror.Append(errs, err)
				}
			}

		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			err := ux.Handle(e)
			switch {
			case err == nil:
			case errors.Is(err, partybus.ErrUnsubscribe):
				log.Warnf("unable to unsubscribe from the event bus")
				events = nil
			default:
				errs = multierror.Append(errs, err)
			}

		case <-interrupts:
			workerErrs, events = nil, nil
			aborted = true
		}
	}

	if err := ux.Teardown(aborted); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}

// setupUI returns the first UI whose Setup succeeds, so a terminal UI can fall back to plain logging when no
// usable TTY is present.
func setupUI(unsubscribe func() error, uxs ...ui.UI) (ui.UI, error) {
	for _, ux := range uxs {
		if err := ux.Setup(unsubscribe); err != nil {
			log.Warnf("unable to setup UI, trying the next one: %+v", err)
			continue
		}
		return ux, nil
	}
	return nil, errors.New("unable to setup any UI")
}
