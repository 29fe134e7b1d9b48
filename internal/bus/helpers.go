package bus

import (
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/presenter"
)

// CheckFinished hands the final report presenter to the UI.
func CheckFinished(pres presenter.Presenter) {
	Publish(partybus.Event{
		Type:  event.CheckFinished,
		Value: pres,
	})
}
