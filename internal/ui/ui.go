package ui

import (
	"github.com/wagoodman/go-partybus"
)

// UI is the interface the event loop drives: it is set up once, handles every bus event, and is torn down when the
// loop exits (forcibly on an interrupt).
type UI interface {
	Setup(unsubscribe func() error) error
	partybus.Handler
	Teardown(force bool) error
}
