package vercheck

import (
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/bus"
	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/vercheck/logger"
)

func SetLogger(logger logger.Logger) {
	log.Log = logger
}

func SetBus(b *partybus.Bus) {
	bus.Set(b)
}
