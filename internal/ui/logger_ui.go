package ui

import (
	"io"

	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/parsers"
)

type loggerUI struct {
	unsubscribe  func() error
	reportOutput io.Writer
}

// NewLoggerUI writes all events to the common application logger and writes the final report to the given writer.
func NewLoggerUI(reportWriter io.Writer) UI {
	return &loggerUI{
		reportOutput: reportWriter,
	}
}

func (l *loggerUI) Setup(unsubscribe func() error) error {
	l.unsubscribe = unsubscribe
	return nil
}

func (l loggerUI) Handle(e partybus.Event) error {
	switch e.Type {
	case event.BinaryChecked:
		if res, err := parsers.ParseBinaryChecked(e); err == nil {
			log.Infof("checked %q: status=%s version=%q requirement=%q", res.Key(), res.Status, res.Version, res.Requirement)
		}
		return nil
	case event.AppUpdateAvailable:
		notice, err := appUpdateNotice(e)
		if err != nil {
			log.Warnf("unable to show app update event: %+v", err)
		} else if notice != "" {
			log.Warnf("%s", notice)
		}
		return nil
	case event.CheckFinished:
		if err := handleCheckFinished(e, l.reportOutput); err != nil {
			log.Warnf("unable to show check finished event: %+v", err)
		}
	// ignore all other events
	default:
		return nil
	}

	// this is the last expected event, stop listening to events
	return l.unsubscribe()
}

func (l loggerUI) Teardown(_ bool) error {
	return nil
}
