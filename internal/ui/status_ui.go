package ui

import (
	"fmt"
	"io"

	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/parsers"
)

// statusUI prints a line per checked binary to the status output (stderr) as results arrive, keeping the report
// output (stdout) free for the final report.
type statusUI struct {
	unsubscribe  func() error
	statusOutput io.Writer
	reportOutput io.Writer
	total        int64
	notices      []string
}

func NewStatusUI(statusWriter, reportWriter io.Writer) UI {
	return &statusUI{
		statusOutput: statusWriter,
		reportOutput: reportWriter,
	}
}

func (s *statusUI) Setup(unsubscribe func() error) error {
	s.unsubscribe = unsubscribe
	return nil
}

func (s *statusUI) Handle(e partybus.Event) error {
	switch e.Type {
	case event.CheckStarted:
		mon, err := parsers.ParseCheckStarted(e)
		if err != nil {
			log.Warnf("unable to show check started event: %+v", err)
			return nil
		}
		s.total = mon.BinariesChecked.Size()
		log.Debugf("checking %d requirements", s.total)
		return nil
	case event.BinaryChecked:
		if err := handleBinaryChecked(e, s.statusOutput); err != nil {
			log.Warnf("unable to show binary checked event: %+v", err)
		}
		return nil
	case event.AppUpdateAvailable:
		// shown after the report so it is not lost among the status lines
		notice, err := appUpdateNotice(e)
		if err != nil {
			log.Warnf("unable to show app update event: %+v", err)
		} else if notice != "" {
			s.notices = append(s.notices, notice)
		}
		return nil
	case event.CheckFinished:
		if err := handleCheckFinished(e, s.reportOutput); err != nil {
			log.Warnf("unable to show check finished event: %+v", err)
		}
		// this is the last expected event, stop listening to events
		return s.unsubscribe()
	}
	return nil
}

func (s *statusUI) Teardown(force bool) error {
	if force {
		return nil
	}
	for _, notice := range s.notices {
		if _, err := fmt.Fprintln(s.statusOutput, noticeFormat.Sprint(notice)); err != nil {
			// not fatal
			log.Warnf("unable to write app update notice: %+v", err)
		}
	}
	return nil
}
