package ui

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal"
	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/event/parsers"
)

var (
	satisfiedMark   = color.Green.Sprint("✔")
	failedMark      = color.Red.Sprint("✘")
	unavailableMark = color.Yellow.Sprint("?")
	auxInfoFormat   = color.Gray
	noticeFormat    = color.New(color.Magenta, color.OpItalic)
)

func handleCheckFinished(event partybus.Event, reportOutput io.Writer) error {
	// show the report to stdout
	pres, err := parsers.ParseCheckFinished(event)
	if err != nil {
		return fmt.Errorf("bad CheckFinished event: %w", err)
	}

	if err := pres.Present(reportOutput); err != nil {
		return fmt.Errorf("unable to show version check report: %w", err)
	}
	return nil
}

func handleBinaryChecked(event partybus.Event, statusOutput io.Writer) error {
	res, err := parsers.ParseBinaryChecked(event)
	if err != nil {
		return fmt.Errorf("bad BinaryChecked event: %w", err)
	}

	_, err = fmt.Fprintln(statusOutput, statusLine(*res))
	return err
}

func statusLine(res vercheck.CheckResult) string {
	mark := failedMark
	switch res.Status {
	case vercheck.StatusSatisfied:
		mark = satisfiedMark
	case vercheck.StatusNotFound, vercheck.StatusNoVersion:
		mark = unavailableMark
	}

	line := fmt.Sprintf(" %s %s", mark, res.Key())
	if res.Version != "" {
		line += " " + res.Version
	}
	return line + auxInfoFormat.Sprintf(" [%s %s]", res.Status, res.Requirement)
}

func appUpdateNotice(event partybus.Event) (string, error) {
	update, err := parsers.ParseAppUpdateAvailable(event)
	if err != nil {
		return "", fmt.Errorf("bad AppUpdateAvailable event: %w", err)
	}
	if update.New == "" {
		return "", nil
	}
	return fmt.Sprintf("A newer version of %s is available for download: %s (installed version is %s)", internal.ApplicationName, update.New, update.Current), nil
}
