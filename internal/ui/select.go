package ui

import (
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// Select is responsible for determining the specific UI given the user options and environment status (such as a
// TTY being present). The first UI in the returned slice is intended to be used; the ones that follow are only
// attempted in a fallback posture when there are environmental problems.
func Select(verbose, quiet bool, reportWriter io.Writer) (uis []UI) {
	isStdoutATty := term.IsTerminal(int(os.Stdout.Fd()))
	isStderrATty := term.IsTerminal(int(os.Stderr.Fd()))
	notATerminal := !isStderrATty && !isStdoutATty

	switch {
	case runtime.GOOS == "windows" || verbose || quiet || notATerminal || !isStderrATty:
		uis = append(uis, NewLoggerUI(reportWriter))
	default:
		uis = append(uis, NewStatusUI(os.Stderr, reportWriter), NewLoggerUI(reportWriter))
	}

	return uis
}
