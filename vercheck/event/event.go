package event

import "github.com/wagoodman/go-partybus"

const (
	// CheckStarted is published once per Check call; the value is a monitor.Checking.
	CheckStarted partybus.EventType = "vercheck-check-started"

	// BinaryChecked is published as each target finishes; the value is a vercheck.CheckResult.
	BinaryChecked partybus.EventType = "vercheck-binary-checked"

	// CheckFinished carries the presenter for the final report.
	CheckFinished partybus.EventType = "vercheck-check-finished"

	// AppUpdateAvailable is published by the CLI when a newer release exists; the value is a parsers.UpdateCheck.
	AppUpdateAvailable partybus.EventType = "vercheck-app-update-available"
)
