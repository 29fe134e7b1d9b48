package vercheck

import (
	"time"
)

// Status is the outcome of checking a single target.
type Status string

const (
	// StatusSatisfied means the detected version meets every constraint.
	StatusSatisfied Status = "satisfied"
	// StatusUnsatisfied means at least one constraint failed (including malformed constraints or versions).
	StatusUnsatisfied Status = "unsatisfied"
	// StatusNotFound means the binary is not installed; no evaluation took place.
	StatusNotFound Status = "not-found"
	// StatusNoVersion means the binary ran but no version could be found in its output.
	StatusNoVersion Status = "no-version"
	// StatusError means the version command could not be run to completion (e.g. it timed out).
	StatusError Status = "error"
)

// CheckResult is the outcome of checking one target.
type CheckResult struct {
	Name                 string            `json:"name"`
	Component            string            `json:"component,omitempty"`
	Binary               string            `json:"binary"`
	Requirement          string            `json:"requirement"`
	Version              string            `json:"version,omitempty"`
	Components           map[string]string `json:"components,omitempty"`
	Status               Status            `json:"status"`
	SatisfiedConstraints []string          `json:"satisfiedConstraints"`
	FailedConstraints    []string          `json:"failedConstraints"`
	Error                string            `json:"error,omitempty"`
	Duration             time.Duration     `json:"-"`
}

// Key is the requirement key the result was produced for, e.g. "node" or "docker:server".
func (r CheckResult) Key() string {
	return Target{Name: r.Name, Component: r.Component}.Key()
}

// Passed indicates if this result should be considered a success. A missing binary only passes when it is
// allowed to be missing.
func (r CheckResult) Passed(failOnMissing bool) bool {
	switch r.Status {
	case StatusSatisfied:
		return true
	case StatusNotFound:
		return !failOnMissing
	}
	return false
}

func (r CheckResult) withError(err error) CheckResult {
	r.Status = StatusError
	r.Error = err.Error()
	return r
}

// Report holds the results of all checked targets in the order they were requested.
type Report struct {
	Checks        []CheckResult `json:"checks"`
	FailOnMissing bool          `json:"failOnMissing"`
	Duration      time.Duration `json:"-"`
}

// Passed is true when every check passed.
func (r Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed(r.FailOnMissing) {
			return false
		}
	}
	return true
}

// Failures returns the checks that did not pass.
func (r Report) Failures() []CheckResult {
	var failures []CheckResult
	for _, c := range r.Checks {
		if !c.Passed(r.FailOnMissing) {
			failures = append(failures, c)
		}
	}
	return failures
}

// Count returns the number of checks with the given status.
func (r Report) Count(status Status) int {
	var n int
	for _, c := range r.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}
