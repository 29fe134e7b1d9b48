package models

import (
	"time"

	"github.com/anchore/vercheck/internal"
	"github.com/anchore/vercheck/internal/version"
	"github.com/anchore/vercheck/vercheck"
)

// Document represents the JSON document to be presented
type Document struct {
	Checks     []Check    `json:"checks"`
	Summary    Summary    `json:"summary"`
	Descriptor descriptor `json:"descriptor"`
}

// Check is a single checked requirement as presented to users.
type Check struct {
	Key                  string            `json:"key"`
	Name                 string            `json:"name"`
	Component            string            `json:"component,omitempty"`
	Binary               string            `json:"binary"`
	Requirement          string            `json:"requirement"`
	Version              string            `json:"version,omitempty"`
	Components           map[string]string `json:"components,omitempty"`
	Status               vercheck.Status   `json:"status"`
	Passed               bool              `json:"passed"`
	SatisfiedConstraints []string          `json:"satisfiedConstraints"`
	FailedConstraints    []string          `json:"failedConstraints"`
	Error                string            `json:"error,omitempty"`
}

// Summary aggregates the outcome of all checks.
type Summary struct {
	Total       int  `json:"total"`
	Satisfied   int  `json:"satisfied"`
	Unsatisfied int  `json:"unsatisfied"`
	NotFound    int  `json:"notFound"`
	NoVersion   int  `json:"noVersion"`
	Errors      int  `json:"errors"`
	Passed      bool `json:"passed"`
}

// NewDocument creates and populates a new Document struct, representing the populated JSON document.
func NewDocument(pb PresenterConfig) Document {
	report := pb.Report

	// we must preallocate the checks to ensure the JSON document does not show "null" when nothing was checked
	checks := make([]Check, 0, len(report.Checks))
	for _, c := range report.Checks {
		checks = append(checks, newCheck(c, report.FailOnMissing))
	}

	return Document{
		Checks:  checks,
		Summary: NewSummary(report),
		Descriptor: descriptor{
			Name:          internal.ApplicationName,
			Version:       version.FromBuild().Version,
			Configuration: pb.AppConfig,
			Timestamp:     time.Now().Format(time.RFC3339),
		},
	}
}

func NewSummary(report vercheck.Report) Summary {
	return Summary{
		Total:       len(report.Checks),
		Satisfied:   report.Count(vercheck.StatusSatisfied),
		Unsatisfied: report.Count(vercheck.StatusUnsatisfied),
		NotFound:    report.Count(vercheck.StatusNotFound),
		NoVersion:   report.Count(vercheck.StatusNoVersion),
		Errors:      report.Count(vercheck.StatusError),
		Passed:      report.Passed(),
	}
}

func newCheck(c vercheck.CheckResult, failOnMissing bool) Check {
	satisfied := c.SatisfiedConstraints
	if satisfied == nil {
		satisfied = []string{}
	}
	failed := c.FailedConstraints
	if failed == nil {
		failed = []string{}
	}

	return Check{
		Key:                  c.Key(),
		Name:                 c.Name,
		Component:            c.Component,
		Binary:               c.Binary,
		Requirement:          c.Requirement,
		Version:              c.Version,
		Components:           c.Components,
		Status:               c.Status,
		Passed:               c.Passed(failOnMissing),
		SatisfiedConstraints: satisfied,
		FailedConstraints:    failed,
		Error:                c.Error,
	}
}
