package models

import (
	"time"

	"github.com/anchore/vercheck/vercheck"
)

// GenerateReport returns a report covering every check status, for use in presenter tests.
func GenerateReport() vercheck.Report {
	return vercheck.Report{
		FailOnMissing: true,
		Duration:      1500 * time.Millisecond,
		Checks: []vercheck.CheckResult{
			{
				Name:                 "node",
				Binary:               "node",
				Requirement:          ">= 18.0.0, < 22.0.0",
				Version:              "20.10.0",
				Status:               vercheck.StatusSatisfied,
				SatisfiedConstraints: []string{">=18.0.0", "<22.0.0"},
				FailedConstraints:    []string{},
			},
			{
				Name:                 "go",
				Binary:               "go",
				Requirement:          "^1.22.0",
				Version:              "1.21.5",
				Status:               vercheck.StatusUnsatisfied,
				SatisfiedConstraints: []string{},
				FailedConstraints:    []string{"^1.22.0"},
			},
			{
				Name:        "docker",
				Component:   "server",
				Binary:      "docker",
				Requirement: ">=24.0.0",
				Version:     "24.0.6",
				Components: map[string]string{
					"client": "24.0.7",
					"server": "24.0.6",
				},
				Status:               vercheck.StatusSatisfied,
				SatisfiedConstraints: []string{">=24.0.0"},
				FailedConstraints:    []string{},
			},
			{
				Name:                 "terraform",
				Binary:               "terraform",
				Requirement:          "~1.6.0",
				Status:               vercheck.StatusNotFound,
				SatisfiedConstraints: []string{},
				FailedConstraints:    []string{},
			},
		},
	}
}
