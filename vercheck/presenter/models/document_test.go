package models

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchore/vercheck/internal"
	"github.com/anchore/vercheck/vercheck"
)

func TestNewDocument(t *testing.T) {
	appConfig := map[string]string{"output": "json"}
	doc := NewDocument(PresenterConfig{
		Report:    GenerateReport(),
		AppConfig: appConfig,
	})

	require.Len(t, doc.Checks, 4)

	expected := Check{
		Key:                  "docker:server",
		Name:                 "docker",
		Component:            "server",
		Binary:               "docker",
		Requirement:          ">=24.0.0",
		Version:              "24.0.6",
		Components:           map[string]string{"client": "24.0.7", "server": "24.0.6"},
		Status:               vercheck.StatusSatisfied,
		Passed:               true,
		SatisfiedConstraints: []string{">=24.0.0"},
		FailedConstraints:    []string{},
	}
	for _, d := range deep.Equal(expected, doc.Checks[2]) {
		t.Errorf("   diff: %+v", d)
	}

	assert.False(t, doc.Checks[1].Passed)
	assert.False(t, doc.Checks[3].Passed, "missing binaries fail the report")

	assert.Equal(t, Summary{
		Total:       4,
		Satisfied:   2,
		Unsatisfied: 1,
		NotFound:    1,
		Passed:      false,
	}, doc.Summary)

	assert.Equal(t, internal.ApplicationName, doc.Descriptor.Name)
	assert.Equal(t, appConfig, doc.Descriptor.Configuration)
	assert.NotEmpty(t, doc.Descriptor.Timestamp)
}

func TestNewDocument_EmptyReport(t *testing.T) {
	doc := NewDocument(PresenterConfig{})

	assert.NotNil(t, doc.Checks)
	assert.Empty(t, doc.Checks)
	assert.True(t, doc.Summary.Passed)
}

func TestNewDocument_NilConstraintLists(t *testing.T) {
	doc := NewDocument(PresenterConfig{
		Report: vercheck.Report{
			Checks: []vercheck.CheckResult{
				{Name: "git", Binary: "git", Status: vercheck.StatusError, Error: "timed out"},
			},
		},
	})

	require.Len(t, doc.Checks, 1)
	assert.Equal(t, []string{}, doc.Checks[0].SatisfiedConstraints)
	assert.Equal(t, []string{}, doc.Checks[0].FailedConstraints)
	assert.Equal(t, 1, doc.Summary.Errors)
}
