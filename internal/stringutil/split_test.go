package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrimmed(t *testing.T) {
	tests := []struct {
		input  string
		sep    string
		before string
		after  string
	}{
		{input: "docker:server", sep: ":", before: "docker", after: "server"},
		{input: " docker : client ", sep: ":", before: "docker", after: "client"},
		{input: "node", sep: ":", before: "node", after: ""},
		{input: "node=>=18 <22", sep: "=", before: "node", after: ">=18 <22"},
		{input: "go==1.21.5", sep: "=", before: "go", after: "=1.21.5"},
		{input: "=1.0", sep: "=", before: "", after: "1.0"},
		{input: "git=", sep: "=", before: "git", after: ""},
		{input: "", sep: "=", before: "", after: ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			before, after := SplitTrimmed(test.input, test.sep)
			assert.Equal(t, test.before, before)
			assert.Equal(t, test.after, after)
		})
	}
}
