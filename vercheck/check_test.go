package vercheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/bus"
	"github.com/anchore/vercheck/vercheck/checker"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/monitor"
	"github.com/anchore/vercheck/vercheck/extract"
	"github.com/anchore/vercheck/vercheck/requirement"
	"github.com/anchore/vercheck/vercheck/runner"
)

type capturingPublisher struct {
	lock   sync.Mutex
	events []partybus.Event
}

func (p *capturingPublisher) Publish(e partybus.Event) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.events = append(p.events, e)
}

func (p *capturingPublisher) ofType(t partybus.EventType) []partybus.Event {
	p.lock.Lock()
	defer p.lock.Unlock()
	var matches []partybus.Event
	for _, e := range p.events {
		if e.Type == t {
			matches = append(matches, e)
		}
	}
	return matches
}

func capture(t *testing.T) *capturingPublisher {
	t.Helper()
	p := &capturingPublisher{}
	bus.Set(p)
	t.Cleanup(func() { bus.Set(nil) })
	return p
}

// fakeTools answers version commands from a table of binary -> output; unknown binaries are not found.
func fakeTools(outputs map[string]runner.Output) runner.Func {
	return func(_ context.Context, binary string, _ []string) (runner.Output, error) {
		out, ok := outputs[binary]
		if !ok {
			return runner.Output{}, fmt.Errorf("%w: %s", runner.ErrNotFound, binary)
		}
		return out, nil
	}
}

func TestNewTarget(t *testing.T) {
	tests := []struct {
		key       string
		name      string
		component string
	}{
		{key: "node", name: "node"},
		{key: " docker : server ", name: "docker", component: "server"},
		{key: "tool:a:b", name: "tool", component: "a:b"},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			target := NewTarget(test.key, requirement.Text(">=1"))
			assert.Equal(t, test.name, target.Name)
			assert.Equal(t, test.component, target.Component)
			assert.Equal(t, requirement.Text(">=1"), target.Requirement)
		})
	}

	assert.Equal(t, "docker:server", NewTarget("docker:server", nil).Key())
	assert.Equal(t, "node", NewTarget("node", nil).Key())
}

func TestCheck(t *testing.T) {
	pub := capture(t)

	cfg := Config{
		Registry: checker.DefaultRegistry().With(
			checker.Checker{Name: "silent", Rule: extract.Pattern(`never (?P<version>\d+)`)},
			checker.Checker{Name: "broken", Rule: extract.Pattern(`(`)},
		),
		Runner: fakeTools(map[string]runner.Output{
			"node":   {Stdout: "v20.10.0\n"},
			"go":     {Stdout: "go version go1.21.5 linux/amd64\n"},
			"docker": {Stdout: "24.0.7|23.0.1\n"},
			"silent": {Stdout: "nothing to see here\n"},
			"java":   {Stderr: "openjdk version \"17.0.9\" 2023-10-17\n"},
			"broken": {Stdout: "1.0.0"},
		}),
		Parallelism:   2,
		FailOnMissing: true,
	}

	targets := []Target{
		NewTarget("node", requirement.Text(">= 18.0.0, < 22")),
		NewTarget("go", requirement.Constraint{Operator: requirement.Caret, Version: "1.22.0"}),
		NewTarget("docker:server", requirement.Text(">=24")),
		NewTarget("docker:client", requirement.Text(">=24")),
		NewTarget("docker:buildx", requirement.Text(">=0.10")),
		NewTarget("terraform", requirement.Text(">=1.5")),
		NewTarget("silent", requirement.Text(">=1")),
		NewTarget("java", requirement.Text("~17")),
		NewTarget("broken", requirement.Text(">=1")),
	}

	report, err := Check(context.Background(), cfg, targets...)
	require.NoError(t, err)
	require.Len(t, report.Checks, len(targets))

	expected := []struct {
		key     string
		status  Status
		version string
	}{
		{key: "node", status: StatusSatisfied, version: "20.10.0"},
		{key: "go", status: StatusUnsatisfied, version: "1.21.5"},
		{key: "docker:server", status: StatusUnsatisfied, version: "23.0.1"},
		{key: "docker:client", status: StatusSatisfied, version: "24.0.7"},
		{key: "docker:buildx", status: StatusNoVersion, version: "24.0.7"},
		{key: "terraform", status: StatusNotFound},
		{key: "silent", status: StatusNoVersion},
		{key: "java", status: StatusSatisfied, version: "17.0.9"},
		{key: "broken", status: StatusError},
	}

	for i, e := range expected {
		res := report.Checks[i]
		assert.Equal(t, e.key, res.Key(), "results must keep the target order")
		assert.Equal(t, e.status, res.Status, e.key)
		assert.Equal(t, e.version, res.Version, e.key)
	}

	node := report.Checks[0]
	assert.Equal(t, "node", node.Binary)
	assert.Equal(t, ">= 18.0.0, < 22", node.Requirement)
	assert.Equal(t, []string{">=18.0.0", "<22.0.0"}, node.SatisfiedConstraints)
	assert.Empty(t, node.FailedConstraints)

	goRes := report.Checks[1]
	assert.Equal(t, "^1.22.0", goRes.Requirement)
	assert.Equal(t, []string{"^1.22.0"}, goRes.FailedConstraints)

	assert.Equal(t, map[string]string{"client": "24.0.7", "server": "23.0.1"}, report.Checks[2].Components)
	assert.Contains(t, report.Checks[8].Error, "broken")

	assert.False(t, report.Passed())
	assert.Equal(t, 3, report.Count(StatusSatisfied))
	assert.Len(t, report.Failures(), 6)

	started := pub.ofType(event.CheckStarted)
	require.Len(t, started, 1)
	mon, ok := started[0].Value.(monitor.Checking)
	require.True(t, ok)
	assert.Equal(t, int64(len(targets)), mon.BinariesChecked.Current())
	assert.Equal(t, int64(len(targets)), mon.BinariesChecked.Size())
	assert.Equal(t, int64(6), mon.Failed.Current())
	assert.Equal(t, int64(1), mon.NotFound.Current())

	assert.Len(t, pub.ofType(event.BinaryChecked), len(targets))
}

func TestCheck_FailOnMissing(t *testing.T) {
	cfg := Config{
		Runner: fakeTools(map[string]runner.Output{
			"node": {Stdout: "v20.10.0\n"},
		}),
	}
	targets := []Target{
		NewTarget("node", requirement.Text(">=18")),
		NewTarget("terraform", requirement.Text(">=1.5")),
	}

	report, err := Check(context.Background(), cfg, targets...)
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Empty(t, report.Failures())

	cfg.FailOnMissing = true
	report, err = Check(context.Background(), cfg, targets...)
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Failures(), 1)
	assert.Equal(t, "terraform", report.Failures()[0].Name)
}

func TestCheck_NilRequirement(t *testing.T) {
	cfg := Config{
		Runner: fakeTools(map[string]runner.Output{"git": {Stdout: "git version 2.43.0\n"}}),
	}

	report, err := Check(context.Background(), cfg, Target{Name: "git"})
	require.NoError(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, StatusSatisfied, report.Checks[0].Status)
	assert.Equal(t, "2.43.0", report.Checks[0].Version)
	assert.Empty(t, report.Checks[0].Requirement)
}

func TestCheck_GoPrerelease(t *testing.T) {
	cfg := Config{
		Registry: checker.DefaultRegistry(),
		Runner:   fakeTools(map[string]runner.Output{"go": {Stdout: "go version go1.22rc1 linux/amd64\n"}}),
	}

	report, err := Check(context.Background(), cfg,
		NewTarget("go", requirement.Text(">= 1.21")),
		NewTarget("go", nil),
		NewTarget("go", requirement.Text(">= 1.22")),
	)
	require.NoError(t, err)
	require.Len(t, report.Checks, 3)

	for _, res := range report.Checks {
		assert.Equal(t, "1.22.0-rc.1", res.Version)
	}
	assert.Equal(t, StatusSatisfied, report.Checks[0].Status)
	assert.Equal(t, []string{">=1.21.0"}, report.Checks[0].SatisfiedConstraints)
	assert.Equal(t, StatusSatisfied, report.Checks[1].Status)
	assert.Empty(t, report.Checks[1].FailedConstraints)
	// a release candidate comes before the release it leads to
	assert.Equal(t, StatusUnsatisfied, report.Checks[2].Status)
	assert.Equal(t, []string{">=1.22.0"}, report.Checks[2].FailedConstraints)
}

func TestCheck_RunnerError(t *testing.T) {
	cfg := Config{
		Runner: runner.Func(func(context.Context, string, []string) (runner.Output, error) {
			return runner.Output{}, errors.New("timed out after 10s")
		}),
	}

	report, err := Check(context.Background(), cfg, NewTarget("node", requirement.Text(">=18")))
	require.NoError(t, err)
	assert.Equal(t, StatusError, report.Checks[0].Status)
	assert.Equal(t, "timed out after 10s", report.Checks[0].Error)
}

func TestCheck_Parallelism(t *testing.T) {
	var running, peak int32
	cfg := Config{
		Parallelism: 2,
		Runner: runner.Func(func(context.Context, string, []string) (runner.Output, error) {
			n := atomic.AddInt32(&running, 1)
			defer atomic.AddInt32(&running, -1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return runner.Output{Stdout: "1.0.0"}, nil
		}),
	}

	var targets []Target
	for i := 0; i < 8; i++ {
		targets = append(targets, NewTarget(fmt.Sprintf("tool%d", i), requirement.Text(">=1")))
	}

	report, err := Check(context.Background(), cfg, targets...)
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestCheck_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{
		Runner: fakeTools(map[string]runner.Output{"node": {Stdout: "v20.10.0"}}),
	}

	_, err := Check(ctx, cfg, NewTarget("node", requirement.Text(">=18")))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck_NoTargets(t *testing.T) {
	report, err := Check(context.Background(), Config{})
	require.NoError(t, err)
	assert.Empty(t, report.Checks)
	assert.True(t, report.Passed())
}
