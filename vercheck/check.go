package vercheck

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"
	"golang.org/x/sync/errgroup"

	"github.com/anchore/vercheck/internal/bus"
	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/internal/stringutil"
	"github.com/anchore/vercheck/vercheck/checker"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/monitor"
	"github.com/anchore/vercheck/vercheck/requirement"
	"github.com/anchore/vercheck/vercheck/runner"
)

// ComponentSeparator splits a requirement key into a checker name and a component, e.g. "docker:server".
const ComponentSeparator = ":"

// Target is a single requirement to verify.
type Target struct {
	// Name selects the checker (and so the binary) to run.
	Name string
	// Component optionally selects a named sub-version reported by the checker instead of its primary version.
	Component   string
	Requirement requirement.Requirement
}

// NewTarget builds a target from a requirement key, which is either a checker name or "name:component".
func NewTarget(key string, req requirement.Requirement) Target {
	name, component := stringutil.SplitTrimmed(key, ComponentSeparator)
	return Target{
		Name:        name,
		Component:   component,
		Requirement: req,
	}
}

// Key is the inverse of NewTarget.
func (t Target) Key() string {
	if t.Component == "" {
		return t.Name
	}
	return t.Name + ComponentSeparator + t.Component
}

// Config controls how a set of targets is checked.
type Config struct {
	Registry checker.Registry
	Runner   runner.Runner
	// Parallelism bounds the number of version commands running at once (defaults to the number of CPUs).
	Parallelism int
	// FailOnMissing makes a binary that cannot be found fail the report.
	FailOnMissing bool
}

// Check runs the version command for every target, extracts the installed version and evaluates it against the
// target's requirement. Results are reported in target order. Problems with individual binaries are captured in
// their CheckResult; an error is only returned when the context is done before all checks complete.
func Check(ctx context.Context, cfg Config, targets ...Target) (Report, error) {
	if cfg.Runner == nil {
		cfg.Runner = runner.NewExecRunner(runner.DefaultTimeout)
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	checked, failed, notFound := trackChecking(len(targets))
	defer checked.SetCompleted()

	start := time.Now()
	results := make([]CheckResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := range targets {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := checkTarget(gctx, cfg, targets[i])
			results[i] = res

			switch res.Status {
			case StatusNotFound:
				notFound.Increment()
				if cfg.FailOnMissing {
					failed.Increment()
				}
			case StatusSatisfied:
			default:
				failed.Increment()
			}
			checked.Increment()

			bus.Publish(partybus.Event{
				Type:  event.BinaryChecked,
				Value: res,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("unable to complete version checks: %w", err)
	}

	return Report{
		Checks:        results,
		FailOnMissing: cfg.FailOnMissing,
		Duration:      time.Since(start),
	}, nil
}

func checkTarget(ctx context.Context, cfg Config, target Target) (res CheckResult) {
	start := time.Now()
	c := cfg.Registry.Lookup(target.Name)

	res = CheckResult{
		Name:                 target.Name,
		Component:            target.Component,
		Binary:               c.Binary,
		SatisfiedConstraints: []string{},
		FailedConstraints:    []string{},
	}
	if target.Requirement != nil {
		res.Requirement = target.Requirement.String()
	}
	defer func() {
		res.Duration = time.Since(start)
	}()

	extractor, err := c.Extractor()
	if err != nil {
		return res.withError(err)
	}

	out, err := cfg.Runner.Run(ctx, c.Binary, c.Args)
	switch {
	case errors.Is(err, runner.ErrNotFound):
		log.Debugf("binary=%q not found", c.Binary)
		res.Status = StatusNotFound
		return res
	case err != nil:
		return res.withError(err)
	}

	extraction := extractor(out.Text())
	res.Components = extraction.Components

	version, ok := extraction.Component(target.Component)
	if !ok {
		log.Debugf("no version found for %q in output: %q", target.Key(), out.Text())
		res.Version = extraction.Version
		res.Status = StatusNoVersion
		return res
	}
	res.Version = version

	result := requirement.Check(version, target.Requirement)
	res.SatisfiedConstraints = result.SatisfiedConstraints
	res.FailedConstraints = result.FailedConstraints
	if result.Satisfies {
		res.Status = StatusSatisfied
	} else {
		res.Status = StatusUnsatisfied
	}

	log.Debugf("checked %q: version=%q status=%s", target.Key(), version, res.Status)
	return res
}

func trackChecking(total int) (*progress.Manual, *progress.Manual, *progress.Manual) {
	checked := progress.NewManual(int64(total))
	failed := progress.NewManual(-1)
	notFound := progress.NewManual(-1)

	bus.Publish(partybus.Event{
		Type: event.CheckStarted,
		Value: monitor.Checking{
			BinariesChecked: checked,
			Failed:          failed,
			NotFound:        notFound,
		},
	})

	return checked, failed, notFound
}
