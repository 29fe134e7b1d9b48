package requirement

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/anchore/vercheck/internal/log"
)

const (
	InvalidCurrentVersion = "Invalid current version format"
	ProcessingError       = "Error processing version requirement"
	invalidVersionPrefix  = "Invalid version format: "
	invalidOperatorPrefix = "Invalid operator: "
)

// Result describes how a detected version fared against each constraint of a requirement. Every evaluated
// constraint appears in exactly one of the two lists, in input order.
type Result struct {
	Satisfies            bool     `json:"satisfies"`
	SatisfiedConstraints []string `json:"satisfiedConstraints"`
	FailedConstraints    []string `json:"failedConstraints"`
}

func failure(reason string) Result {
	return Result{
		Satisfies:            false,
		SatisfiedConstraints: []string{},
		FailedConstraints:    []string{reason},
	}
}

// Clean canonicalizes a version string to "major.minor.patch[-prerelease]" (dropping a leading "v" or "=" and
// any build metadata). The boolean is false when the string is not a semantic version.
func Clean(raw string) (string, bool) {
	v, err := parseVersion(raw)
	if err != nil {
		return "", false
	}
	return canonical(v), true
}

func parseVersion(raw string) (*semver.Version, error) {
	// not enforcing strict semver here, so that versions like "v20", "1.0" or "=2.3.1" are accepted
	trimmed := strings.TrimLeft(strings.TrimSpace(raw), "=v")
	if trimmed == "" {
		return nil, fmt.Errorf("empty version")
	}
	return semver.NewVersion(trimmed)
}

func canonical(v *semver.Version) string {
	s := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if v.Prerelease() != "" {
		s += "-" + v.Prerelease()
	}
	return s
}

// SatisfiesRequirement evaluates every constraint against the current version independently, so that callers get
// the full picture of which bounds held and which did not. It never panics: malformed input is reported through
// the returned Result.
func SatisfiesRequirement(currentVersion string, constraints []Constraint) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("unable to evaluate version=%q against constraints=%+v: %+v", currentVersion, constraints, r)
			result = failure(ProcessingError)
		}
	}()

	current, err := parseVersion(currentVersion)
	if err != nil {
		return failure(InvalidCurrentVersion)
	}
	// build metadata plays no role in precedence
	current = stripMetadata(current)

	result = Result{
		SatisfiedConstraints: []string{},
		FailedConstraints:    []string{},
	}

	for _, c := range constraints {
		op, err := ParseOperator(string(c.Operator))
		if err != nil {
			log.Debugf("rejecting constraint operator=%q version=%q: %+v", c.Operator, c.Version, err)
			result.FailedConstraints = append(result.FailedConstraints, invalidOperatorPrefix+string(c.Operator)+c.Version)
			continue
		}

		target, err := parseVersion(c.Version)
		if err != nil {
			result.FailedConstraints = append(result.FailedConstraints, invalidVersionPrefix+string(op)+c.Version)
			continue
		}
		target = stripMetadata(target)

		rangeExpr := string(op) + canonical(target)
		if satisfies(current, op, target) {
			result.SatisfiedConstraints = append(result.SatisfiedConstraints, rangeExpr)
		} else {
			result.FailedConstraints = append(result.FailedConstraints, rangeExpr)
		}
	}

	result.Satisfies = len(result.FailedConstraints) == 0
	return result
}

// satisfies compares by plain precedence for every operator: a prerelease current version may satisfy a bound
// that has no prerelease (18.0.0-beta.1 satisfies >=17.0.0). Caret and tilde ranges are a lower bound of the
// target plus an exclusive ceiling at the lowest prerelease of the next incompatible version, so ^18.0.0 admits
// neither 19.0.0 nor 19.0.0-rc.1.
func satisfies(v *semver.Version, op Operator, target *semver.Version) bool {
	switch op {
	case EQ:
		return v.Equal(target)
	case GT:
		return v.GreaterThan(target)
	case GTE:
		return !v.LessThan(target)
	case LT:
		return v.LessThan(target)
	case LTE:
		return !v.GreaterThan(target)
	case Caret:
		return !v.LessThan(target) && v.LessThan(caretCeiling(target))
	case Tilde:
		return !v.LessThan(target) && v.LessThan(tildeCeiling(target))
	default:
		return false
	}
}

// caretCeiling bumps the leftmost non-zero component.
func caretCeiling(t *semver.Version) *semver.Version {
	switch {
	case t.Major() > 0:
		return semver.New(t.Major()+1, 0, 0, "0", "")
	case t.Minor() > 0:
		return semver.New(0, t.Minor()+1, 0, "0", "")
	default:
		return semver.New(0, 0, t.Patch()+1, "0", "")
	}
}

// tildeCeiling bumps the minor component.
func tildeCeiling(t *semver.Version) *semver.Version {
	return semver.New(t.Major(), t.Minor()+1, 0, "0", "")
}

func stripMetadata(v *semver.Version) *semver.Version {
	return semver.New(v.Major(), v.Minor(), v.Patch(), v.Prerelease(), "")
}

// Check normalizes the requirement and evaluates the current version against it.
func Check(currentVersion string, requirement Requirement) Result {
	return SatisfiesRequirement(currentVersion, ParseVersionRequirement(requirement))
}
