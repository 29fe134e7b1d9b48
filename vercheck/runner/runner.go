package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/cli/safeexec"

	"github.com/anchore/vercheck/internal/log"
)

// DefaultTimeout bounds a single version command when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the requested binary cannot be found on the PATH.
var ErrNotFound = errors.New("executable not found")

// Output is the captured result of running a command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Text is the output a version should be extracted from: stdout when it has content, stderr otherwise (some
// tools, e.g. older java releases, print their version on stderr).
func (o Output) Text() string {
	if strings.TrimSpace(o.Stdout) != "" {
		return o.Stdout
	}
	return o.Stderr
}

// Runner executes a binary with the given arguments and captures its output.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) (Output, error)
}

// Func adapts an ordinary function into a Runner.
type Func func(ctx context.Context, binary string, args []string) (Output, error)

func (f Func) Run(ctx context.Context, binary string, args []string) (Output, error) {
	return f(ctx, binary, args)
}

// ExecRunner runs binaries found on the PATH as child processes.
type ExecRunner struct {
	Timeout  time.Duration
	lookPath func(string) (string, error)
}

var _ Runner = (*ExecRunner)(nil)

func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{
		Timeout: timeout,
		// safeexec never resolves binaries relative to the current directory (unlike os/exec on windows)
		lookPath: safeexec.LookPath,
	}
}

func (r *ExecRunner) Run(ctx context.Context, binary string, args []string) (Output, error) {
	path, err := r.lookPath(binary)
	if err != nil {
		log.Debugf("unable to find binary=%q: %+v", binary, err)
		return Output{}, fmt.Errorf("%w: %s", ErrNotFound, binary)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// don't wait on grandchildren holding the output pipes open after the context is done
	cmd.WaitDelay = time.Second

	log.Debugf("running %s %s", path, strings.Join(args, " "))
	err = cmd.Run()

	out := Output{
		Stdout: stripansi.Strip(stdout.String()),
		Stderr: stripansi.Strip(stderr.String()),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("unable to run %q: %w", binary, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		if strings.TrimSpace(out.Text()) == "" {
			return out, fmt.Errorf("%q exited with status %d and no output", binary, out.ExitCode)
		}
		// plenty of tools exit non-zero for their version flag while still reporting the version
		log.Debugf("%q exited with status %d, using its output anyway", binary, out.ExitCode)
		return out, nil
	}

	if err != nil {
		return out, fmt.Errorf("unable to run %q: %w", binary, err)
	}

	return out, nil
}
