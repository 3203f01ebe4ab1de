package wsl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrLaunch indicates the tool could not be started at all, typically
	// because it is not on PATH.
	ErrLaunch = errors.New("external tool could not be launched")
	// ErrNonZeroExit indicates the tool ran but reported failure.
	ErrNonZeroExit = errors.New("external tool exited with non-zero status")
)

// Outcome classifies how a tool invocation ended.
type Outcome int

const (
	Success Outcome = iota
	LaunchFailure
	NonZeroExit
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case LaunchFailure:
		return "launch failure"
	case NonZeroExit:
		return "non-zero exit"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is what a Runner reports for one invocation.
type Result struct {
	Args     []string
	Outcome  Outcome
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// LaunchErr is set when Outcome is LaunchFailure.
	LaunchErr error
}

// Err converts the result into an error: nil on Success, ErrLaunch or
// ErrNonZeroExit otherwise.
func (r Result) Err() error {
	switch r.Outcome {
	case Success:
		return nil
	case LaunchFailure:
		return errors.Mark(errors.Wrapf(r.LaunchErr, "run %s", strings.Join(r.Args, " ")), ErrLaunch)
	default:
		return errors.Mark(&ExitError{
			Args:   r.Args,
			Code:   r.ExitCode,
			Output: r.output(),
		}, ErrNonZeroExit)
	}
}

// output is the best human-readable text the tool left behind.
func (r Result) output() string {
	for _, raw := range [][]byte{r.Stderr, r.Stdout} {
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		if looksUTF16(raw) {
			if text, err := DecodeOutput(raw); err == nil {
				return strings.TrimFunc(text, isPadding)
			}
		}
		return strings.TrimSpace(string(raw))
	}
	return ""
}

// looksUTF16 reports whether raw carries a UTF-16 byte-order mark or the NUL
// bytes that ASCII text has in UTF-16.
func looksUTF16(raw []byte) bool {
	if bytes.HasPrefix(raw, []byte{0xff, 0xfe}) || bytes.HasPrefix(raw, []byte{0xfe, 0xff}) {
		return true
	}
	return bytes.IndexByte(raw, 0) >= 0
}

// ExitError carries the exit status of a failed invocation.
type ExitError struct {
	Args   []string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.Code)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// ExitCode returns the exit status carried by err, or -1 when err did not
// come from a non-zero exit.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// Runner launches the management tool. The exec-backed implementation is
// ExecRunner; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
}

// ExecRunner runs commands with os/exec and blocks until they exit.
type ExecRunner struct {
	// Echo, when set, also receives the tool's stderr as it is written so
	// progress messages reach the user.
	Echo io.Writer
}

var _ Runner = ExecRunner{}

// Run executes name with args, capturing stdout and stderr.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) Result {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Echo != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Echo)
	}

	res := Result{Args: append([]string{name}, args...)}
	err := cmd.Run()
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Outcome = Success
	case errors.As(err, &exitErr):
		res.Outcome = NonZeroExit
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Outcome = LaunchFailure
		res.LaunchErr = err
	}
	return res
}
