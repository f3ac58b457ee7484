package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Sentinel errors let callers tell a failed invocation apart from output that
// could not be parsed.
var (
	// ErrVerminUnavailable means the vermin binary could not be started.
	ErrVerminUnavailable = errors.New("vermin is not installed or not in PATH")
	// ErrVerminFailed means vermin ran but exited non-zero or timed out.
	ErrVerminFailed = errors.New("vermin analysis failed")
	// ErrVerminOutput means vermin succeeded but its output was unparsable.
	ErrVerminOutput = errors.New("unexpected vermin output")
)

// verminResult holds the minimum versions reported by vermin's parsable
// output. Either field may be empty when the corresponding sentinel ("!2" or
// "!3") marks the interpreter line as not applicable.
type verminResult struct {
	MinPy2 string
	MinPy3 string
}

// preferred returns the py2 minimum when present, else the py3 minimum.
func (r verminResult) preferred() string {
	if r.MinPy2 != "" {
		return r.MinPy2
	}
	return r.MinPy3
}

// runVermin invokes vermin on the given files in parsable mode, bounded by
// the timeout. f-string self-documentation detection is enabled explicitly
// because vermin treats it as an opt-in feature.
func runVermin(ctx context.Context, bin string, timeout time.Duration, files []string) (verminResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string{"--format", "parsable", "--feature", "fstring-self-doc"}, files...)
	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return verminResult{}, fmt.Errorf("%w: timed out after %s", ErrVerminFailed, timeout)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return verminResult{}, ErrVerminUnavailable
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return verminResult{}, fmt.Errorf("%w: %s", ErrVerminFailed, bytes.TrimSpace(exitErr.Stderr))
		}
		return verminResult{}, fmt.Errorf("%w: %v", ErrVerminUnavailable, err)
	}
	return parseVerminOutput(string(out))
}

// parseVerminOutput reads the final line of vermin's parsable output. The
// line is colon-delimited; fields 3 and 4 carry the minimum py2 and py3
// versions.
func parseVerminOutput(out string) (verminResult, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	fields := strings.Split(last, ":")
	if len(fields) < 5 {
		return verminResult{}, fmt.Errorf("%w: %q", ErrVerminOutput, last)
	}

	var res verminResult
	if v := strings.TrimSpace(fields[3]); v != "" && v != "!2" {
		res.MinPy2 = v
	}
	if v := strings.TrimSpace(fields[4]); v != "" && v != "!3" {
		res.MinPy3 = v
	}
	return res, nil
}
