package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Runner talks to the CI job that invoked the process.
// The zero value is not usable; create with NewRunner.
type Runner struct {
	// Getenv resolves environment variables.
	Getenv func(string) string
	// Out receives workflow commands and log lines.
	Out io.Writer

	failed  bool
	message string
}

// NewRunner returns a Runner bound to the process
// environment and stdout.
func NewRunner() *Runner {
	return &Runner{
		Getenv: os.Getenv,
		Out:    os.Stdout,
	}
}

// Input returns the value of the named action input,
// or the empty string when it is not set. Names follow
// the action metadata ("api-key" reads INPUT_API-KEY).
func (r *Runner) Input(name string) string {
	key := "INPUT_" + strings.ToUpper(
		strings.ReplaceAll(name, " ", "_"),
	)

	return strings.TrimSpace(r.Getenv(key))
}

// Info writes a plain log line.
func (r *Runner) Info(msg string) {
	_, _ = fmt.Fprintln(r.Out, msg)
}

// Notice writes a notice annotation.
func (r *Runner) Notice(msg string) {
	r.command("notice", msg)
}

// SetOutput publishes a step output. Values are
// appended to the GITHUB_OUTPUT file when the runner
// provides one, and fall back to the set-output
// command otherwise.
func (r *Runner) SetOutput(name string, value string) error {
	const errCtx = "setting output"

	path := r.Getenv("GITHUB_OUTPUT")
	if path == "" {
		_, _ = fmt.Fprintf(
			r.Out, "\n::set-output name=%s::%s\n",
			escapeProperty(name), escapeData(value),
		)

		return nil
	}

	delim := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delim) ||
		strings.Contains(value, delim) {
		return fmt.Errorf(
			"%s: %s: value contains the delimiter",
			errCtx, name,
		)
	}

	//nolint:gosec // path is provided by the runner
	f, err := os.OpenFile(
		path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644,
	)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, name, err)
	}

	_, werr := fmt.Fprintf(
		f, "%s<<%s\n%s\n%s\n", name, delim, value, delim,
	)

	if cerr := f.Close(); werr == nil {
		werr = cerr
	}

	if werr != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, name, werr)
	}

	return nil
}

// SetFailed records msg as the failure of the run and
// writes an error annotation. Only the first message is
// kept.
func (r *Runner) SetFailed(msg string) {
	if !r.failed {
		r.failed = true
		r.message = msg
	}

	r.command("error", msg)
}

// Failed reports whether SetFailed was called.
func (r *Runner) Failed() bool {
	return r.failed
}

// FailureMessage returns the first failure message.
func (r *Runner) FailureMessage() string {
	return r.message
}

// ExitCode is 1 after a failure and 0 otherwise.
func (r *Runner) ExitCode() int {
	if r.failed {
		return 1
	}

	return 0
}

func (r *Runner) command(name string, msg string) {
	_, _ = fmt.Fprintf(
		r.Out, "::%s::%s\n", name, escapeData(msg),
	)
}

// escapeData encodes a workflow command message.
func escapeData(s string) string {
	return strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
	).Replace(s)
}

// escapeProperty encodes a workflow command property.
func escapeProperty(s string) string {
	return strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
		":", "%3A",
		",", "%2C",
	).Replace(s)
}
