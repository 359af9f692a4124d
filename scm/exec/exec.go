// Package exec provides shell command execution helpers.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Ex executes the named command in the given directory and
// returns its stdout. Stderr is attached to the returned
// error on failure. Pass empty dir to use the current
// working directory.
func Ex(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
	)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if dir != "" {
		cmd.Dir = dir
	}

	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf(
			"%s: %s %s: %w: %s",
			errCtx, name, strings.Join(arg, " "), err,
			strings.TrimSpace(stderr.String()),
		)
	}

	return stdout.String(), nil
}
