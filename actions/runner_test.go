package actions_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/devcenter_register/actions"
)

func newRunner(env map[string]string) (*actions.Runner, *bytes.Buffer) {
	var out bytes.Buffer

	return &actions.Runner{
		Getenv: func(k string) string { return env[k] },
		Out:    &out,
	}, &out
}

func TestRunner_Input(t *testing.T) {
	t.Parallel()

	r, _ := newRunner(map[string]string{
		"INPUT_API-KEY":      "  key  ",
		"INPUT_GITHUB-TOKEN": "ghp_x",
		"INPUT_URL":          "https://dc.example.com",
		"INPUT_MY_INPUT":     "spaced",
	})

	assert.Equal(t, "key", r.Input("api-key"))
	assert.Equal(t, "ghp_x", r.Input("github-token"))
	assert.Equal(t, "https://dc.example.com", r.Input("url"))
	assert.Equal(t, "spaced", r.Input("my input"))
	assert.Empty(t, r.Input("missing"))
}

func TestRunner_Notice_escapes(t *testing.T) {
	t.Parallel()

	r, out := newRunner(nil)

	r.Notice("Branch Registered")
	r.Notice("50%\nnext")

	assert.Equal(
		t,
		"::notice::Branch Registered\n"+
			"::notice::50%25%0Anext\n",
		out.String(),
	)
}

func TestRunner_Info(t *testing.T) {
	t.Parallel()

	r, out := newRunner(nil)

	r.Info("Authenticating @ https://dc.example.com")

	assert.Equal(
		t,
		"Authenticating @ https://dc.example.com\n",
		out.String(),
	)
}

func TestRunner_SetFailed_keeps_first_message(
	t *testing.T,
) {
	t.Parallel()

	r, out := newRunner(nil)

	assert.False(t, r.Failed())
	assert.Equal(t, 0, r.ExitCode())

	r.SetFailed("Failed to register branch: Error 500")
	r.SetFailed("second")

	assert.True(t, r.Failed())
	assert.Equal(t, 1, r.ExitCode())
	assert.Equal(
		t,
		"Failed to register branch: Error 500",
		r.FailureMessage(),
	)
	assert.Contains(
		t, out.String(),
		"::error::Failed to register branch: Error 500\n",
	)
}

func TestRunner_SetFailed_empty_message(t *testing.T) {
	t.Parallel()

	r, out := newRunner(nil)

	r.SetFailed("")

	assert.True(t, r.Failed())
	assert.Equal(t, "::error::\n", out.String())
}

func TestRunner_SetOutput_file(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output")

	r, out := newRunner(map[string]string{
		"GITHUB_OUTPUT": path,
	})

	require.NoError(t, r.SetOutput("time", "12:34:56"))
	require.NoError(t, r.SetOutput("multi", "a\nb"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	re := regexp.MustCompile(
		`^time<<(ghadelimiter_[0-9a-f-]+)\n12:34:56\n` +
			`ghadelimiter_[0-9a-f-]+\n` +
			`multi<<(ghadelimiter_[0-9a-f-]+)\na\nb\n` +
			`ghadelimiter_[0-9a-f-]+\n$`,
	)
	assert.Regexp(t, re, string(raw))
	assert.Empty(t, out.String())
}

func TestRunner_SetOutput_command_fallback(t *testing.T) {
	t.Parallel()

	r, out := newRunner(nil)

	require.NoError(t, r.SetOutput("time", "12:34:56"))

	assert.Equal(
		t,
		"\n::set-output name=time::12:34:56\n",
		out.String(),
	)
}

func TestRunner_SetOutput_unwritable(t *testing.T) {
	t.Parallel()

	r, _ := newRunner(map[string]string{
		"GITHUB_OUTPUT": filepath.Join(
			t.TempDir(), "missing", "output",
		),
	})

	err := r.SetOutput("time", "now")

	assert.ErrorContains(t, err, "setting output")
}
