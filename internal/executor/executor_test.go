package executor

import (
	"bytes"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell commands in these tests are POSIX")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	skipOnWindows(t)
	e := New()

	res := e.Run("echo hello", Options{Capture: true})
	assert.Equal(t, 0, res.Status)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRunMissingBinary(t *testing.T) {
	skipOnWindows(t)
	e := New()

	res := e.Run("definitely-not-a-real-binary-xyz", Options{Capture: true})
	assert.NotEqual(t, 0, res.Status)
	assert.Contains(t, res.Stderr, "not found")
}

func TestRunPreservesExitCode(t *testing.T) {
	skipOnWindows(t)
	e := New()

	res := e.Run("exit 7", Options{Capture: true})
	assert.Equal(t, 7, res.Status)
}

func TestRunTimeout(t *testing.T) {
	skipOnWindows(t)
	e := New()

	res := e.Run("sleep 5", Options{Capture: true, Timeout: 100 * time.Millisecond})
	assert.Equal(t, timeoutStatus, res.Status)
	assert.Contains(t, res.Stderr, "timed out")
}

func TestRunIsRepeatable(t *testing.T) {
	skipOnWindows(t)
	e := New()

	first := e.Run("echo again", Options{Capture: true})
	second := e.Run("echo again", Options{Capture: true})
	assert.Equal(t, first, second)
}

func TestConfirmAndRunAccepted(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	e := New(
		WithOutput(&out),
		WithConfirm(func(message string, defaultYes bool) (bool, error) {
			assert.False(t, defaultYes)
			return true, nil
		}),
	)

	res := e.ConfirmAndRun("echo yes", false)
	assert.Equal(t, 0, res.Status)
	assert.Equal(t, "yes\n", res.Stdout)
	assert.Contains(t, out.String(), "Suggested command: echo yes")
}

func TestConfirmAndRunDeclined(t *testing.T) {
	var out bytes.Buffer
	called := false
	e := New(
		WithOutput(&out),
		WithConfirm(func(message string, defaultYes bool) (bool, error) {
			called = true
			return false, nil
		}),
	)

	res := e.ConfirmAndRun("touch /tmp/should-not-exist", false)
	assert.True(t, called)
	assert.Equal(t, Result{Status: 0, Stdout: "", Stderr: "Aborted by user"}, res)
	assert.Contains(t, out.String(), "Aborted by user.")
}

func TestConfirmAndRunConfirmError(t *testing.T) {
	var out bytes.Buffer
	e := New(
		WithOutput(&out),
		WithConfirm(func(message string, defaultYes bool) (bool, error) {
			return false, errors.New("stdin is not a terminal")
		}),
	)

	res := e.ConfirmAndRun("echo never", false)
	assert.Equal(t, 1, res.Status)
	assert.Empty(t, res.Stdout)
	assert.Contains(t, res.Stderr, "stdin is not a terminal")
}

func TestConfirmAndRunSkipsPrompt(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	e := New(
		WithOutput(&out),
		WithConfirm(func(message string, defaultYes bool) (bool, error) {
			t.Fatal("confirm must not be called when skipped")
			return false, nil
		}),
	)

	res := e.ConfirmAndRun("echo skipped", true)
	assert.Equal(t, 0, res.Status)
	assert.Equal(t, "skipped\n", res.Stdout)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with space", "'with space'"},
		{"it's", `'it'"'"'s'`},
		{"", "''"},
		{"path/to/file.txt", "path/to/file.txt"},
		{"a;b", "'a;b'"},
		{"$HOME", "'$HOME'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in), "Quote(%q)", tt.in)
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	skipOnWindows(t)
	e := New()

	res := e.Run("printf %s "+Quote("a b'c$d"), Options{Capture: true})
	require.Equal(t, 0, res.Status)
	assert.Equal(t, "a b'c$d", res.Stdout)
}
