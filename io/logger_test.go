package shimio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger() (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errb bytes.Buffer
	m := New().WithOut(&out).WithErr(&errb).NoColor()
	return NewLogger(m), &out, &errb
}

func TestLogger_TaggedRouting(t *testing.T) {
	l, out, errb := newTestLogger()
	l.Info("Executing: %s", "dism-origin.exe /online")
	l.Warning("Failed to get process exit code")
	l.Error("CreateProcess failed (%s)", "not found")

	assert.Equal(t, "[DISM WRAPPER] Executing: dism-origin.exe /online\n", out.String())
	assert.Equal(t,
		"WARNING: Failed to get process exit code\nERROR: CreateProcess failed (not found)\n",
		errb.String())
}

func TestLogger_DebugSuppressedByDefault(t *testing.T) {
	l, out, _ := newTestLogger()
	l.Debug("state %s", "running")
	assert.Empty(t, out.String())

	l.WithLevel(LevelDebug).Debug("state %s", "running")
	assert.Equal(t, "[DISM WRAPPER] [debug] state running\n", out.String())
}

func TestLogger_PlainAndBlank(t *testing.T) {
	l, out, _ := newTestLogger()
	l.WithFormat(LogFormatPlain).Info("hello")
	l.Blank()
	l.Info("   ")
	assert.Equal(t, "hello\n\n   \n", out.String())
}

func TestLogger_ForceColorWrapsPrefix(t *testing.T) {
	var out bytes.Buffer
	m := New().WithOut(&out).ForceColor()
	NewLogger(m).Info("x")
	assert.Contains(t, out.String(), "\x1b[96m[DISM WRAPPER]\x1b[0m x")
}

func TestLogger_SuccessIsTaggedGreenOnStdout(t *testing.T) {
	var out, errb bytes.Buffer
	m := New().WithOut(&out).WithErr(&errb).ForceColor()
	NewLogger(m).Success("Process completed with exit code %d", 0)
	assert.Equal(t, "\x1b[92m[DISM WRAPPER]\x1b[0m Process completed with exit code 0\n", out.String())
	assert.Empty(t, errb.String())
}
