package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	shimio "github.com/dzonerzy/go-dismshim/io"
	"github.com/dzonerzy/go-dismshim/shim"
)

func TestApp_ForwardsRawArguments(t *testing.T) {
	var out, errb bytes.Buffer
	m := shimio.New().WithOut(&out).WithErr(&errb).NoColor()
	opts := shim.DefaultOptions()
	opts.IO = m
	opts.Logger = shimio.NewLogger(m)
	opts.Target = filepath.Join(t.TempDir(), "dism-origin.exe")

	app := newApp(shim.New(opts), "dism.exe")
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(context.Background(), []string{"dism.exe", "-online", "--help", "help", "/featurename:IIS-LegacySnapIn"})

	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder))
	assert.Equal(t, 1, coder.ExitCode())
	assert.Contains(t, out.String(), "[DISM WRAPPER] Detected command: dism.exe -online --help help /featurename:IIS-LegacySnapIn\n")
	assert.Contains(t, out.String(), "[DISM WRAPPER] Detected 1 occurrence(s) of 'IIS-LegacySnapIn'\n")
	assert.Contains(t, errb.String(), "ERROR: ")
}
