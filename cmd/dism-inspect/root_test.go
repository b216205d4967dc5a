package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzonerzy/go-dismshim/shim"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errb bytes.Buffer
	root := NewRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errb.String(), err
}

func TestPlan_Replacement(t *testing.T) {
	out, _, err := execute(t, "", "plan", "--json", "--", "/online", "/enable-feature", "/featurename:IIS-LegacySnapIn", "/all")
	require.NoError(t, err)

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.LegacyCount)
	assert.True(t, got.Replace)
	assert.False(t, got.Introspection)
	assert.Equal(t, []string{
		"/online", "/enable-feature",
		"/featurename:IIS-ManagementScriptingTools",
		"/featurename:IIS-ManagementService",
		"/all",
	}, got.Args)
	assert.Equal(t, "dism-origin.exe /online /enable-feature /featurename:IIS-ManagementScriptingTools /featurename:IIS-ManagementService /all", got.CommandLine)
	assert.Equal(t, len(got.CommandLine), got.Length)
}

func TestPlan_IntrospectionTable(t *testing.T) {
	out, _, err := execute(t, "", "plan", "--", "-online", "-get-features", "-english")
	require.NoError(t, err)
	assert.Regexp(t, `Intercept output:\s+true\n`, out)
	assert.Regexp(t, `Command line:\s+dism-origin.exe -online -get-features -english\n`, out)
	assert.Contains(t, out, "[2]")
}

func TestPlan_QuotesArguments(t *testing.T) {
	out, _, err := execute(t, "", "plan", "--json", "--target", "C:\\Windows\\dism-origin.exe", "--", "/image:C:\\my image", `say "hi"`)
	require.NoError(t, err)

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, `C:\Windows\dism-origin.exe "/image:C:\my image" "say \"hi\""`, got.CommandLine)
}

func TestPlan_QuotesTargetWithSpace(t *testing.T) {
	out, _, err := execute(t, "", "plan", "--json", "--target", `C:\Program Files\dism-origin.exe`, "--", "/online")
	require.NoError(t, err)

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, `"C:\Program Files\dism-origin.exe" /online`, got.CommandLine)
	assert.Equal(t, len(got.CommandLine), got.Length)
}

func TestPlan_LengthInUTF16Units(t *testing.T) {
	out, _, err := execute(t, "", "plan", "--json", "--", "/comment:中文")
	require.NoError(t, err)

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, len("dism-origin.exe /comment:")+2, got.Length)
}

func TestPlan_TooLong(t *testing.T) {
	_, _, err := execute(t, "", "plan", "--", strings.Repeat("a", shim.MaxCommandLine))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shim.ErrCommandLineTooLong))
	assert.Equal(t, 1, shim.DefaultExitCodes().Resolve(err))
}

func TestRewrite(t *testing.T) {
	in := "Feature Name : IIS-ManagementScriptingTools\r\nState : Disabled\r\n"
	out, errOut, err := execute(t, in, "rewrite")
	require.NoError(t, err)
	assert.Equal(t, "Feature Name : IIS-LegacySnapIn\r\nState : Disabled\r\n", out)
	assert.Empty(t, errOut)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "DISM Wrapper 2.1\n"+
		"Target: dism-origin.exe\n"+
		"IIS-LegacySnapIn -> [/featurename:IIS-ManagementScriptingTools /featurename:IIS-ManagementService]\n", out)

	out, _, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"legacy_feature": "IIS-LegacySnapIn"`)
}
