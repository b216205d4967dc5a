//go:build !windows

package shim

import "os/exec"

// configureProcess is a no-op off Windows: the child receives cl.Args as its
// argv directly, so the quoted Line is informational only.
func configureProcess(_ *exec.Cmd, _ *CommandLine, _ bool) {}
