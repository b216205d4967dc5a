//go:build windows

package shim

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// configureProcess hands CreateProcess the exact rebuilt command line instead
// of letting os/exec re-quote the arguments. Intercepted runs get no console
// window of their own.
func configureProcess(cmd *exec.Cmd, cl *CommandLine, intercept bool) {
	attr := &syscall.SysProcAttr{CmdLine: cl.Line}
	if intercept {
		attr.CreationFlags |= windows.CREATE_NO_WINDOW
	}
	cmd.SysProcAttr = attr
}
