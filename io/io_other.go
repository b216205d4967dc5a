//go:build !windows

package shimio

func enableVirtualTerminal() bool { return true }
