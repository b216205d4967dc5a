package shim

import "errors"

// ExitError requests a specific process exit code. The shim returns it when
// the child ran to completion, carrying the child's own status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the requested code (urfave/cli's ExitCoder).
func (e *ExitError) ExitCode() int { return e.Code }

// ExitCodes holds the codes the shim uses for its own outcomes.
type ExitCodes struct {
	Success        int // default: 0
	GeneralError   int // default: 1; any wrapper-internal failure
	StatusFallback int // default: 1; child ran but its status was unavailable
}

// DefaultExitCodes mirrors the conventions of the wrapped tool.
func DefaultExitCodes() ExitCodes {
	return ExitCodes{Success: 0, GeneralError: 1, StatusFallback: 1}
}

// Resolve converts a run outcome to a process exit code.
// Precedence:
//  1. ExitError (the child's status, or an explicit request)
//  2. a typed wrapper Error -> GeneralError
//  3. any other error -> GeneralError
func (c ExitCodes) Resolve(err error) int {
	if err == nil {
		return c.Success
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return c.GeneralError
}
