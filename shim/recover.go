package shim

import (
	"fmt"
	"runtime"
)

// stackSize caps the captured stack of a recovered panic.
const stackSize = 4096

// RecoveryError is returned by Run when handling an invocation panicked.
type RecoveryError struct {
	Panic any
	Stack []byte
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("panic: %v", e.Panic)
}

// recoverRun turns a panic in Run into a *RecoveryError stored in *err. The
// stack goes to the debug log only.
func (s *Shim) recoverRun(err *error) {
	r := recover()
	if r == nil {
		return
	}
	stack := make([]byte, stackSize)
	stack = stack[:runtime.Stack(stack, false)]

	rerr := &RecoveryError{Panic: r, Stack: stack}
	s.log.Error("Unexpected wrapper failure: %v", r)
	s.log.Debug("stack trace:\n%s", stack)
	*err = rerr
}
