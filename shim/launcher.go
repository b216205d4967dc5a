package shim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	shimio "github.com/dzonerzy/go-dismshim/io"
	"github.com/dzonerzy/go-dismshim/internal/pool"
)

// State is the lifecycle position of one child run.
type State int

const (
	StateIdle State = iota
	StateLaunching
	StateRunning
	StateDraining // output is being relayed (intercept mode)
	StateWaiting  // blocked on the child (inherited streams)
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunching:
		return "launching"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateWaiting:
		return "waiting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Launcher starts the target and observes it to completion. It never kills
// the child: once started, the child runs until it exits on its own.
type Launcher struct {
	IO  *shimio.IOManager
	Log *shimio.Logger

	// Env replaces the child's environment when non-nil.
	Env []string
	// Dir sets the child's working directory when non-empty.
	Dir string

	// Rewrite builds the stdout transformer for each intercepted run.
	Rewrite func() Transformer
	// ChunkSize is the read size for relayed streams.
	ChunkSize int
	// DrainTimeout bounds how long output is drained after the child exits.
	// Zero drains until EOF.
	DrainTimeout time.Duration
	// MaxReadErrors is the number of consecutive read failures a relay
	// tolerates before giving up.
	MaxReadErrors int

	Codes   ExitCodes
	OnState func(State)

	bufOnce sync.Once
	bufs    *pool.BufferPool
}

// Launch runs cl. With intercept set, stdout and stderr are captured through
// pipes: stdout passes through the rewrite transformer, stderr is copied
// verbatim. Otherwise the child inherits the caller's streams.
//
// It returns the child's exit code once the child has exited. A non-nil
// error means the wrapper itself failed; the code is then meaningless unless
// the error is a relay error, which is reported after the child was waited for.
func (l *Launcher) Launch(ctx context.Context, cl *CommandLine, intercept bool) (int, error) {
	sess := &session{launcher: l}
	sess.set(StateLaunching)

	if err := ctx.Err(); err != nil {
		sess.set(StateFailed)
		return l.Codes.GeneralError, NewError(ErrorTypeLaunch, "launch canceled").WithCause(err)
	}

	path, err := resolveTarget(cl.Target)
	if err != nil {
		sess.set(StateFailed)
		return l.Codes.GeneralError, NewError(ErrorTypeLaunch, fmt.Sprintf("cannot locate %s", cl.Target)).WithCause(err)
	}

	cmd := exec.Command(path, cl.Args...)
	cmd.Dir = l.Dir
	cmd.Env = l.Env
	configureProcess(cmd, cl, intercept)
	if f, ok := l.IO.InFile(); ok {
		cmd.Stdin = f
	} else {
		cmd.Stdin = l.IO.In()
	}
	sess.cmd = cmd

	if intercept {
		if err := sess.openPipes(); err != nil {
			sess.set(StateFailed)
			return l.Codes.GeneralError, err
		}
		cmd.Stdout = sess.stdout.w
		cmd.Stderr = sess.stderr.w
	} else {
		cmd.Stdout = inheritable(l.IO.Out())
		cmd.Stderr = inheritable(l.IO.Err())
	}

	if err := cmd.Start(); err != nil {
		sess.release()
		sess.set(StateFailed)
		return l.Codes.GeneralError, NewError(ErrorTypeLaunch, "failed to start child process").WithCause(err)
	}
	defer sess.release()
	sess.set(StateRunning)

	var waitErr, relayErr error
	if intercept {
		// the child holds its own copies now; EOF arrives when it exits
		sess.stdout.closeWrite()
		sess.stderr.closeWrite()
		sess.set(StateDraining)
		waitErr, relayErr = sess.relayAndWait()
	} else {
		sess.set(StateWaiting)
		waitErr = cmd.Wait()
	}

	code := l.exitStatus(cmd, waitErr)
	sess.set(StateDone)
	return code, relayErr
}

// exitStatus extracts the child's exit code, substituting the fallback code
// when the status cannot be retrieved.
func (l *Launcher) exitStatus(cmd *exec.Cmd, waitErr error) int {
	cause := waitErr
	if ps := cmd.ProcessState; ps != nil {
		if code := ps.ExitCode(); code >= 0 {
			return code
		}
		cause = errors.New(ps.String())
	}
	err := NewError(ErrorTypeExitStatus, "Failed to get process exit code")
	if cause != nil {
		err.WithCause(cause)
	}
	l.Log.Warning("%v", err)
	return l.Codes.StatusFallback
}

func (l *Launcher) bufferPool() *pool.BufferPool {
	l.bufOnce.Do(func() { l.bufs = pool.NewBufferPool(l.ChunkSize) })
	return l.bufs
}

// inheritable hands the child the raw *os.File when there is one so the
// stream is inherited instead of copied.
func inheritable(w *shimio.SyncWriter) io.Writer {
	if f, ok := w.File(); ok {
		return f
	}
	return w
}

// session is the handle for one live child and its pipes. Its resources are
// released exactly once on every path.
type session struct {
	launcher *Launcher
	cmd      *exec.Cmd
	stdout   *pipe
	stderr   *pipe
	once     sync.Once
}

func (s *session) set(st State) {
	s.launcher.Log.Debug("child %s", st)
	if s.launcher.OnState != nil {
		s.launcher.OnState(st)
	}
}

func (s *session) openPipes() error {
	var err error
	if s.stdout, err = newPipe(); err != nil {
		return NewError(ErrorTypePipe, "Failed to create stdout pipe").WithCause(err)
	}
	if s.stderr, err = newPipe(); err != nil {
		s.stdout.close()
		return NewError(ErrorTypePipe, "Failed to create stderr pipe").WithCause(err)
	}
	return nil
}

// relayAndWait runs one relay per stream alongside the wait for the child.
func (s *session) relayAndWait() (waitErr, relayErr error) {
	l := s.launcher
	streams := []struct {
		p     *pipe
		name  string
		dst   *shimio.SyncWriter
		xform Transformer
	}{
		{s.stdout, "stdout", l.IO.Out(), l.Rewrite()},
		{s.stderr, "stderr", l.IO.Err(), passthrough{}},
	}
	tasks := make([]drainTask, 0, len(streams))
	for _, st := range streams {
		tasks = append(tasks, drainTask{
			r: &relay{
				name:      st.name,
				src:       st.p.r,
				dst:       st.dst,
				xform:     st.xform,
				bufs:      l.bufferPool(),
				log:       l.Log,
				maxErrors: l.MaxReadErrors,
			},
			stop: st.p.closeRead,
		})
	}
	return l.join(s.cmd.Wait, tasks)
}

// abandonGrace is how long a cut relay gets to return before it is left
// behind. Closing a pipe does not interrupt a blocked read on every platform.
const abandonGrace = 500 * time.Millisecond

// drainTask is one stream relay and the way to cut it short.
type drainTask struct {
	r    *relay
	stop func()
}

// join runs tasks alongside wait. Output written before exit is drained to
// EOF, but once wait returns the tasks get at most DrainTimeout: a stream
// still held open by a descendant is then cut with stop, and a relay that
// does not return within abandonGrace is abandoned. Zero DrainTimeout drains
// until EOF.
func (l *Launcher) join(wait func() error, tasks []drainTask) (waitErr, relayErr error) {
	var g errgroup.Group
	done := make([]chan struct{}, len(tasks))
	for i, t := range tasks {
		done[i] = make(chan struct{})
		ch := done[i]
		g.Go(func() error {
			defer close(ch)
			err := t.r.run()
			if err != nil {
				// unblock a child writing into a pipe nobody reads any more
				t.stop()
			}
			return err
		})
	}
	finished := make(chan error, 1)
	go func() { finished <- g.Wait() }()

	waitErr = wait()
	if l.DrainTimeout <= 0 {
		return waitErr, <-finished
	}

	drain := time.NewTimer(l.DrainTimeout)
	defer drain.Stop()
	select {
	case relayErr = <-finished:
		return waitErr, relayErr
	case <-drain.C:
	}

	for i, t := range tasks {
		select {
		case <-done[i]:
		default:
			l.Log.Warning("Child %s still open after exit, stopped draining", t.r.name)
			t.stop()
		}
	}

	grace := time.NewTimer(abandonGrace)
	defer grace.Stop()
	select {
	case relayErr = <-finished:
	case <-grace.C:
		l.Log.Debug("relay blocked on a pipe held by a descendant, abandoning it")
	}
	return waitErr, relayErr
}

func (s *session) release() {
	s.once.Do(func() {
		if s.stdout != nil {
			s.stdout.close()
		}
		if s.stderr != nil {
			s.stderr.close()
		}
	})
}

// pipe is one parent/child channel; each end is closed at most once.
type pipe struct {
	r, w         *os.File
	rOnce, wOnce sync.Once
}

func newPipe() (*pipe, error) {
	// os.Pipe creates both ends close-on-exec; exec.Cmd duplicates only the
	// write end into the child.
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &pipe{r: r, w: w}, nil
}

func (p *pipe) closeRead()  { p.rOnce.Do(func() { _ = p.r.Close() }) }
func (p *pipe) closeWrite() { p.wOnce.Do(func() { _ = p.w.Close() }) }
func (p *pipe) close()      { p.closeWrite(); p.closeRead() }

// resolveTarget finds the executable. A bare name is looked up next to the
// shim's own binary first, then on PATH.
func resolveTarget(name string) (string, error) {
	if name == "" {
		return "", exec.ErrNotFound
	}
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		return name, nil
	}
	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return exec.LookPath(name)
}
