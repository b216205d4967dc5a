package shimio

import (
	stdio "io"
	"os"

	"github.com/mattn/go-isatty"
)

// IOManager centralizes the standard streams the shim reads from and writes to.
// Out and Err are always wrapped in a SyncWriter so the logger and the stream
// relays can share them safely.
type IOManager struct {
	in  stdio.Reader
	out *SyncWriter
	err *SyncWriter

	forceColor bool
	noColor    bool
}

// New returns a manager bound to process stdio
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: NewSyncWriter(os.Stdout), err: NewSyncWriter(os.Stderr)}
}

// WithIn sets the input reader used by the manager and returns the manager for chaining.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = NewSyncWriter(w); return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = NewSyncWriter(w); return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// In returns the configured input reader.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the guarded standard output writer.
func (m *IOManager) Out() *SyncWriter { return m.out }

// Err returns the guarded standard error writer.
func (m *IOManager) Err() *SyncWriter { return m.err }

// InFile returns the input as an *os.File when it is one, so a child process
// can inherit it directly.
func (m *IOManager) InFile() (*os.File, bool) {
	f, ok := m.in.(*os.File)
	return f, ok
}

// IsTTY reports whether the configured stdout is a terminal.
func (m *IOManager) IsTTY() bool {
	f, ok := m.out.File()
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SupportsColor reports whether ANSI sequences should be emitted on stdout.
func (m *IOManager) SupportsColor() bool {
	if m.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !m.IsTTY() {
		return false
	}
	term := os.Getenv("TERM")
	if term == "dumb" {
		return false
	}
	return enableVirtualTerminal()
}

// Colorize wraps s with the given ANSI SGR code (e.g., "31" for red) and a
// trailing reset. If color is not supported, it returns s unchanged.
func (m *IOManager) Colorize(s, code string) string {
	if !m.SupportsColor() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
