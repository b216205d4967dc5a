package shimio

import (
	stdio "io"
	"os"
	"sync"
)

// flusher is implemented by buffered writers (bufio.Writer and friends).
type flusher interface {
	Flush() error
}

// SyncWriter serializes writes to an underlying writer. Each Write lands in
// one piece, so two producers never interleave bytes inside a chunk.
type SyncWriter struct {
	mu sync.Mutex
	w  stdio.Writer
}

// NewSyncWriter wraps w. Wrapping a *SyncWriter again returns it unchanged.
func NewSyncWriter(w stdio.Writer) *SyncWriter {
	if sw, ok := w.(*SyncWriter); ok {
		return sw
	}
	if w == nil {
		w = stdio.Discard
	}
	return &SyncWriter{w: w}
}

// Write implements io.Writer.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// WriteFlush writes p and flushes the underlying writer when it buffers.
func (s *SyncWriter) WriteFlush(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(p); err != nil {
		return err
	}
	if f, ok := s.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// File returns the wrapped *os.File, if the writer is one.
func (s *SyncWriter) File() (*os.File, bool) {
	f, ok := s.w.(*os.File)
	return f, ok
}
