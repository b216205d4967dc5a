package shim

import (
	"errors"
	"fmt"
	"io"
	"os"

	shimio "github.com/dzonerzy/go-dismshim/io"
	"github.com/dzonerzy/go-dismshim/internal/pool"
)

// relay forwards one child stream to the matching parent stream, chunk by
// chunk, in the order the child wrote it. Every emitted chunk is flushed.
type relay struct {
	name      string // "stdout" or "stderr", for diagnostics
	src       io.Reader
	dst       *shimio.SyncWriter
	xform     Transformer
	bufs      *pool.BufferPool
	log       *shimio.Logger
	maxErrors int // consecutive read failures tolerated before giving up
}

// run reads until end of stream. Transient read failures are reported and
// skipped; maxErrors consecutive failures end the relay with a relay error.
// A stream closed under the relay (the drain was cut) ends it normally.
func (r *relay) run() error {
	buf := r.bufs.Get()
	defer r.bufs.Put(buf)

	failures := 0
	writeFailed := false
	for {
		n, err := r.src.Read(*buf)
		if n > 0 {
			failures = 0
			if werr := r.emit((*buf)[:n]); werr != nil && !writeFailed {
				// keep draining so the child never blocks on a full pipe
				writeFailed = true
				r.log.Warning("Failed to write child %s to caller: %v", r.name, werr)
			}
		}
		if err == nil {
			continue
		}
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, os.ErrClosed):
		default:
			failures++
			r.log.Warning("Failed to read child %s: %v", r.name, err)
			if failures < r.maxErrors {
				continue
			}
			return NewError(ErrorTypeRelay, fmt.Sprintf("giving up on child %s after %d read failures", r.name, failures)).WithCause(err)
		}
		break
	}

	if tail := r.xform.Flush(); len(tail) > 0 && !writeFailed {
		if err := r.dst.WriteFlush(tail); err != nil {
			r.log.Warning("Failed to write child %s to caller: %v", r.name, err)
		}
	}
	return nil
}

// emit transforms a chunk and writes it. A chunk the transformer rejects is
// forwarded unmodified.
func (r *relay) emit(chunk []byte) error {
	out, err := r.xform.Transform(chunk)
	if err != nil {
		r.log.Warning("Failed to rewrite %s chunk, forwarding it unchanged: %v", r.name, err)
		out = chunk
	}
	if len(out) == 0 {
		return nil
	}
	return r.dst.WriteFlush(out)
}

// Filter relays src to dst through xform exactly as intercepted child stdout
// is relayed: chunked, flushed per chunk, with the held-back tail flushed at
// end of input.
func Filter(dst io.Writer, src io.Reader, xform Transformer, log *shimio.Logger) error {
	r := &relay{
		name:      "input",
		src:       src,
		dst:       shimio.NewSyncWriter(dst),
		xform:     xform,
		bufs:      pool.NewBufferPool(OutputChunkSize),
		log:       log,
		maxErrors: 3,
	}
	return r.run()
}
