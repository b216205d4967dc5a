package shim

import (
	"bytes"
)

// Transformer rewrites a stream chunk by chunk. Transform may keep a tail of
// its input back for the next call; Flush returns whatever is still held at
// end of stream. On error Transform must not have consumed the chunk, so the
// caller can forward the original bytes instead.
type Transformer interface {
	Transform(chunk []byte) ([]byte, error)
	Flush() []byte
}

// RewriteRule is a literal substring substitution.
type RewriteRule struct {
	Old string
	New string
}

// Apply replaces every occurrence of Old in text. It is the stateless form of
// the rule, used where the whole text is at hand.
func (r RewriteRule) Apply(text []byte) ([]byte, error) {
	if r.Old == "" {
		return nil, ErrEmptyPattern
	}
	return bytes.ReplaceAll(text, []byte(r.Old), []byte(r.New)), nil
}

// Stream returns a Transformer applying the rule to a chunked stream. An
// occurrence split across two chunks is still replaced: a trailing partial
// match is held back until the next chunk shows whether it completes.
func (r RewriteRule) Stream() Transformer {
	return &streamRewriter{old: []byte(r.Old), new: []byte(r.New)}
}

type streamRewriter struct {
	old, new []byte
	pending  []byte
}

func (s *streamRewriter) Transform(chunk []byte) ([]byte, error) {
	if len(s.old) == 0 {
		return nil, ErrEmptyPattern
	}
	data := chunk
	if len(s.pending) > 0 {
		data = append(append(make([]byte, 0, len(s.pending)+len(chunk)), s.pending...), chunk...)
	}

	out := make([]byte, 0, len(data))
	rest := data
	for {
		i := bytes.Index(rest, s.old)
		if i < 0 {
			break
		}
		out = append(out, rest[:i]...)
		out = append(out, s.new...)
		rest = rest[i+len(s.old):]
	}

	hold := partialSuffix(rest, s.old)
	out = append(out, rest[:len(rest)-hold]...)
	s.pending = append(s.pending[:0], rest[len(rest)-hold:]...)
	return out, nil
}

func (s *streamRewriter) Flush() []byte {
	p := s.pending
	s.pending = nil
	return p
}

// partialSuffix returns the length of the longest suffix of data that is a
// proper prefix of pattern.
func partialSuffix(data, pattern []byte) int {
	longest := len(pattern) - 1
	if longest > len(data) {
		longest = len(data)
	}
	for n := longest; n > 0; n-- {
		if bytes.Equal(data[len(data)-n:], pattern[:n]) {
			return n
		}
	}
	return 0
}

// passthrough forwards chunks unchanged; used for stderr.
type passthrough struct{}

func (passthrough) Transform(chunk []byte) ([]byte, error) { return chunk, nil }
func (passthrough) Flush() []byte                         { return nil }
