package shim

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// CommandLine is the rebuilt invocation of the target executable.
type CommandLine struct {
	// Target is the executable name the line starts with.
	Target string
	// Args are the child's arguments in order, unquoted.
	Args []string
	// Line is Target followed by every argument, each quoted for the child's
	// parser and separated by single spaces.
	Line string
}

// Len is the length of Line in UTF-16 code units, the unit Windows measures
// command lines in.
func (c *CommandLine) Len() int { return utf16Len(c.Line) }

// Builder rebuilds an invocation for the target, expanding every legacy
// feature argument into the full replacement set when asked to.
type Builder struct {
	Target       string
	Replacements []string
	// MaxLength is the platform's command-line buffer size in UTF-16 code
	// units, terminator included: the longest accepted Line is MaxLength-1
	// units. Zero disables the ceiling.
	MaxLength  int
	Classifier *Classifier
}

// Build produces the child command line. Index 0 of invocation is the shim's
// own name and is replaced by Target. With doReplace set, each argument the
// classifier matches is replaced in place by all of Replacements, in order.
// Build never truncates: an over-long result is an ErrCommandLineTooLong.
func (b *Builder) Build(invocation []string, doReplace bool) (*CommandLine, error) {
	user := args(invocation)
	out := make([]string, 0, len(user)+len(b.Replacements))
	line := cappedBuilder{limit: b.MaxLength}

	if err := line.append(QuoteArgument(b.Target)); err != nil {
		return nil, b.tooLong(err)
	}
	for _, arg := range user {
		tokens := []string{arg}
		if doReplace && b.Classifier.IsLegacyFeatureArgument(arg) {
			tokens = b.Replacements
		}
		for _, tok := range tokens {
			if err := line.append(" ", QuoteArgument(tok)); err != nil {
				return nil, b.tooLong(err)
			}
			out = append(out, tok)
		}
	}
	return &CommandLine{Target: b.Target, Args: out, Line: line.String()}, nil
}

func (b *Builder) tooLong(err error) error {
	return NewError(ErrorTypeConstruction,
		fmt.Sprintf("rebuilt command line exceeds %d characters", b.MaxLength-1)).WithCause(err)
}

// QuoteArgument returns arg unchanged unless it contains a space or a double
// quote. Otherwise it is wrapped in double quotes, embedded quotes are escaped
// with a backslash, and backslashes that precede a quote (or the closing
// quote) are doubled so the child's tokenizer reads them back literally.
func QuoteArgument(arg string) string {
	if !strings.ContainsAny(arg, " \"") {
		return arg
	}
	var b strings.Builder
	b.Grow(len(arg) + 2)
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		switch c {
		case '\\':
			slashes++
			continue
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes*2+1))
			b.WriteByte('"')
		default:
			b.WriteString(strings.Repeat(`\`, slashes))
			b.WriteByte(c)
		}
		slashes = 0
	}
	b.WriteString(strings.Repeat(`\`, slashes*2))
	b.WriteByte('"')
	return b.String()
}

// cappedBuilder is a strings.Builder that refuses to grow past limit-1
// UTF-16 code units.
type cappedBuilder struct {
	strings.Builder
	limit int
	units int
}

func (c *cappedBuilder) append(parts ...string) error {
	n := 0
	for _, p := range parts {
		n += utf16Len(p)
	}
	if c.limit > 0 && c.units+n >= c.limit {
		return ErrCommandLineTooLong
	}
	for _, p := range parts {
		c.WriteString(p)
	}
	c.units += n
	return nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
