// Package shim implements the DISM interception shim: it stands in for
// dism.exe, rewrites the legacy IIS-LegacySnapIn feature request into the
// modern management features, launches the real DISM and, for the English
// feature listing, rewrites the feature name back in its output.
package shim

import (
	"context"
	"strings"
	"time"

	shimio "github.com/dzonerzy/go-dismshim/io"
)

// Version is the shim's own version, printed in the audit banner.
const Version = "2.1"

const (
	// DefaultTarget is the real DISM, renamed at install time.
	DefaultTarget = "dism-origin.exe"
	// LegacyFeature is the feature the shim intercepts.
	LegacyFeature = "IIS-LegacySnapIn"
	// MaxCommandLine is the Windows command-line buffer size.
	MaxCommandLine = 32767
	// OutputChunkSize is the read size for relayed output.
	OutputChunkSize = 16384
)

// ReplacementFeatures returns the ordered arguments substituted for each
// legacy feature argument. A fresh slice is returned on every call.
func ReplacementFeatures() []string {
	return []string{
		"/featurename:IIS-ManagementScriptingTools",
		"/featurename:IIS-ManagementService",
	}
}

// FeatureListRewrite maps the modern feature name back to the legacy one in
// feature listings.
var FeatureListRewrite = RewriteRule{Old: "IIS-ManagementScriptingTools", New: LegacyFeature}

// Options configures a Shim. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Target         string
	LegacyFeature  string
	Replacements   []string
	Rewrite        RewriteRule
	MaxCommandLine int
	ChunkSize      int
	DrainTimeout   time.Duration
	MaxReadErrors  int

	// Env replaces the child's environment when non-nil.
	Env []string
	// Dir sets the child's working directory when non-empty.
	Dir string

	IO        *shimio.IOManager
	Logger    *shimio.Logger
	ExitCodes ExitCodes

	// OnState observes launcher state transitions.
	OnState func(State)
}

// DefaultOptions returns the compiled-in configuration bound to process stdio.
func DefaultOptions() Options {
	io := shimio.New()
	return Options{
		Target:         DefaultTarget,
		LegacyFeature:  LegacyFeature,
		Replacements:   ReplacementFeatures(),
		Rewrite:        FeatureListRewrite,
		MaxCommandLine: MaxCommandLine,
		ChunkSize:      OutputChunkSize,
		DrainTimeout:   5 * time.Second,
		MaxReadErrors:  3,
		IO:             io,
		Logger:         shimio.NewLogger(io),
		ExitCodes:      DefaultExitCodes(),
	}
}

// Plan is the classification of one invocation and the command line built
// from it.
type Plan struct {
	LegacyCount   int
	Introspection bool
	Command       *CommandLine
}

// Replace reports whether legacy arguments are being substituted.
func (p *Plan) Replace() bool { return p.LegacyCount > 0 }

// Shim wires the classifier, builder and launcher together.
type Shim struct {
	opts       Options
	log        *shimio.Logger
	classifier *Classifier
	builder    *Builder
	launcher   *Launcher
}

// New creates a Shim from opts.
func New(opts Options) *Shim {
	if opts.IO == nil {
		opts.IO = shimio.New()
	}
	if opts.Logger == nil {
		opts.Logger = shimio.NewLogger(opts.IO)
	}
	c := NewClassifier(opts.LegacyFeature)
	rule := opts.Rewrite
	return &Shim{
		opts:       opts,
		log:        opts.Logger,
		classifier: c,
		builder: &Builder{
			Target:       opts.Target,
			Replacements: append([]string(nil), opts.Replacements...),
			MaxLength:    opts.MaxCommandLine,
			Classifier:   c,
		},
		launcher: &Launcher{
			IO:            opts.IO,
			Log:           opts.Logger,
			Env:           opts.Env,
			Dir:           opts.Dir,
			Rewrite:       rule.Stream,
			ChunkSize:     opts.ChunkSize,
			DrainTimeout:  opts.DrainTimeout,
			MaxReadErrors: opts.MaxReadErrors,
			Codes:         opts.ExitCodes,
			OnState:       opts.OnState,
		},
	}
}

// Classifier exposes the shim's argument classifier.
func (s *Shim) Classifier() *Classifier { return s.classifier }

// Plan classifies invocation and builds the child command line without
// launching anything.
func (s *Shim) Plan(invocation []string) (*Plan, error) {
	p := &Plan{
		LegacyCount:   s.classifier.CountLegacyOccurrences(invocation),
		Introspection: s.classifier.IsIntrospectionCommand(invocation),
	}
	cl, err := s.builder.Build(invocation, p.Replace())
	if err != nil {
		return p, err
	}
	p.Command = cl
	return p, nil
}

// Run handles one invocation end to end. It returns nil when the child
// exited 0, an *ExitError carrying the child's non-zero code, or an *Error
// or *RecoveryError for a wrapper failure (already reported on stderr).
func (s *Shim) Run(ctx context.Context, invocation []string) (err error) {
	defer s.recoverRun(&err)

	s.log.Info("Version %s - IIS Legacy SnapIn Interceptor", Version)
	s.log.Info("Detected command: %s", strings.Join(invocation, " "))

	plan, err := s.Plan(invocation)
	if plan.Replace() {
		s.log.Info("Detected %d occurrence(s) of '%s'", plan.LegacyCount, s.opts.LegacyFeature)
		s.log.Info("Replacing with %d modern IIS management features", len(s.builder.Replacements))
	} else {
		s.log.Info("No legacy features detected in command line")
		if plan.Introspection {
			s.log.Info("Will intercept and modify /get-features output")
		}
	}
	if err != nil {
		if plan.Replace() {
			s.log.Error("Failed to build replacement command line: %v", err)
		} else {
			s.log.Error("Failed to build pass-through command line: %v", err)
		}
		return err
	}

	s.log.Info("Executing: %s", plan.Command.Line)
	if plan.Introspection {
		s.log.Info("Output will be intercepted and modified")
	}
	s.log.Blank()

	code, err := s.launcher.Launch(ctx, plan.Command, plan.Introspection)
	if err != nil {
		s.log.Error("%v", err)
		return err
	}
	if !plan.Introspection {
		s.log.Blank()
		if code == s.opts.ExitCodes.Success {
			s.log.Success("Process completed with exit code %d", code)
		} else {
			s.log.Info("Process completed with exit code %d", code)
		}
	}
	if code == s.opts.ExitCodes.Success {
		return nil
	}
	return &ExitError{Code: code}
}

// Exec runs invocation and resolves the outcome to a process exit code.
func (s *Shim) Exec(ctx context.Context, invocation []string) int {
	return s.opts.ExitCodes.Resolve(s.Run(ctx, invocation))
}
