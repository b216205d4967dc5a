package shim

import (
	"strings"
)

// Classifier decides which arguments name the legacy feature and whether an
// invocation is the feature-listing command whose output gets rewritten.
// Matching is case-insensitive and substring-based: a token that merely
// contains a legacy pattern anywhere is a match.
type Classifier struct {
	legacy []string // lowercased patterns
}

// NewClassifier builds the pattern set for a feature name: the /, - and
// unprefixed forms of "featurename:<feature>".
func NewClassifier(feature string) *Classifier {
	key := "featurename:" + strings.ToLower(feature)
	return &Classifier{legacy: []string{"/" + key, "-" + key, key}}
}

// IsLegacyFeatureArgument reports whether token names the legacy feature.
// Empty tokens never match.
func (c *Classifier) IsLegacyFeatureArgument(token string) bool {
	if c == nil || token == "" {
		return false
	}
	return guard(func() bool {
		lower := strings.ToLower(token)
		for _, p := range c.legacy {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	})
}

// CountLegacyOccurrences counts matching arguments, skipping the program name
// at index 0.
func (c *Classifier) CountLegacyOccurrences(invocation []string) int {
	n := 0
	for _, arg := range args(invocation) {
		if c.IsLegacyFeatureArgument(arg) {
			n++
		}
	}
	return n
}

// IsIntrospectionCommand reports whether the invocation carries all of
// /online, /english and /get-features (or their - forms) in any order.
// The get-features flag also matches as a substring so trailing qualifiers
// such as /get-features:table are tolerated.
func (c *Classifier) IsIntrospectionCommand(invocation []string) bool {
	return guard(func() bool {
		var online, english, features bool
		for _, arg := range args(invocation) {
			lower := strings.ToLower(arg)
			switch {
			case lower == "/online" || lower == "-online":
				online = true
			case lower == "/english" || lower == "-english":
				english = true
			case strings.Contains(lower, "/get-features") || strings.Contains(lower, "-get-features"):
				features = true
			}
		}
		return online && english && features
	})
}

// args returns the user-supplied part of an invocation.
func args(invocation []string) []string {
	if len(invocation) < 2 {
		return nil
	}
	return invocation[1:]
}

// guard runs a classification and degrades a panic to "no match".
func guard(fn func() bool) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
		}
	}()
	return fn()
}
