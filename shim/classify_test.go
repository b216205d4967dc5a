package shim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_LegacyForms(t *testing.T) {
	c := NewClassifier(LegacyFeature)
	for _, tok := range []string{
		"/FeatureName:IIS-LegacySnapIn",
		"-featurename:iis-legacysnapin",
		"featurename:IIS-LegacySnapIn",
		"/FEATURENAME:IIS-LEGACYSNAPIN",
		// broad match: the pattern anywhere inside a longer token
		"/x:/featurename:IIS-LegacySnapIn/extra",
	} {
		assert.True(t, c.IsLegacyFeatureArgument(tok), tok)
	}
	for _, tok := range []string{
		"",
		"IIS-LegacySnapIn",
		"/featurename:IIS-ManagementService",
		"/featurename IIS-LegacySnapIn",
	} {
		assert.False(t, c.IsLegacyFeatureArgument(tok), tok)
	}
}

func TestClassifier_NilIsNoMatch(t *testing.T) {
	var c *Classifier
	assert.False(t, c.IsLegacyFeatureArgument("/featurename:IIS-LegacySnapIn"))
	assert.Zero(t, c.CountLegacyOccurrences([]string{"dism", "/featurename:IIS-LegacySnapIn"}))
}

func TestClassifier_CountSkipsProgramName(t *testing.T) {
	c := NewClassifier(LegacyFeature)
	inv := []string{
		"featurename:IIS-LegacySnapIn", // argv[0] never counts
		"/online",
		"/enable-feature",
		"/featurename:IIS-LegacySnapIn",
		"/all",
		"-FeatureName:IIS-LegacySnapIn",
	}
	assert.Equal(t, 2, c.CountLegacyOccurrences(inv))
	assert.Zero(t, c.CountLegacyOccurrences(nil))
	assert.Zero(t, c.CountLegacyOccurrences([]string{"dism"}))
}

func TestClassifier_Introspection(t *testing.T) {
	c := NewClassifier(LegacyFeature)
	full := []string{"/online", "/english", "/get-features"}

	orders := [][]string{
		{"/online", "/english", "/get-features"},
		{"/get-features", "/online", "/english"},
		{"/ENGLISH", "-Get-Features", "-online"},
		{"/online", "/english", "/get-features:table", "/format:list"},
	}
	for _, o := range orders {
		assert.True(t, c.IsIntrospectionCommand(append([]string{"dism"}, o...)), o)
	}

	for drop := range full {
		var partial []string
		for i, a := range full {
			if i != drop {
				partial = append(partial, a)
			}
		}
		assert.False(t, c.IsIntrospectionCommand(append([]string{"dism"}, partial...)), partial)
	}

	// flags in argv[0] position do not count
	assert.False(t, c.IsIntrospectionCommand([]string{"/online", "/english", "/get-features"}))
	// /online must match exactly
	assert.False(t, c.IsIntrospectionCommand([]string{"dism", "/online:yes", "/english", "/get-features"}))
}

func TestGuard_RecoversToNoMatch(t *testing.T) {
	assert.False(t, guard(func() bool { panic("boom") }))
	assert.True(t, guard(func() bool { return true }))
}
