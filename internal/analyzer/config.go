package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// EligibilityThreshold is the fixed score cutoff for incubation, out of 100.
const EligibilityThreshold = 60

// defaultGenericFactor scales word count for criteria without a
// dedicated heuristic.
const defaultGenericFactor = 0.01

// Config holds the engine's injected data and tunables.
type Config struct {
	Grid          []Criterion `yaml:"-" mapstructure:"-"`
	Lexicon       Lexicon     `yaml:"-" mapstructure:"-"`
	GenericFactor float64     `yaml:"generic_factor" mapstructure:"generic_factor"`
}

// DefaultConfig returns the standard grid, lexicon and tunables.
func DefaultConfig() Config {
	return Config{
		Grid:          DefaultGrid(),
		Lexicon:       DefaultLexicon(),
		GenericFactor: defaultGenericFactor,
	}
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	if len(c.Grid) == 0 {
		errs = append(errs, "grid must not be empty")
	}
	for _, crit := range c.Grid {
		if crit.MaxPoints <= 0 {
			errs = append(errs, fmt.Sprintf("criterion %d max_points must be > 0", crit.ID))
		}
		var subSum float64
		for _, sub := range crit.SubCriteria {
			subSum += sub.Points
		}
		if len(crit.SubCriteria) > 0 && math.Abs(subSum-crit.MaxPoints) > 1e-9 {
			errs = append(errs, fmt.Sprintf("criterion %d sub-criteria sum to %.1f, want %.1f", crit.ID, subSum, crit.MaxPoints))
		}
	}

	// The grid must total 100 points.
	if sum := GridMax(c.Grid); len(c.Grid) > 0 && math.Abs(sum-100) > 1e-9 {
		errs = append(errs, fmt.Sprintf("grid maxima should sum to 100, got %.1f", sum))
	}

	if len(c.Lexicon) == 0 {
		errs = append(errs, "lexicon must not be empty")
	}
	for cat, terms := range c.Lexicon {
		if len(terms) == 0 {
			errs = append(errs, fmt.Sprintf("lexicon category %q has no terms", cat))
		}
	}

	if c.GenericFactor <= 0 {
		errs = append(errs, "generic_factor must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("analyzer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
