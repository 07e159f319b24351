package analyzer

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
	return NewEngine(cfg)
}

// densePlan builds a keyword-rich synthetic business plan of roughly n words.
func densePlan(n int) string {
	block := "Executive summary: our team of founder and management brings experience and expertise. " +
		"The problem and besoin we solve is real. Our solution brings innovation and technology. " +
		"The market segment and target customer demand our product and service. " +
		"Our strategy and plan has a clear milestone and timeline for execution. " +
		"Revenue, profit and funding: budget of $500,000 with 15% growth and strong roi. " +
		"Risk and mitigation are covered by analysis, research, metrics and kpi assessment. " +
		"An excellent, innovative, scalable and profitable business model with limited unclear parts. "
	var b strings.Builder
	for len(strings.Fields(b.String())) < n {
		b.WriteString(block)
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestEvaluate_InvariantsHoldForVariedInputs(t *testing.T) {
	eng := newTestEngine(t)

	inputs := []string{
		"",
		"short note",
		"team team founder",
		densePlan(500),
		densePlan(5000),
	}

	for _, text := range inputs {
		res := eng.Evaluate(text)

		require.Len(t, res.CriteriaResults, 12, "all twelve criteria must always be present")

		var sum float64
		for _, cr := range res.CriteriaResults {
			assert.GreaterOrEqual(t, cr.EarnedPoints, 0.0)
			assert.LessOrEqual(t, cr.EarnedPoints, cr.MaxPoints)
			sum += cr.EarnedPoints

			var subSum float64
			for _, sub := range cr.SubScores {
				subSum += sub.EarnedPoints
			}
			assert.InDelta(t, cr.EarnedPoints, subSum, 1e-9,
				"criterion %d sub-scores must distribute the earned points", cr.CriterionID)
		}
		assert.InDelta(t, res.TotalScore, sum, 1e-9)
		assert.Equal(t, res.TotalScore >= 60, res.IsEligible)
		assert.Equal(t, 100, res.MaxPossibleScore)
		assert.Equal(t, 60, res.Threshold)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	eng := newTestEngine(t)
	text := densePlan(800)

	first := eng.Evaluate(text)
	second := eng.Evaluate(text)

	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Equal(t, first.IsEligible, second.IsEligible)
	assert.Equal(t, first.CriteriaResults, second.CriteriaResults)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestEvaluate_EmptyInput(t *testing.T) {
	eng := newTestEngine(t)

	res := eng.Evaluate("")

	assert.Zero(t, res.TotalScore)
	assert.False(t, res.IsEligible)
	assert.NotEmpty(t, res.Recommendations, "degenerate input still gets rework recommendations")
	assert.Contains(t, res.Summary, "REFUSÉ")
	for _, cr := range res.CriteriaResults {
		assert.Zero(t, cr.EarnedPoints)
	}
}

func TestEvaluate_TeamCriterion(t *testing.T) {
	eng := newTestEngine(t)

	res := eng.Evaluate("team team founder")

	team := res.CriteriaResults[0]
	assert.Equal(t, 1, team.CriterionID)
	assert.InDelta(t, 0.9, team.EarnedPoints, 1e-9, "three team markers at 0.3 each")
	assert.LessOrEqual(t, team.EarnedPoints, 10.0)

	// Every other criterion sits at its generic word-count fallback (or
	// zero for the keyword-specific ones).
	generic := 3 * 0.01
	for _, cr := range res.CriteriaResults[1:] {
		switch cr.CriterionID {
		case 2, 4, 10, 11:
			assert.Zero(t, cr.EarnedPoints, "criterion %d has no markers in this text", cr.CriterionID)
		default:
			assert.InDelta(t, generic, cr.EarnedPoints, 1e-9, "criterion %d", cr.CriterionID)
		}
	}
}

func TestEvaluate_FinancialSignalsRaiseScores(t *testing.T) {
	eng := newTestEngine(t)

	with := eng.Evaluate("We expect revenue revenue revenue of $500,000 within a 15% margin.")
	without := eng.Evaluate("We expect steady results within a comfortable margin soon enough here.")

	businessWith := with.CriteriaResults[9]
	businessWithout := without.CriteriaResults[9]
	financingWith := with.CriteriaResults[10]
	financingWithout := without.CriteriaResults[10]

	require.Equal(t, 10, businessWith.CriterionID)
	require.Equal(t, 11, financingWith.CriterionID)

	assert.Greater(t, businessWith.EarnedPoints, businessWithout.EarnedPoints)
	assert.Greater(t, financingWith.EarnedPoints, financingWithout.EarnedPoints)
	assert.InDelta(t, (3+3)*0.8, businessWith.EarnedPoints, 1e-9)
	assert.InDelta(t, (3+1+1)*0.6, financingWith.EarnedPoints, 1e-9)
}

func TestEvaluate_DensePlanIsEligible(t *testing.T) {
	eng := newTestEngine(t)

	res := eng.Evaluate(densePlan(5000))

	assert.GreaterOrEqual(t, res.TotalScore, 60.0)
	assert.True(t, res.IsEligible)
	assert.Contains(t, res.Summary, "ACCEPTÉ")
}

func TestEvaluate_GenericFallbackCapped(t *testing.T) {
	eng := newTestEngine(t)

	// 5000 words puts the raw generic score at 50, far above every cap.
	res := eng.Evaluate(densePlan(5000))
	for _, cr := range res.CriteriaResults {
		switch cr.CriterionID {
		case 3, 5, 6, 7, 12:
			assert.InDelta(t, 5.0, cr.EarnedPoints, 1e-9, "criterion %d capped at 5", cr.CriterionID)
		case 8, 9:
			assert.InDelta(t, 10.0, cr.EarnedPoints, 1e-9, "criterion %d capped at 10", cr.CriterionID)
		}
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"Business plan évalué à 72.5/100. Score ≥ 60/100. ACCEPTÉ pour l'incubation.",
		Summary(72.5, true))
	assert.Equal(t,
		"Business plan évalué à 41.0/100. Score < 60/100. REFUSÉ pour l'incubation. Améliorations nécessaires.",
		Summary(41, false))
}

func TestDefaultGrid(t *testing.T) {
	grid := DefaultGrid()
	require.Len(t, grid, 12)
	assert.InDelta(t, 100.0, GridMax(grid), 1e-9)

	for _, c := range grid {
		var subSum float64
		for _, sub := range c.SubCriteria {
			subSum += sub.Points
		}
		assert.True(t, math.Abs(subSum-c.MaxPoints) < 1e-9,
			fmt.Sprintf("criterion %d sub points must sum to %.0f", c.ID, c.MaxPoints))
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))

	bad := DefaultConfig()
	bad.GenericFactor = 0
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.Grid = bad.Grid[:11]
	assert.Error(t, ValidateConfig(bad), "grid no longer sums to 100")

	bad = DefaultConfig()
	bad.Lexicon = Lexicon{}
	assert.Error(t, ValidateConfig(bad))
}
