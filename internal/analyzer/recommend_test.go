package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asi-incubator/intake-cli/internal/model"
)

func criterionAt(id int, earned, max float64) model.CriterionResult {
	return model.CriterionResult{CriterionID: id, MaxPoints: max, EarnedPoints: earned}
}

func TestRecPriority(t *testing.T) {
	tests := []struct {
		name string
		w    weakCriterion
		want string
	}{
		{"heavy criterion, deep shortfall", weakCriterion{maxPoints: 10, performance: 20}, PriorityCritical},
		{"heavy criterion, moderate shortfall", weakCriterion{maxPoints: 15, performance: 55}, PriorityHigh},
		{"light criterion, deep shortfall", weakCriterion{maxPoints: 5, performance: 30}, PriorityHigh},
		{"light criterion, mid shortfall", weakCriterion{maxPoints: 5, performance: 55}, PriorityMedium},
		{"light criterion, mild shortfall", weakCriterion{maxPoints: 5, performance: 65}, PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recPriority(tt.w))
		})
	}
}

func TestGenerateRecommendations_RanksByWeightedDeficit(t *testing.T) {
	// Criterion 4 (max 15) at zero outweighs criterion 12 (max 5) at zero.
	results := []model.CriterionResult{
		criterionAt(12, 0, 5),
		criterionAt(4, 0, 15),
	}

	recs := generateRecommendations(results, Features{WordCount: 2000, Currency: 1, ProfessionalTerms: 10})
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "Clarification de la proposition de valeur")
}

func TestGenerateRecommendations_CapSix(t *testing.T) {
	var results []model.CriterionResult
	for _, c := range DefaultGrid() {
		results = append(results, criterionAt(c.ID, 0, c.MaxPoints))
	}

	recs := generateRecommendations(results, Features{})
	assert.LessOrEqual(t, len(recs), 6)
	assert.GreaterOrEqual(t, len(recs), 5, "five specific recommendations from weak criteria")
}

func TestGenerateRecommendations_EmbedsFigures(t *testing.T) {
	results := []model.CriterionResult{criterionAt(1, 2.5, 10)}

	recs := generateRecommendations(results, Features{WordCount: 2000, Currency: 1, ProfessionalTerms: 10})
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "2.5/10")
	assert.True(t, strings.HasPrefix(recs[0], PriorityCritical),
		"max 10 at 25%% performance is critical, got %q", recs[0])
}

func TestGenerateRecommendations_StrongPlanGetsGenerals(t *testing.T) {
	// All criteria above 70%: no specific recommendations.
	var results []model.CriterionResult
	for _, c := range DefaultGrid() {
		results = append(results, criterionAt(c.ID, c.MaxPoints*0.9, c.MaxPoints))
	}

	recs := generateRecommendations(results, Features{WordCount: 900, Currency: 0, ProfessionalTerms: 2})
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.NotContains(t, rec, "/10.", "no criterion-specific recommendations expected")
	}
	// Word count, currency and professional-term triggers all fire; the
	// score trigger does not (total is 90).
	assert.Len(t, recs, 3)
}

func TestGeneralRecommendations_Triggers(t *testing.T) {
	recs := generalRecommendations(Features{WordCount: 100, Currency: 0, ProfessionalTerms: 0}, 10)
	assert.Len(t, recs, 4, "all four global triggers fire")

	recs = generalRecommendations(Features{WordCount: 3000, Currency: 2, ProfessionalTerms: 9}, 80)
	assert.Empty(t, recs)
}
