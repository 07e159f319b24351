package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asi-incubator/intake-cli/internal/model"
)

const sampleResponse = `Analyse du business plan soumis.

CRITÈRE 1: ÉQUIPE
- Équipe fondatrice identifiée: 2 - bien présentée
- Compétences complémentaires: 3 - profils variés
Score total critère 1: 7/10

CRITÈRE 2: PROBLÉMATIQUE IDENTIFIÉE
La problématique est claire.
Score total critère 2: 8/10

Score total: 72/100

Recommandations principales:
1. Renforcer l'analyse financière avec un P&L sur trois ans.
2. Détailler la stratégie de distribution sur le marché local.
`

func TestParseResponse_FullResponse(t *testing.T) {
	grid := DefaultGrid()

	res, err := ParseResponse(grid, sampleResponse, 1500*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, 72.0, res.TotalScore)
	assert.True(t, res.IsEligible)
	assert.Equal(t, model.MethodAIStructured, res.AnalysisMethod)
	assert.Equal(t, 90.0, res.ConfidenceScore)
	assert.InDelta(t, 1.5, res.ProcessingTime, 1e-9)
	require.Len(t, res.CriteriaResults, 12)

	assert.Equal(t, 7.0, res.CriteriaResults[0].EarnedPoints)
	assert.Equal(t, 8.0, res.CriteriaResults[1].EarnedPoints)
	assert.Zero(t, res.CriteriaResults[2].EarnedPoints, "criteria without a section parse to zero")

	require.Len(t, res.Recommendations, 2)
	assert.Contains(t, res.Recommendations[0], "P&L")
}

func TestParseResponse_SubScores(t *testing.T) {
	res, err := ParseResponse(DefaultGrid(), sampleResponse, 0)
	require.NoError(t, err)

	team := res.CriteriaResults[0]
	require.Len(t, team.SubScores, 3)
	assert.Equal(t, 2.0, team.SubScores[0].EarnedPoints)
	assert.Equal(t, 3.0, team.SubScores[1].EarnedPoints)
	assert.Zero(t, team.SubScores[2].EarnedPoints)
}

func TestCriterionSections_ScoreLineStaysInSection(t *testing.T) {
	// The lowercase "Score total critère N:" mention is not a header and
	// must not end or restart a section.
	sections := criterionSections(DefaultGrid(), sampleResponse)

	require.Contains(t, sections[1], "Score total critère 1: 7/10")
	require.Contains(t, sections[2], "Score total critère 2: 8/10")
	assert.NotContains(t, sections[1], "CRITÈRE 2")
}

func TestParseResponse_CriterionSumFallback(t *testing.T) {
	// No "Score total: X/100" line: the parser sums per-criterion scores.
	response := `CRITÈRE 1: ÉQUIPE
Score total critère 1: 6/10

CRITÈRE 4: SOLUTION
Score total critère 4: 11/15
`
	res, err := ParseResponse(DefaultGrid(), response, 0)
	require.NoError(t, err)
	assert.Equal(t, 17.0, res.TotalScore)
	assert.False(t, res.IsEligible)
}

func TestParseResponse_NoScoreIsAnError(t *testing.T) {
	_, err := ParseResponse(DefaultGrid(), "Je ne peux pas évaluer ce document.", 0)
	assert.Error(t, err)

	_, err = ParseResponse(DefaultGrid(), "   ", 0)
	assert.Error(t, err)
}

func TestParseResponse_ClampsTotal(t *testing.T) {
	res, err := ParseResponse(DefaultGrid(), "Score total: 140/100", 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.TotalScore)
}

func TestParseResponse_FallbackRecommendations(t *testing.T) {
	res, err := ParseResponse(DefaultGrid(), "Score total: 55/100", 0)
	require.NoError(t, err)
	assert.Equal(t, fallbackRecommendations, res.Recommendations)
	assert.False(t, res.IsEligible)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(DefaultGrid(), "Mon business plan.")

	assert.Contains(t, prompt, "CRITÈRE 1: ÉQUIPE (10 points)")
	assert.Contains(t, prompt, "CRITÈRE 12: STATUT JURIDIQUE DE L'ENTREPRISE (5 points)")
	assert.Contains(t, prompt, "Mon business plan.")
	assert.Contains(t, prompt, "50% des points")
}

func TestBuildPrompt_TruncatesLongText(t *testing.T) {
	long := make([]rune, 10000)
	for i := range long {
		long[i] = 'é'
	}
	prompt := BuildPrompt(DefaultGrid(), string(long))
	capped := BuildPrompt(DefaultGrid(), string(long[:8000]))
	assert.Equal(t, capped, prompt, "plan text capped at 8000 runes")
}
