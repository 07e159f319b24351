package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asi-incubator/intake-cli/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		TotalScore:       72.5,
		MaxPossibleScore: 100,
		Threshold:        60,
		IsEligible:       true,
		EvaluationDate:   time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Summary:          "Business plan évalué à 72.5/100. Score ≥ 60/100. ACCEPTÉ pour l'incubation.",
		CriteriaResults: []model.CriterionResult{
			{CriterionID: 1, CriterionName: "Équipe", MaxPoints: 10, EarnedPoints: 7.5},
			{CriterionID: 2, CriterionName: "Problématique identifiée", MaxPoints: 10, EarnedPoints: 8},
		},
		Recommendations: []string{
			"MOYENNE - Équipe: Renforcer la présentation de l'équipe (score actuel: 7.5/10).",
		},
	}
}

func TestGenerate_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir)

	cand := &model.Candidature{
		ID:           "cand-123",
		BusinessName: "TechVert SARL",
		ContactName:  "Amina B.",
	}

	path, err := g.Generate(cand, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rapport_cand-123.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 500, "pdf should not be empty")
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerate_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	g := NewGenerator(dir)

	path, err := g.Generate(&model.Candidature{ID: "x", BusinessName: "P"}, sampleResult())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestGenerate_IneligibleResult(t *testing.T) {
	g := NewGenerator(t.TempDir())

	res := sampleResult()
	res.TotalScore = 35
	res.IsEligible = false
	res.Recommendations = nil

	path, err := g.Generate(&model.Candidature{ID: "y", BusinessName: "P"}, res)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestScoreColor(t *testing.T) {
	r, g, b := scoreColor(75)
	assert.Equal(t, [3]int{40, 167, 69}, [3]int{r, g, b})

	r, g, b = scoreColor(45)
	assert.Equal(t, [3]int{253, 126, 20}, [3]int{r, g, b})

	r, g, b = scoreColor(10)
	assert.Equal(t, [3]int{220, 53, 69}, [3]int{r, g, b})
}
