package analyzer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asi-incubator/intake-cli/internal/model"
)

const (
	maxPossibleScore = 100
	ruleConfidence   = 85.0
)

// Engine evaluates business plan text against the validation grid.
// Evaluation is pure computation: no I/O, no shared state, and identical
// input always produces identical scores.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the given config.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Grid returns the validation grid the engine scores against.
func (e *Engine) Grid() []Criterion {
	return e.cfg.Grid
}

// Evaluate scores the text against all twelve criteria and assembles the
// full analysis result. Degenerate input (empty or whitespace-only)
// yields an all-zero, ineligible result with general recommendations; it
// never fails.
func (e *Engine) Evaluate(text string) *model.AnalysisResult {
	start := time.Now()

	lower := strings.ToLower(text)
	feats := ExtractFeatures(text, e.cfg.Lexicon)

	results := make([]model.CriterionResult, 0, len(e.cfg.Grid))
	var total float64
	for _, criterion := range e.cfg.Grid {
		r := e.evaluateCriterion(criterion, lower, feats)
		results = append(results, r)
		total += r.EarnedPoints
	}

	isEligible := total >= EligibilityThreshold

	analysis := &model.AnalysisResult{
		TotalScore:       total,
		MaxPossibleScore: maxPossibleScore,
		Threshold:        EligibilityThreshold,
		IsEligible:       isEligible,
		EvaluationDate:   time.Now().UTC(),
		CriteriaResults:  results,
		Summary:          Summary(total, isEligible),
		Recommendations:  generateRecommendations(results, feats),
		AnalysisMethod:   model.MethodRuleBased,
		ConfidenceScore:  ruleConfidence,
		ProcessingTime:   time.Since(start).Seconds(),
	}

	zap.L().Info("analyzer: rule-based analysis complete",
		zap.Float64("total_score", total),
		zap.Bool("is_eligible", isEligible),
		zap.Int("word_count", feats.WordCount),
		zap.Int("recommendations", len(analysis.Recommendations)),
	)

	return analysis
}

// evaluateCriterion applies the criterion-specific formula, caps the
// result at the criterion maximum, and distributes sub-scores
// proportionally.
func (e *Engine) evaluateCriterion(c Criterion, lower string, feats Features) model.CriterionResult {
	var raw float64
	var reasoning string

	switch c.ID {
	case 1: // Équipe
		raw = float64(feats.TeamTerms) * 0.3
		reasoning = fmt.Sprintf("Team indicators found: %d", feats.TeamTerms)
	case 2: // Problématique
		n := strings.Count(lower, "problème") + strings.Count(lower, "problem") + strings.Count(lower, "besoin")
		raw = float64(n) * 2
		reasoning = fmt.Sprintf("Problem indicators: %d", n)
	case 4: // Solution & Valeur ajoutée
		n := strings.Count(lower, "solution") + strings.Count(lower, "innovation")
		raw = float64(n) * 1.5
		reasoning = fmt.Sprintf("Solution indicators: %d", n)
	case 10: // Modèle de business
		n := feats.FinancialTerms
		if feats.Currency > 0 {
			n += 3
		}
		raw = float64(n) * 0.8
		reasoning = fmt.Sprintf("Business model indicators: %d", n)
	case 11: // Financements
		n := feats.FinancialTerms + feats.Currency + feats.Percentages
		raw = float64(n) * 0.6
		reasoning = fmt.Sprintf("Financial indicators: %d", n)
	default:
		// No dedicated heuristic: score from document length. A weak
		// signal, kept deliberately.
		raw = float64(feats.WordCount) * e.cfg.GenericFactor
		reasoning = fmt.Sprintf("Generic length-based scoring: %d words", feats.WordCount)
	}

	earned := math.Min(math.Max(raw, 0), c.MaxPoints)

	return model.CriterionResult{
		CriterionID:   c.ID,
		CriterionName: c.Name,
		MaxPoints:     c.MaxPoints,
		EarnedPoints:  earned,
		Reasoning:     reasoning,
		SubScores:     distributeSubScores(c, earned),
	}
}

// distributeSubScores spreads earned points across sub-criteria in
// proportion to their allocations. Sub-scores are display breakdowns,
// never independent evaluations.
func distributeSubScores(c Criterion, earned float64) []model.SubScore {
	subs := make([]model.SubScore, 0, len(c.SubCriteria))
	for _, sub := range c.SubCriteria {
		var share float64
		if c.MaxPoints > 0 {
			share = earned / c.MaxPoints * sub.Points
		}
		subs = append(subs, model.SubScore{
			Name:         sub.Name,
			MaxPoints:    sub.Points,
			EarnedPoints: share,
			Description:  sub.Description,
		})
	}
	return subs
}

// Summary renders the decision line for a total score.
func Summary(total float64, isEligible bool) string {
	if isEligible {
		return fmt.Sprintf("Business plan évalué à %.1f/100. Score ≥ 60/100. ACCEPTÉ pour l'incubation.", total)
	}
	return fmt.Sprintf("Business plan évalué à %.1f/100. Score < 60/100. REFUSÉ pour l'incubation. Améliorations nécessaires.", total)
}
