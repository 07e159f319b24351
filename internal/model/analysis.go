package model

import "time"

// Analysis methods.
const (
	MethodRuleBased    = "rule_based_comprehensive"
	MethodAIStructured = "ai_structured"
)

// SubScore is the breakdown of one sub-criterion. Earned points are
// distributed proportionally from the parent criterion, never computed
// independently.
type SubScore struct {
	Name         string  `json:"name"`
	MaxPoints    float64 `json:"max_points"`
	EarnedPoints float64 `json:"earned_points"`
	Description  string  `json:"description"`
}

// CriterionResult is the scored outcome for one rubric criterion.
type CriterionResult struct {
	CriterionID   int        `json:"criterion_id"`
	CriterionName string     `json:"criterion_name"`
	MaxPoints     float64    `json:"max_points"`
	EarnedPoints  float64    `json:"earned_points"`
	Reasoning     string     `json:"reasoning"`
	SubScores     []SubScore `json:"sub_scores"`
}

// Performance returns earned/max as a percentage, 0 when max is 0.
func (r CriterionResult) Performance() float64 {
	if r.MaxPoints <= 0 {
		return 0
	}
	return r.EarnedPoints / r.MaxPoints * 100
}

// AnalysisResult is the complete evaluation of one business plan.
// All twelve criteria are always present, in grid order.
type AnalysisResult struct {
	TotalScore       float64           `json:"total_score"`
	MaxPossibleScore int               `json:"max_possible_score"`
	Threshold        int               `json:"threshold"`
	IsEligible       bool              `json:"is_eligible"`
	EvaluationDate   time.Time         `json:"evaluation_date"`
	CriteriaResults  []CriterionResult `json:"criteria_results"`
	Summary          string            `json:"summary"`
	Recommendations  []string          `json:"recommendations"`
	AnalysisMethod   string            `json:"analysis_method"`
	ConfidenceScore  float64           `json:"confidence_score"`
	ProcessingTime   float64           `json:"processing_time"`
}
