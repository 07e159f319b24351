package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/asi-incubator/intake-cli/internal/model"
)

const aiConfidence = 90.0

var (
	totalScorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Score total:\s*(\d+(?:\.\d+)?)/100`),
		regexp.MustCompile(`(?i)Score total:\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)/100`),
	}
	recommendBlockRe = regexp.MustCompile(`(?is)Recommandations principales:\s*(.*?)(\n\n|$)`)
	recommendSplitRe = regexp.MustCompile(`\d+\.\s*`)
)

// fallbackRecommendations is used when a model response carries no
// extractable recommendation block.
var fallbackRecommendations = []string{
	"Améliorer les critères avec les scores les plus faibles",
	"Fournir plus de données quantitatives",
	"Structurer davantage le plan de développement",
}

// ParseResponse parses a model's free-text evaluation into an
// AnalysisResult. It is best-effort but explicitly fallible: a response
// without any recognizable score yields an error, never a silent zero
// result. Callers fall back to the rule-based engine on failure.
func ParseResponse(grid []Criterion, content string, duration time.Duration) (*model.AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, eris.New("analyzer: empty model response")
	}

	sections := criterionSections(grid, content)

	total, found := extractTotalScore(content)
	if !found {
		total, found = sumCriterionScores(grid, sections)
	}
	if !found {
		return nil, eris.New("analyzer: response contains no parseable score")
	}

	results := make([]model.CriterionResult, 0, len(grid))
	for _, c := range grid {
		results = append(results, parseCriterion(c, sections[c.ID]))
	}

	isEligible := total >= EligibilityThreshold

	return &model.AnalysisResult{
		TotalScore:       total,
		MaxPossibleScore: maxPossibleScore,
		Threshold:        EligibilityThreshold,
		IsEligible:       isEligible,
		EvaluationDate:   time.Now().UTC(),
		CriteriaResults:  results,
		Summary:          Summary(total, isEligible),
		Recommendations:  extractRecommendations(content),
		AnalysisMethod:   model.MethodAIStructured,
		ConfidenceScore:  aiConfidence,
		ProcessingTime:   duration.Seconds(),
	}, nil
}

func extractTotalScore(content string) (float64, bool) {
	for _, re := range totalScorePatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return math.Min(math.Max(v, 0), 100), true
		}
	}
	return 0, false
}

// criterionHeaderIndex locates the uppercase "CRITÈRE <id>:" header.
// Matching stays case-sensitive: the lowercase "Score total critère N:"
// lines inside a section must not be mistaken for headers.
func criterionHeaderIndex(content string, id int) []int {
	re := regexp.MustCompile(fmt.Sprintf(`CRITÈRE\s+%d\s*:`, id))
	return re.FindStringIndex(content)
}

// criterionSections slices the response into per-criterion text spans,
// keyed by criterion id. Each span runs from its own header to the next
// criterion's header, so the score line stays inside the span.
func criterionSections(grid []Criterion, content string) map[int]string {
	sections := make(map[int]string, len(grid))
	for _, c := range grid {
		start := criterionHeaderIndex(content, c.ID)
		if start == nil {
			continue
		}
		end := len(content)
		if next := criterionHeaderIndex(content[start[1]:], c.ID+1); next != nil {
			end = start[1] + next[0]
		}
		sections[c.ID] = content[start[0]:end]
	}
	return sections
}

func sumCriterionScores(grid []Criterion, sections map[int]string) (float64, bool) {
	var total float64
	var any bool
	for _, c := range grid {
		if v, ok := extractCriterionScore(sections[c.ID], c.MaxPoints); ok {
			total += v
			any = true
		}
	}
	return total, any
}

func extractCriterionScore(section string, maxPoints float64) (float64, bool) {
	if section == "" {
		return 0, false
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?is)Score total critère.*?(\d+(?:\.\d+)?)/%.0f`, maxPoints))
	m := re.FindStringSubmatch(section)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return math.Min(math.Max(v, 0), maxPoints), true
}

func extractSubScore(section, subName string) float64 {
	if section == "" {
		return 0
	}
	re := regexp.MustCompile(`(?is)` + regexp.QuoteMeta(subName) + `.*?(\d+(?:\.\d+)?)\s*-`)
	m := re.FindStringSubmatch(section)
	if m == nil {
		return 0
	}
	v, _ := strconv.ParseFloat(m[1], 64)
	return v
}

func parseCriterion(c Criterion, section string) model.CriterionResult {
	earned, _ := extractCriterionScore(section, c.MaxPoints)

	subs := make([]model.SubScore, 0, len(c.SubCriteria))
	for _, sub := range c.SubCriteria {
		subs = append(subs, model.SubScore{
			Name:         sub.Name,
			MaxPoints:    sub.Points,
			EarnedPoints: extractSubScore(section, sub.Name),
			Description:  sub.Description,
		})
	}

	reasoning := section
	if len([]rune(reasoning)) > 200 {
		reasoning = truncateRunes(reasoning, 200) + "..."
	}

	return model.CriterionResult{
		CriterionID:   c.ID,
		CriterionName: c.Name,
		MaxPoints:     c.MaxPoints,
		EarnedPoints:  earned,
		Reasoning:     reasoning,
		SubScores:     subs,
	}
}

func extractRecommendations(content string) []string {
	var recs []string

	if m := recommendBlockRe.FindStringSubmatch(content); m != nil {
		for _, part := range recommendSplitRe.Split(m[1], -1) {
			part = strings.TrimSpace(part)
			if len(part) > 10 {
				recs = append(recs, part)
			}
		}
	}

	if len(recs) == 0 {
		recs = append(recs, fallbackRecommendations...)
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}
