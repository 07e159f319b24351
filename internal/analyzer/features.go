package analyzer

import (
	"regexp"
	"strings"
)

var (
	sentenceRe = regexp.MustCompile(`[.!?]+`)
	numberRe   = regexp.MustCompile(`\d+`)
	percentRe  = regexp.MustCompile(`\d+%`)
	currencyRe = regexp.MustCompile(`[$€£]\s*[\d,]+`)
)

// Section header phrases that indicate a structured document.
var sectionMarkers = []string{
	"executive summary", "market analysis", "financial", "business model", "strategy",
}

// Features holds the signals extracted from a plan's text, consumed by
// the criterion scoring formulas.
type Features struct {
	TextLength     int `json:"text_length"`
	WordCount      int `json:"word_count"`
	SentenceCount  int `json:"sentence_count"`
	ParagraphCount int `json:"paragraph_count"`

	FinancialTerms    int `json:"financial_terms"`
	MarketTerms       int `json:"market_terms"`
	StrategyTerms     int `json:"strategy_terms"`
	TeamTerms         int `json:"team_terms"`
	ProductTerms      int `json:"product_terms"`
	RiskTerms         int `json:"risk_terms"`
	ProfessionalTerms int `json:"professional_terms"`
	PositiveTerms     int `json:"positive_terms"`
	NegativeTerms     int `json:"negative_terms"`

	HasSections bool `json:"has_sections"`
	Numbers     int  `json:"has_numbers"`
	Percentages int  `json:"has_percentages"`
	Currency    int  `json:"has_currency"`
}

// ExtractFeatures computes all text signals in one pass over the input.
// Counting is case-insensitive substring matching: a term inside a
// longer word still counts, which is intentional parity with the
// historical heuristic. Whitespace-only input yields the zero value.
func ExtractFeatures(text string, lex Lexicon) Features {
	if strings.TrimSpace(text) == "" {
		return Features{}
	}

	lower := strings.ToLower(text)

	return Features{
		TextLength:     len(text),
		WordCount:      len(strings.Fields(text)),
		SentenceCount:  len(sentenceRe.Split(text, -1)),
		ParagraphCount: countParagraphs(text),

		FinancialTerms:    countTerms(lower, lex[CategoryFinancial]),
		MarketTerms:       countTerms(lower, lex[CategoryMarket]),
		StrategyTerms:     countTerms(lower, lex[CategoryStrategy]),
		TeamTerms:         countTerms(lower, lex[CategoryTeam]),
		ProductTerms:      countTerms(lower, lex[CategoryProduct]),
		RiskTerms:         countTerms(lower, lex[CategoryRisk]),
		ProfessionalTerms: countTerms(lower, lex[CategoryProfessional]),
		PositiveTerms:     countTerms(lower, lex[CategoryPositive]),
		NegativeTerms:     countTerms(lower, lex[CategoryNegative]),

		HasSections: containsAny(lower, sectionMarkers),
		Numbers:     len(numberRe.FindAllString(text, -1)),
		Percentages: len(percentRe.FindAllString(text, -1)),
		Currency:    len(currencyRe.FindAllString(text, -1)),
	}
}

// countTerms sums substring occurrences of every term in the lowercased text.
func countTerms(lower string, terms []string) int {
	var n int
	for _, t := range terms {
		n += strings.Count(lower, t)
	}
	return n
}

func countParagraphs(text string) int {
	var n int
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
