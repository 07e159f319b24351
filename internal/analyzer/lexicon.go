package analyzer

// Lexicon category names.
const (
	CategoryFinancial    = "financial"
	CategoryMarket       = "market"
	CategoryStrategy     = "strategy"
	CategoryTeam         = "team"
	CategoryProduct      = "product"
	CategoryRisk         = "risk"
	CategoryProfessional = "professional"
	CategoryPositive     = "positive"
	CategoryNegative     = "negative"
)

// Lexicon maps a semantic category to its marker terms. Matching is
// lowercase substring counting, not word-boundary aware.
type Lexicon map[string][]string

// DefaultLexicon returns the business analysis marker terms.
func DefaultLexicon() Lexicon {
	return Lexicon{
		CategoryFinancial:    {"revenue", "profit", "cost", "funding", "investment", "financial", "budget", "cash flow", "roi"},
		CategoryMarket:       {"market", "customer", "target", "segment", "competition", "industry", "demand", "supply"},
		CategoryStrategy:     {"strategy", "plan", "goal", "objective", "milestone", "timeline", "execution", "implementation"},
		CategoryTeam:         {"team", "founder", "management", "experience", "expertise", "leadership", "staff"},
		CategoryProduct:      {"product", "service", "solution", "innovation", "technology", "feature", "development"},
		CategoryRisk:         {"risk", "threat", "challenge", "mitigation", "contingency", "uncertainty", "vulnerability"},
		CategoryProfessional: {"analysis", "research", "methodology", "framework", "assessment", "evaluation", "metrics", "kpi"},
		CategoryPositive:     {"strong", "excellent", "innovative", "unique", "competitive", "scalable", "profitable", "growth"},
		CategoryNegative:     {"weak", "poor", "limited", "risky", "unclear", "uncertain", "difficult", "challenging"},
	}
}
