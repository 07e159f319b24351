// Package mailer builds and sends analysis result notifications.
package mailer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/asi-incubator/intake-cli/internal/config"
	"github.com/asi-incubator/intake-cli/internal/model"
)

var (
	// {{#VAR}}...{{/VAR}} conditional blocks, kept when VAR is truthy.
	conditionalRe = regexp.MustCompile(`(?s)\{\{#([A-Z_0-9]+)\}\}(.*?)\{\{/([A-Z_0-9]+)\}\}`)
	// {{VAR}} and {{VAR|default}} substitutions.
	variableRe = regexp.MustCompile(`\{\{([A-Z_0-9]+)(?:\|([^}]*))?\}\}`)
)

// Render fills a template with the given variables. Conditional blocks
// survive only when their variable is non-empty and not "0".
func Render(template string, vars map[string]string) string {
	out := conditionalRe.ReplaceAllStringFunc(template, func(block string) string {
		m := conditionalRe.FindStringSubmatch(block)
		if m[1] != m[3] {
			return block
		}
		if truthy(vars[m[1]]) {
			return m[2]
		}
		return ""
	})

	return variableRe.ReplaceAllStringFunc(out, func(ref string) string {
		m := variableRe.FindStringSubmatch(ref)
		if v, ok := vars[m[1]]; ok && v != "" {
			return v
		}
		return m[2]
	})
}

func truthy(v string) bool {
	return v != "" && v != "0"
}

// criterionPrefixes maps grid position to the template variable prefix.
var criterionPrefixes = []string{
	"EQUIPE", "PROBLEMATIQUE", "SOLUTION_MARCHE", "SOLUTION_PROPOSEE",
	"FEUILLE_ROUTE", "CLIENTELE", "CONCURRENTS", "DIFFERENCIATION",
	"STRATEGIE", "BUSINESS_MODEL", "FINANCEMENTS", "STATUT_JURIDIQUE",
}

// BuildVariables assembles every variable the notification templates use.
func BuildVariables(c *model.Candidature, res *model.AnalysisResult, cfg config.EmailConfig) map[string]string {
	now := time.Now()

	statusText := "NON RETENU POUR L'INCUBATION"
	statusClass := "rejected"
	if res.IsEligible {
		statusText = "RETENU POUR INCUBATION ASI"
		statusClass = "accepted"
	}

	vars := map[string]string{
		"BUSINESS_NAME":    c.BusinessName,
		"CONTACT_NAME":     c.ContactName,
		"CANDIDATURE_ID":   c.ID,
		"SUBMISSION_DATE":  c.CreatedAt.Format("02/01/2006"),
		"ANALYSIS_DATE":    res.EvaluationDate.Format("02/01/2006 à 15:04"),
		"EMAIL_DATE":       now.Format("02/01/2006 à 15:04"),
		"TOTAL_SCORE":      fmt.Sprintf("%.1f", res.TotalScore),
		"STATUS_TEXT":      statusText,
		"STATUS_CLASS":     statusClass,
		"ANALYSIS_METHOD":  res.AnalysisMethod,
		"CONFIDENCE_SCORE": fmt.Sprintf("%d", int(res.ConfidenceScore)),
		"EXECUTIVE_SUMMARY": res.Summary,

		"REPORT_URL":      fmt.Sprintf("%s/reports/%s", cfg.BaseURL, c.ID),
		"SUPPORT_EMAIL":   cfg.SupportEmail,
		"WEBSITE_URL":     cfg.BaseURL,
		"PHONE":           cfg.Phone,
		"UNSUBSCRIBE_URL": fmt.Sprintf("%s/unsubscribe?token=%s", cfg.BaseURL, unsubscribeToken(c.ContactEmail, c.ID)),
	}

	for i, prefix := range criterionPrefixes {
		if i >= len(res.CriteriaResults) {
			vars[prefix+"_SCORE"] = "0.0"
			vars[prefix+"_PERCENT"] = "0"
			vars[prefix+"_CLASS"] = "poor"
			continue
		}
		cr := res.CriteriaResults[i]
		pct := cr.Performance()
		vars[prefix+"_SCORE"] = fmt.Sprintf("%.1f", cr.EarnedPoints)
		vars[prefix+"_PERCENT"] = fmt.Sprintf("%d", int(pct))
		vars[prefix+"_CLASS"] = performanceClass(pct)
	}

	vars["RECOMMENDATIONS_HTML"] = RecommendationsHTML(res.Recommendations)
	return vars
}

func performanceClass(pct float64) string {
	switch {
	case pct >= 90:
		return "excellent"
	case pct >= 80:
		return "good"
	case pct >= 60:
		return "average"
	default:
		return "poor"
	}
}

func unsubscribeToken(email, candidatureID string) string {
	sum := sha256.Sum256([]byte(email + ":" + candidatureID))
	return hex.EncodeToString(sum[:])
}

// priorities are ordered so detection is deterministic when a text
// mentions more than one level.
var priorities = []string{"CRITIQUE", "HAUTE", "MOYENNE", "FAIBLE"}

var priorityColors = map[string]string{
	"CRITIQUE": "#dc3545",
	"HAUTE":    "#fd7e14",
	"MOYENNE":  "#ffc107",
	"FAIBLE":   "#6c757d",
}

const maxEmailRecommendations = 5

// RecommendationsHTML renders the recommendation list as styled <li>
// items with a colored priority badge.
func RecommendationsHTML(recs []string) string {
	if len(recs) == 0 {
		return `<li style='margin-bottom: 15px; padding: 15px; background-color: #FFFFFF; border-radius: 8px; border-left: 4px solid #fd7e14;'>` +
			`<div style='background-color: #fd7e14; color: #FFFFFF; font-weight: bold; font-size: 11px; padding: 4px 8px; border-radius: 12px; margin-bottom: 8px; display: inline-block;'>HAUTE</div><br>` +
			`<strong>Amélioration générale:</strong> Renforcez les sections les moins développées de votre business plan.</li>`
	}

	var b strings.Builder
	count := 0
	for _, rec := range recs {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		if count >= maxEmailRecommendations {
			break
		}
		count++

		priority := "MOYENNE"
		upper := strings.ToUpper(rec)
		for _, p := range priorities {
			if strings.Contains(upper, p) {
				priority = p
				break
			}
		}

		content := formatRecommendation(rec)
		fmt.Fprintf(&b,
			"<li style='margin-bottom: 15px; padding: 15px; background-color: #FFFFFF; border-radius: 8px; border-left: 4px solid #003255; line-height: 1.6; font-size: 14px;'>"+
				"<div style='display: inline-block; background-color: %s; color: #FFFFFF; font-weight: bold; font-size: 11px; padding: 4px 8px; border-radius: 12px; margin-bottom: 8px;'>%s</div><br>%s</li>",
			priorityColors[priority], priority, content)
	}
	return b.String()
}

// formatRecommendation turns "PRIORITY - Title: body" into an escaped
// "<strong>Title:</strong> body" fragment.
func formatRecommendation(rec string) string {
	content := rec
	if idx := strings.Index(content, " - "); idx >= 0 && strings.Contains(content, ":") {
		titleDesc := content[idx+3:]
		if colon := strings.Index(titleDesc, ":"); colon >= 0 {
			title := strings.TrimSpace(titleDesc[:colon])
			desc := strings.TrimSpace(titleDesc[colon+1:])
			return "<strong>" + escapeHTML(title) + ":</strong> " + escapeHTML(desc)
		}
	}
	return escapeHTML(content)
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
