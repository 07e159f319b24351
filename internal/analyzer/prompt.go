package analyzer

import (
	"fmt"
	"strings"
)

// promptTextLimit caps how much plan text is sent to the model.
const promptTextLimit = 8000

const promptHeader = `Tu es un expert en évaluation de business plans pour l'incubation de startups.

Tu dois analyser le business plan suivant selon une grille de validation stricte avec 12 critères.

INSTRUCTIONS D'ANALYSE:
1. Analyse chaque critère individuellement
2. Pour chaque sous-critère, attribue un score et justifie ta décision
3. Applique les règles de pénalisation:
- Réponse incomplète = 50%% des points
- Réponse absente = 0 point
4. Structure ta réponse exactement comme demandé

GRILLE DE VALIDATION:
%s

BUSINESS PLAN À ANALYSER:
%s

FORMAT DE RÉPONSE REQUIS:
Pour chaque critère, écris une section:

CRITÈRE N: NOM DU CRITÈRE
- analyse de chaque sous-critère avec score attribué
Score total critère N: X/MAX

Termine par:
Score total: X/100

RECOMMANDATIONS STRATÉGIQUES:
Basées sur l'analyse des faiblesses identifiées, fournis 3-7 recommandations spécifiques et actionnables.
Pour chaque recommandation, indique sa priorité (CRITIQUE/HAUTE/MOYENNE/FAIBLE) et fournis des détails précis:

RECOMMANDATION 1: [PRIORITÉ] - [TITRE]
[Description détaillée de 2-3 phrases avec actions concrètes]

RECOMMANDATION 2: [PRIORITÉ] - [TITRE]
[Description détaillée de 2-3 phrases avec actions concrètes]

[Continue pour toutes les recommandations identifiées...]

Les recommandations doivent être:
- Spécifiques au business plan analysé
- Actionnables avec des étapes concrètes
- Priorisées selon l'impact sur l'éligibilité
- Basées sur les critères les plus faibles`

// BuildPrompt renders the structured evaluation prompt for one plan.
func BuildPrompt(grid []Criterion, text string) string {
	return fmt.Sprintf(promptHeader, formatGrid(grid), truncateRunes(text, promptTextLimit))
}

func formatGrid(grid []Criterion) string {
	var b strings.Builder
	for _, c := range grid {
		fmt.Fprintf(&b, "\nCRITÈRE %d: %s (%.0f points)\n", c.ID, strings.ToUpper(c.Name), c.MaxPoints)
		for _, sub := range c.SubCriteria {
			fmt.Fprintf(&b, "- %s (%.0f pts): %s\n", sub.Name, sub.Points, sub.Description)
		}
	}
	return b.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
