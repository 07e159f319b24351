package analyzer

import (
	"fmt"
	"sort"

	"github.com/asi-incubator/intake-cli/internal/model"
)

const (
	weakPerformanceCut = 70 // below this percentage a criterion is weak
	maxSpecificRecs    = 5
	maxRecommendations = 6
)

// Recommendation priorities.
const (
	PriorityCritical = "CRITIQUE"
	PriorityHigh     = "HAUTE"
	PriorityMedium   = "MOYENNE"
	PriorityLow      = "FAIBLE"
)

type weakCriterion struct {
	id          int
	performance float64
	earned      float64
	maxPoints   float64
}

// generateRecommendations emits up to six prioritized, ranked
// recommendation strings for the weakest criteria, topped up with
// general advice when the plan is broadly strong.
func generateRecommendations(results []model.CriterionResult, feats Features) []string {
	var weak []weakCriterion
	var total float64
	for _, cr := range results {
		total += cr.EarnedPoints
		perf := cr.Performance()
		if perf < weakPerformanceCut {
			weak = append(weak, weakCriterion{
				id:          cr.CriterionID,
				performance: perf,
				earned:      cr.EarnedPoints,
				maxPoints:   cr.MaxPoints,
			})
		}
	}

	// Biggest weighted deficit first; ties broken by criterion weight.
	sort.SliceStable(weak, func(i, j int) bool {
		di := weak[i].maxPoints * (weakPerformanceCut - weak[i].performance)
		dj := weak[j].maxPoints * (weakPerformanceCut - weak[j].performance)
		if di != dj {
			return di > dj
		}
		return weak[i].maxPoints > weak[j].maxPoints
	})

	var recs []string
	for i, w := range weak {
		if i >= maxSpecificRecs {
			break
		}
		if rec, ok := specificRecommendation(w); ok {
			recs = append(recs, rec)
		}
	}

	if len(recs) < 3 {
		recs = append(recs, generalRecommendations(feats, total)...)
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// recPriority classifies a weak criterion by weight and shortfall.
func recPriority(w weakCriterion) string {
	switch {
	case w.maxPoints >= 10 && w.performance < 40:
		return PriorityCritical
	case w.maxPoints >= 10 || w.performance < 50:
		return PriorityHigh
	case w.performance < 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

type recTemplate struct {
	title string
	body  string // fmt string taking earned then max
}

// Criterion-specific recommendation templates, keyed by criterion id.
// An id without a template is silently skipped.
var recTemplates = map[int]recTemplate{
	1: {
		title: "Renforcement de l'équipe fondatrice",
		body:  "Votre équipe score %.1f/%.0f. Identifiez précisément les compétences manquantes (technique, commercial, secteur). Recrutez un co-fondateur expérimenté ou constituez un advisory board avec 3-5 experts sectoriels. Documentez les CV, répartition des parts, et plan de recrutement sur 18 mois.",
	},
	2: {
		title: "Validation de la problématique marché",
		body:  "La problématique identifiée manque de validation (%.1f/%.0f). Menez 50+ interviews clients, créez des personas détaillés, quantifiez la douleur (coût actuel du problème). Ajoutez des statistiques sectorielles, études de marché, et témoignages clients pour crédibiliser votre analyse.",
	},
	3: {
		title: "Analyse concurrentielle approfondie",
		body:  "L'analyse des solutions existantes est insuffisante (%.1f/%.0f). Mappez 10-15 concurrents directs/indirects, analysez leurs prix, fonctionnalités, faiblesses. Créez une matrice de positionnement et identifiez votre 'white space' concurrentiel unique.",
	},
	4: {
		title: "Clarification de la proposition de valeur",
		body:  "La solution manque de clarté (%.1f/%.0f). Reformulez votre value proposition en une phrase claire. Créez un prototype/MVP testable, définissez 3-5 features core, et mesurez l'amélioration quantifiable apportée (temps gagné, coût réduit, revenus générés).",
	},
	5: {
		title: "Structuration de la roadmap produit",
		body:  "Le planning de développement nécessite plus de précision (%.1f/%.0f). Définissez des jalons trimestriels avec métriques de validation (utilisateurs, revenus, fonctionnalités). Planifiez MVP à 3 mois, version Beta à 6 mois, version commerciale à 12 mois avec budgets associés.",
	},
	6: {
		title: "Segmentation et sizing du marché cible",
		body:  "Le marché cible manque de précision (%.1f/%.0f). Segmentez en 2-3 personas détaillés avec taille, pouvoir d'achat, processus de décision. Quantifiez le TAM/SAM/SOM avec sources fiables et stratégie de pénétration progressive.",
	},
	7: {
		title: "Intelligence concurrentielle stratégique",
		body:  "L'analyse concurrentielle est incomplète (%.1f/%.0f). Identifiez les leaders, challengers, et niches players. Analysez leurs levées de fonds, stratégies de croissance, points faibles exploitables. Positionnez-vous sur un axe de différenciation défendable.",
	},
	8: {
		title: "Construction d'avantages concurrentiels durables",
		body:  "La différenciation n'est pas assez marquée (%.1f/%.0f). Identifiez 2-3 barrières à l'entrée créables (brevets, data network effects, partnerships exclusifs). Développez une stratégie de protection de votre avantage concurrentiel sur 3-5 ans.",
	},
	9: {
		title: "Stratégie de conquête marché structurée",
		body:  "La stratégie commerciale manque de structure (%.1f/%.0f). Définissez 2-3 canaux d'acquisition prioritaires, coût d'acquisition client target, stratégie de pricing, et plan de vente sur 24 mois avec objectifs chiffrés par trimestre.",
	},
	10: {
		title: "Optimisation du modèle économique",
		body:  "Le modèle économique nécessite plus de rigueur (%.1f/%.0f). Clarifiez les sources de revenus, unit economics (LTV/CAC ratio > 3), seuils de rentabilité, et scenarii de scaling. Modélisez 3 hypothèses (conservateur/réaliste/optimiste).",
	},
	11: {
		title: "Plan de financement et projections financières",
		body:  "Le plan financier manque de détails (%.1f/%.0f). Construisez un P&L sur 3 ans, cash-flow mensuel année 1, besoins de financement détaillés par poste. Identifiez 4-5 sources de financement potentielles avec timeline de levée.",
	},
	12: {
		title: "Structuration juridique et compliance",
		body:  "Les aspects juridiques doivent être formalisés (%.1f/%.0f). Choisissez la forme juridique optimale (SARL/SAS), répartition du capital, pacte d'actionnaires, et compliance sectorielle. Consultez un avocat spécialisé startups.",
	},
}

func specificRecommendation(w weakCriterion) (string, bool) {
	tmpl, ok := recTemplates[w.id]
	if !ok {
		return "", false
	}
	body := fmt.Sprintf(tmpl.body, w.earned, w.maxPoints)
	return fmt.Sprintf("%s - %s: %s", recPriority(w), tmpl.title, body), true
}

// generalRecommendations covers plans with few specific weaknesses,
// triggered by global document signals.
func generalRecommendations(feats Features, total float64) []string {
	var recs []string

	if feats.WordCount < 1500 {
		recs = append(recs, "MOYENNE - Développement du business plan: Étoffez votre business plan avec plus de détails sur chaque section. Visez 3000-5000 mots avec données quantifiées, études de marché, et projections financières détaillées.")
	}
	if feats.Currency == 0 {
		recs = append(recs, "HAUTE - Ajout d'éléments financiers: Intégrez des données financières concrètes (chiffre d'affaires prévisionnel, coûts, investissements requis). Les investisseurs ont besoin de chiffres précis pour évaluer la viabilité.")
	}
	if total < 40 {
		recs = append(recs, "CRITIQUE - Retravailler les fondamentaux: Le score global nécessite une révision complète. Focalisez-vous sur les 4 piliers: équipe, marché, solution, et modèle économique. Consultez un mentor ou expert pour guidance.")
	}
	if feats.ProfessionalTerms < 5 {
		recs = append(recs, "MOYENNE - Professionnalisation du discours: Utilisez un vocabulaire business plus précis (KPI, metrics, addressable market, value proposition). Cela démontre votre maturité entrepreneuriale aux investisseurs.")
	}

	return recs
}
