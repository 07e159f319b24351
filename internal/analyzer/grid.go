// Package analyzer implements the rule-based business plan scoring engine
// used for incubation intake decisions.
package analyzer

// SubCriterion is a named sub-question within a criterion. Sub-criteria
// exist for score breakdown display only; they are never scored
// independently.
type SubCriterion struct {
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// Criterion is one dimension of the 12-point validation grid.
type Criterion struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	MaxPoints   float64        `json:"max_points"`
	Description string         `json:"description"`
	SubCriteria []SubCriterion `json:"sub_criteria"`
}

// DefaultGrid returns the twelve evaluation criteria of the validation
// grid. Maximum points sum to 100.
func DefaultGrid() []Criterion {
	return []Criterion{
		{
			ID: 1, Name: "Équipe", MaxPoints: 10,
			Description: "Évaluation de l'équipe fondatrice",
			SubCriteria: []SubCriterion{
				{Name: "Équipe fondatrice identifiée", Points: 3, Description: "L'équipe fondatrice est-elle clairement identifiée ?"},
				{Name: "Compétences complémentaires", Points: 4, Description: "Compétences techniques, business et marketing complémentaires ?"},
				{Name: "Expérience sectorielle", Points: 3, Description: "Expérience pertinente dans le secteur d'activité ?"},
			},
		},
		{
			ID: 2, Name: "Problématique identifiée", MaxPoints: 10,
			Description: "Évaluation de la problématique identifiée",
			SubCriteria: []SubCriterion{
				{Name: "Problématique réelle et bien définie", Points: 5, Description: "La problématique est-elle réelle et bien définie ?"},
				{Name: "Données validantes", Points: 5, Description: "Données validant l'existence de cette problématique ?"},
			},
		},
		{
			ID: 3, Name: "Solution actuelle sur le marché", MaxPoints: 5,
			Description: "Connaissance des solutions existantes",
			SubCriteria: []SubCriterion{
				{Name: "Connaissance des solutions", Points: 3, Description: "Connaissance claire des solutions existantes ?"},
				{Name: "Limites identifiées", Points: 2, Description: "Limites de ces solutions bien identifiées ?"},
			},
		},
		{
			ID: 4, Name: "Solution proposée & Valeur ajoutée", MaxPoints: 15,
			Description: "Évaluation de la solution et de sa valeur ajoutée",
			SubCriteria: []SubCriterion{
				{Name: "Solution expliquée clairement", Points: 5, Description: "La solution est-elle expliquée clairement ?"},
				{Name: "Innovation", Points: 5, Description: "Innovation par rapport aux solutions existantes ?"},
				{Name: "Impact concret", Points: 5, Description: "Impact ou bénéfice concret pour la clientèle ?"},
			},
		},
		{
			ID: 5, Name: "Feuille de route du produit/service", MaxPoints: 5,
			Description: "Plan de développement et délais",
			SubCriteria: []SubCriterion{
				{Name: "Plan de développement", Points: 3, Description: "Existence d'un plan de développement (MVP, phases futures) ?"},
				{Name: "Délais réalistes", Points: 2, Description: "Délais de mise en œuvre réalistes ?"},
			},
		},
		{
			ID: 6, Name: "Clientèle ciblée", MaxPoints: 5,
			Description: "Définition et taille du marché cible",
			SubCriteria: []SubCriterion{
				{Name: "Segment bien défini", Points: 3, Description: "Le segment de clientèle est-il bien défini et cohérent ?"},
				{Name: "Données quantitatives", Points: 2, Description: "Taille du marché ou données quantitatives disponibles ?"},
			},
		},
		{
			ID: 7, Name: "Concurrents", MaxPoints: 5,
			Description: "Analyse de la concurrence",
			SubCriteria: []SubCriterion{
				{Name: "Analyse des concurrents", Points: 3, Description: "Analyse des concurrents bien faite (acteurs clés identifiés) ?"},
				{Name: "Compréhension du marché", Points: 2, Description: "Compréhension des parts de marché ou des concurrents directs/indirects ?"},
			},
		},
		{
			ID: 8, Name: "Différenciation", MaxPoints: 10,
			Description: "Avantage concurrentiel",
			SubCriteria: []SubCriterion{
				{Name: "Avantage concurrentiel", Points: 5, Description: "Avantage concurrentiel clairement énoncé ?"},
				{Name: "Difficilement réplicable", Points: 5, Description: "Avantage difficilement réplicable à court terme ?"},
			},
		},
		{
			ID: 9, Name: "Stratégie de conquête du marché", MaxPoints: 10,
			Description: "Stratégie go-to-market",
			SubCriteria: []SubCriterion{
				{Name: "Stratégie go-to-market", Points: 5, Description: "Stratégie de go-to-market précise (canaux de vente, communication) ?"},
				{Name: "Partenariats prévus", Points: 3, Description: "Premiers partenariats ou démarches commerciales prévues ?"},
				{Name: "Stratégie de fidélisation", Points: 2, Description: "Stratégie de fidélisation ou de croissance ?"},
			},
		},
		{
			ID: 10, Name: "Modèle de business", MaxPoints: 10,
			Description: "Modèle économique et génération de revenus",
			SubCriteria: []SubCriterion{
				{Name: "Modèle économique clair", Points: 5, Description: "Modèle économique clair (B2B, B2C, SaaS, abonnement, etc.) ?"},
				{Name: "Génération de revenus", Points: 5, Description: "Logique de génération de revenus réaliste ?"},
			},
		},
		{
			ID: 11, Name: "Financements détaillés", MaxPoints: 10,
			Description: "Plan financier et besoins de financement",
			SubCriteria: []SubCriterion{
				{Name: "P&L", Points: 5, Description: "Mise en place d'un P&L ?"},
				{Name: "Besoins de financement", Points: 3, Description: "Estimation des besoins de financement ?"},
				{Name: "Sources de financement", Points: 2, Description: "Sources de financement prévues ?"},
			},
		},
		{
			ID: 12, Name: "Statut juridique de l'entreprise", MaxPoints: 5,
			Description: "Statut juridique et conformité légale",
			SubCriteria: []SubCriterion{
				{Name: "Statut juridique", Points: 3, Description: "Statut juridique actuel ou prévu ?"},
				{Name: "Conformité légale", Points: 2, Description: "Conformité aux exigences légales pour l'activité visée ?"},
			},
		},
	}
}

// GridMax returns the sum of all criterion maxima.
func GridMax(grid []Criterion) float64 {
	var sum float64
	for _, c := range grid {
		sum += c.MaxPoints
	}
	return sum
}
