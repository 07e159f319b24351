package store

import (
	"context"

	"github.com/asi-incubator/intake-cli/internal/model"
)

// CandidatureFilter specifies criteria for listing candidatures.
type CandidatureFilter struct {
	Status model.CandidatureStatus `json:"status,omitempty"`
	Email  string                  `json:"email,omitempty"`
	Limit  int                     `json:"limit,omitempty"`
	Offset int                     `json:"offset,omitempty"`
}

// Stats summarizes the content of the database.
type Stats struct {
	TotalCandidatures int            `json:"total_candidatures"`
	ByStatus          map[string]int `json:"by_status"`
	TotalAnalyses     int            `json:"total_analyses"`
	EligibleCount     int            `json:"eligible_count"`
	AverageScore      float64        `json:"average_score"`
	ScoreDistribution map[string]int `json:"score_distribution"`
}

// Store defines the persistence interface for the intake pipeline.
type Store interface {
	// Candidatures
	CreateCandidature(ctx context.Context, c model.Candidature) (*model.Candidature, error)
	GetCandidature(ctx context.Context, id string) (*model.Candidature, error)
	ListCandidatures(ctx context.Context, filter CandidatureFilter) ([]model.Candidature, error)
	UpdateStatus(ctx context.Context, id string, status model.CandidatureStatus, note string) error
	SetReportPath(ctx context.Context, id, path string) error
	DeleteCandidature(ctx context.Context, id string) error

	// Extractions
	SaveExtraction(ctx context.Context, candidatureID string, ext *model.Extraction) error
	GetExtraction(ctx context.Context, candidatureID string) (*model.Extraction, error)

	// Analyses
	SaveAnalysis(ctx context.Context, candidatureID string, res *model.AnalysisResult) error
	GetAnalysis(ctx context.Context, candidatureID string) (*model.AnalysisResult, error)

	// Audit log
	ListEvents(ctx context.Context, candidatureID string) ([]model.Event, error)

	// Email queue
	EnqueueEmail(ctx context.Context, candidatureID, recipient string) (*model.QueuedEmail, error)
	PendingEmails(ctx context.Context, limit int) ([]model.QueuedEmail, error)
	CompleteEmail(ctx context.Context, emailID string) error
	FailEmail(ctx context.Context, emailID, reason string) error

	// Reporting
	GetStats(ctx context.Context) (*Stats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
