package model

import "time"

// CandidatureStatus represents the current state of a submission.
type CandidatureStatus string

const (
	StatusPending  CandidatureStatus = "pending"
	StatusAnalyzed CandidatureStatus = "analyzed"
	StatusAccepted CandidatureStatus = "accepted"
	StatusRejected CandidatureStatus = "rejected"
	StatusFailed   CandidatureStatus = "failed"
)

// ValidStatus reports whether s is one of the known candidature statuses.
func ValidStatus(s CandidatureStatus) bool {
	switch s {
	case StatusPending, StatusAnalyzed, StatusAccepted, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// Candidature is one submitted business plan awaiting or past analysis.
type Candidature struct {
	ID           string            `json:"id"`
	BusinessName string            `json:"business_name"`
	ContactName  string            `json:"contact_name,omitempty"`
	ContactEmail string            `json:"contact_email"`
	PDFPath      string            `json:"pdf_path"`
	Status       CandidatureStatus `json:"status"`
	EmailSent    bool              `json:"email_sent"`
	ReportPath   string            `json:"report_path,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Event is one audit-log entry for a candidature.
type Event struct {
	ID            int64     `json:"id"`
	CandidatureID string    `json:"candidature_id"`
	Action        string    `json:"action"` // created, status_changed, deleted, email_sent
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Extraction holds the text pulled out of a submitted PDF.
type Extraction struct {
	Text       string        `json:"text"`
	Method     string        `json:"method"`
	Confidence float64       `json:"confidence"`
	PageCount  int           `json:"page_count"`
	WordCount  int           `json:"word_count"`
	Duration   time.Duration `json:"duration_ms"`
	Success    bool          `json:"success"`
}

// EmailStatus represents the state of a queued notification.
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// QueuedEmail is one pending or processed notification.
type QueuedEmail struct {
	ID            string      `json:"id"`
	CandidatureID string      `json:"candidature_id"`
	Recipient     string      `json:"recipient"`
	Status        EmailStatus `json:"status"`
	Attempts      int         `json:"attempts"`
	LastError     string      `json:"last_error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	SentAt        *time.Time  `json:"sent_at,omitempty"`
}
