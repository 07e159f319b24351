package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/asi-incubator/intake-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// foreign_keys and busy_timeout are per-connection pragmas; keep a
	// single connection so they hold for every query.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS candidatures (
	id            TEXT PRIMARY KEY,
	business_name TEXT NOT NULL,
	contact_name  TEXT,
	contact_email TEXT NOT NULL,
	pdf_path      TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending'
	              CHECK (status IN ('pending', 'analyzed', 'accepted', 'rejected', 'failed')),
	email_sent    INTEGER NOT NULL DEFAULT 0,
	report_path   TEXT,
	notes         TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS extracted_texts (
	candidature_id TEXT PRIMARY KEY REFERENCES candidatures(id) ON DELETE CASCADE,
	text           TEXT NOT NULL,
	method         TEXT NOT NULL,
	confidence     REAL NOT NULL,
	page_count     INTEGER NOT NULL,
	word_count     INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS analysis_results (
	id             TEXT PRIMARY KEY,
	candidature_id TEXT NOT NULL REFERENCES candidatures(id) ON DELETE CASCADE,
	result         TEXT NOT NULL,
	total_score    REAL NOT NULL,
	is_eligible    INTEGER NOT NULL,
	method         TEXT NOT NULL,
	confidence     REAL NOT NULL,
	processing_ms  INTEGER NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS candidature_events (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	candidature_id TEXT NOT NULL,
	action         TEXT NOT NULL,
	detail         TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS email_queue (
	id             TEXT PRIMARY KEY,
	candidature_id TEXT NOT NULL REFERENCES candidatures(id) ON DELETE CASCADE,
	recipient      TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending',
	attempts       INTEGER NOT NULL DEFAULT 0,
	last_error     TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	sent_at        DATETIME
);

CREATE INDEX IF NOT EXISTS idx_candidatures_status ON candidatures(status);
CREATE INDEX IF NOT EXISTS idx_candidatures_email ON candidatures(contact_email);
CREATE INDEX IF NOT EXISTS idx_analysis_results_candidature_id ON analysis_results(candidature_id);
CREATE INDEX IF NOT EXISTS idx_analysis_results_score ON analysis_results(total_score);
CREATE INDEX IF NOT EXISTS idx_candidature_events_candidature_id ON candidature_events(candidature_id);
CREATE INDEX IF NOT EXISTS idx_email_queue_status ON email_queue(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateCandidature(ctx context.Context, c model.Candidature) (*model.Candidature, error) {
	c.ID = uuid.New().String()
	now := time.Now().UTC()
	c.Status = model.StatusPending
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO candidatures (id, business_name, contact_name, contact_email, pdf_path, status, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.BusinessName, c.ContactName, c.ContactEmail, c.PDFPath, string(c.Status), c.Notes, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert candidature")
	}

	if err := s.logEvent(ctx, c.ID, "created", c.BusinessName); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) GetCandidature(ctx context.Context, id string) (*model.Candidature, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, business_name, contact_name, contact_email, pdf_path, status, email_sent, report_path, notes, created_at, updated_at
		 FROM candidatures WHERE id = ?`,
		id,
	)
	return scanCandidature(row)
}

func (s *SQLiteStore) ListCandidatures(ctx context.Context, filter CandidatureFilter) ([]model.Candidature, error) {
	query := `SELECT id, business_name, contact_name, contact_email, pdf_path, status, email_sent, report_path, notes, created_at, updated_at
	          FROM candidatures WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Email != "" {
		query += ` AND contact_email = ?`
		args = append(args, filter.Email)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list candidatures")
	}
	defer rows.Close()

	var out []model.Candidature
	for rows.Next() {
		c, err := scanCandidature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list candidatures iterate")
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status model.CandidatureStatus, note string) error {
	if !model.ValidStatus(status) {
		return eris.Errorf("sqlite: invalid status %q", status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE candidatures SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update status %s", id)
	}
	if err := checkRowsAffected(res, "candidature", id); err != nil {
		return err
	}

	detail := string(status)
	if note != "" {
		detail += ": " + note
	}
	return s.logEvent(ctx, id, "status_changed", detail)
}

func (s *SQLiteStore) SetReportPath(ctx context.Context, id, path string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE candidatures SET report_path = ?, updated_at = ? WHERE id = ?`,
		path, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set report path %s", id)
	}
	return checkRowsAffected(res, "candidature", id)
}

func (s *SQLiteStore) DeleteCandidature(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidatures WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete candidature %s", id)
	}
	if err := checkRowsAffected(res, "candidature", id); err != nil {
		return err
	}
	return s.logEvent(ctx, id, "deleted", "")
}

func (s *SQLiteStore) SaveExtraction(ctx context.Context, candidatureID string, ext *model.Extraction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extracted_texts (candidature_id, text, method, confidence, page_count, word_count, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(candidature_id) DO UPDATE SET
		   text = excluded.text, method = excluded.method, confidence = excluded.confidence,
		   page_count = excluded.page_count, word_count = excluded.word_count, duration_ms = excluded.duration_ms`,
		candidatureID, ext.Text, ext.Method, ext.Confidence, ext.PageCount, ext.WordCount, ext.Duration.Milliseconds(),
	)
	return eris.Wrapf(err, "sqlite: save extraction for %s", candidatureID)
}

func (s *SQLiteStore) GetExtraction(ctx context.Context, candidatureID string) (*model.Extraction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT text, method, confidence, page_count, word_count, duration_ms
		 FROM extracted_texts WHERE candidature_id = ?`,
		candidatureID,
	)

	var ext model.Extraction
	var durationMs int64
	err := row.Scan(&ext.Text, &ext.Method, &ext.Confidence, &ext.PageCount, &ext.WordCount, &durationMs)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("extraction not found: %s", candidatureID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan extraction")
	}
	ext.Duration = time.Duration(durationMs) * time.Millisecond
	ext.Success = len(ext.Text) > 0
	return &ext, nil
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, candidatureID string, res *model.AnalysisResult) error {
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_results (id, candidature_id, result, total_score, is_eligible, method, confidence, processing_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), candidatureID, string(resultJSON),
		res.TotalScore, res.IsEligible, res.AnalysisMethod, res.ConfidenceScore,
		int64(res.ProcessingTime*1000),
	)
	return eris.Wrapf(err, "sqlite: save analysis for %s", candidatureID)
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, candidatureID string) (*model.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result FROM analysis_results WHERE candidature_id = ?
		 ORDER BY created_at DESC LIMIT 1`,
		candidatureID,
	)

	var resultJSON string
	err := row.Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("analysis not found: %s", candidatureID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan analysis")
	}

	var res model.AnalysisResult
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &res, nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, candidatureID string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, candidature_id, action, detail, created_at
		 FROM candidature_events WHERE candidature_id = ? ORDER BY id`,
		candidatureID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list events")
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.CandidatureID, &e.Action, &detail, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan event")
		}
		e.Detail = detail.String
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: list events iterate")
}

func (s *SQLiteStore) EnqueueEmail(ctx context.Context, candidatureID, recipient string) (*model.QueuedEmail, error) {
	e := model.QueuedEmail{
		ID:            uuid.New().String(),
		CandidatureID: candidatureID,
		Recipient:     recipient,
		Status:        model.EmailPending,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO email_queue (id, candidature_id, recipient, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CandidatureID, e.Recipient, string(e.Status), e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: enqueue email for %s", candidatureID)
	}
	return &e, nil
}

func (s *SQLiteStore) PendingEmails(ctx context.Context, limit int) ([]model.QueuedEmail, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, candidature_id, recipient, status, attempts, last_error, created_at, sent_at
		 FROM email_queue WHERE status = ? ORDER BY created_at LIMIT ?`,
		string(model.EmailPending), limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: pending emails")
	}
	defer rows.Close()

	var emails []model.QueuedEmail
	for rows.Next() {
		var e model.QueuedEmail
		var lastErr sql.NullString
		var sentAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.CandidatureID, &e.Recipient, &e.Status, &e.Attempts, &lastErr, &e.CreatedAt, &sentAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan queued email")
		}
		e.LastError = lastErr.String
		if sentAt.Valid {
			t := sentAt.Time
			e.SentAt = &t
		}
		emails = append(emails, e)
	}
	return emails, eris.Wrap(rows.Err(), "sqlite: pending emails iterate")
}

func (s *SQLiteStore) CompleteEmail(ctx context.Context, emailID string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE email_queue SET status = ?, attempts = attempts + 1, sent_at = ? WHERE id = ?`,
		string(model.EmailSent), now, emailID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete email %s", emailID)
	}
	if err := checkRowsAffected(res, "email", emailID); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE candidatures SET email_sent = 1, updated_at = ?
		 WHERE id = (SELECT candidature_id FROM email_queue WHERE id = ?)`,
		now, emailID,
	)
	return eris.Wrapf(err, "sqlite: mark candidature notified for email %s", emailID)
}

func (s *SQLiteStore) FailEmail(ctx context.Context, emailID, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE email_queue SET status = ?, attempts = attempts + 1, last_error = ? WHERE id = ?`,
		string(model.EmailFailed), reason, emailID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail email %s", emailID)
	}
	return checkRowsAffected(res, "email", emailID)
}

func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByStatus:          map[string]int{},
		ScoreDistribution: map[string]int{},
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM candidatures GROUP BY status`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats by status")
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan status count")
		}
		stats.ByStatus[status] = n
		stats.TotalCandidatures += n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: stats by status iterate")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(total_score), 0), COALESCE(SUM(is_eligible), 0) FROM analysis_results`,
	)
	if err := row.Scan(&stats.TotalAnalyses, &stats.AverageScore, &stats.EligibleCount); err != nil {
		return nil, eris.Wrap(err, "sqlite: stats analyses")
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT CASE
			WHEN total_score >= 80 THEN 'Excellent (80-100)'
			WHEN total_score >= 60 THEN 'Good (60-79)'
			WHEN total_score >= 40 THEN 'Fair (40-59)'
			ELSE 'Poor (0-39)'
		END AS score_range, COUNT(*) AS count
		FROM analysis_results GROUP BY score_range`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats score distribution")
	}
	defer rows.Close()
	for rows.Next() {
		var bucket string
		var n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score bucket")
		}
		stats.ScoreDistribution[bucket] = n
	}
	return stats, eris.Wrap(rows.Err(), "sqlite: stats score distribution iterate")
}

// helpers

func (s *SQLiteStore) logEvent(ctx context.Context, candidatureID, action, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO candidature_events (candidature_id, action, detail) VALUES (?, ?, ?)`,
		candidatureID, action, detail,
	)
	return eris.Wrapf(err, "sqlite: log event %s for %s", action, candidatureID)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCandidature(row scannable) (*model.Candidature, error) {
	var c model.Candidature
	var contactName, reportPath, notes sql.NullString

	err := row.Scan(&c.ID, &c.BusinessName, &contactName, &c.ContactEmail, &c.PDFPath,
		&c.Status, &c.EmailSent, &reportPath, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("candidature not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan candidature")
	}

	c.ContactName = contactName.String
	c.ReportPath = reportPath.String
	c.Notes = notes.String
	return &c, nil
}
