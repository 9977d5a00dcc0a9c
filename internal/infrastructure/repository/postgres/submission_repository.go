package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *SubmissionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS email_submissions (
	id TEXT PRIMARY KEY,
	email_title TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	ai_classification TEXT NOT NULL,
	ai_suggested_reply TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_email_submissions_created_at ON email_submissions(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_email_submissions_classification ON email_submissions(ai_classification);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO email_submissions (
	id, email_title, message, type, ai_classification, ai_suggested_reply, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		sub.ID, sub.Title, sub.Message, sub.SourceType,
		string(sub.Classification), sub.SuggestedReply, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email_title, message, type, ai_classification, ai_suggested_reply, created_at
FROM email_submissions
WHERE id = $1
`, id)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrSubmissionNotFound, "get submission", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepository) List(ctx context.Context, skip, limit int) ([]domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, email_title, message, type, ai_classification, ai_suggested_reply, created_at
FROM email_submissions
ORDER BY created_at DESC
OFFSET $1 LIMIT $2
`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]domain.Submission, 0, limit)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return submissions, nil
}

func (r *SubmissionRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_submissions`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, nil
}

func (r *SubmissionRepository) Stats(ctx context.Context) (domain.Stats, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT ai_classification, COUNT(*)
FROM email_submissions
GROUP BY ai_classification
`)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats domain.Stats
	for rows.Next() {
		var classification string
		var count int
		if err := rows.Scan(&classification, &count); err != nil {
			return domain.Stats{}, fmt.Errorf("scan stats row: %w", err)
		}
		stats.Total += count
		switch domain.Category(classification) {
		case domain.CategoryProductive:
			stats.Productive = count
		case domain.CategoryUnproductive:
			stats.Unproductive = count
		case domain.CategoryUndetermined:
			stats.Undetermined = count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

func (r *SubmissionRepository) UpdateClassification(ctx context.Context, id string, result domain.ClassificationResult) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE email_submissions
SET ai_classification = $2, ai_suggested_reply = $3
WHERE id = $1
`, id, string(result.Classification), result.SuggestedReply)
	if err != nil {
		return fmt.Errorf("update classification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrSubmissionNotFound, "update classification", fmt.Errorf("id %s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var sub domain.Submission
	var classification string
	err := row.Scan(
		&sub.ID, &sub.Title, &sub.Message, &sub.SourceType,
		&classification, &sub.SuggestedReply, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Classification = domain.Category(classification)
	return &sub, nil
}
