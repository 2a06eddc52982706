package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spigell/screener/internal/pipeline"
)

const defaultReportLimit = 50

// SaveReport stores a screening report. The listing columns are derived from
// the report itself.
func (db *DB) SaveReport(ctx context.Context, report *pipeline.Report) error {
	if report == nil {
		return errors.New("report is required")
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	summary := summarize(report)
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO screening_reports (id, jd_id, job_title, candidate_count, top_score, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		summary.ID, summary.JobID, summary.JobTitle, summary.CandidateCount, summary.TopScore, body, summary.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport retrieves a full screening report by ID
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*pipeline.Report, error) {
	var body []byte
	err := db.pool.QueryRow(ctx, `SELECT report FROM screening_reports WHERE id = $1`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report pipeline.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// ListReports returns report summaries, newest first, optionally restricted to
// one job description. A non-positive limit means the default of 50.
func (db *DB) ListReports(ctx context.Context, jobID *uuid.UUID, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, jd_id, job_title, candidate_count, top_score, created_at
		 FROM screening_reports
		 WHERE $1::uuid IS NULL OR jd_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ReportSummary, error) {
		var s ReportSummary
		err := row.Scan(&s.ID, &s.JobID, &s.JobTitle, &s.CandidateCount, &s.TopScore, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reports: %w", err)
	}
	return summaries, nil
}

func summarize(report *pipeline.Report) ReportSummary {
	s := ReportSummary{
		ID:             report.ID,
		JobID:          report.JobID,
		JobTitle:       report.JobTitle,
		CandidateCount: len(report.Candidates),
		CreatedAt:      report.ScreenedAt,
	}
	for _, c := range report.Candidates {
		if c.ResumeScore == nil {
			continue
		}
		if s.TopScore == nil || *c.ResumeScore > *s.TopScore {
			score := *c.ResumeScore
			s.TopScore = &score
		}
	}
	return s
}
