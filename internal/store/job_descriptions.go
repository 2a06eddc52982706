package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spigell/screener/internal/ai"
)

const (
	jobColumns = `id, client_id, title, jd_text, analysis, created_at`

	untitledPosition = "Untitled Position"
)

// JobTitle picks the stored title: an explicit title wins unless it is blank
// or "Untitled", then the analyzed job title, then "Untitled Position".
func JobTitle(title string, analysis *ai.JDAnalysis) string {
	title = strings.TrimSpace(title)
	if title != "" && !strings.EqualFold(title, "untitled") {
		return title
	}
	if analysis != nil && strings.TrimSpace(analysis.JobTitle) != "" {
		return strings.TrimSpace(analysis.JobTitle)
	}
	return untitledPosition
}

// SaveJobDescription stores the job description text and its analysis. The
// title is resolved with JobTitle.
func (db *DB) SaveJobDescription(ctx context.Context, clientID *uuid.UUID, title, text string, analysis *ai.JDAnalysis) (*JobDescription, error) {
	jd := JobDescription{
		ID:       uuid.New(),
		ClientID: clientID,
		Title:    JobTitle(title, analysis),
		Text:     text,
		Analysis: analysis,
	}

	analysisJSON, err := marshalAnalysis(analysis)
	if err != nil {
		return nil, err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (id, client_id, title, jd_text, analysis)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		jd.ID, jd.ClientID, jd.Title, jd.Text, analysisJSON,
	).Scan(&jd.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save job description: %w", err)
	}
	return &jd, nil
}

// GetJobDescription retrieves a job description by ID. Analysis is nil when
// none was stored.
func (db *DB) GetJobDescription(ctx context.Context, id uuid.UUID) (*JobDescription, error) {
	jd, err := scanJobDescription(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job description %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return &jd, nil
}

// ListJobDescriptions returns job descriptions, newest first, optionally
// restricted to one client.
func (db *DB) ListJobDescriptions(ctx context.Context, clientID *uuid.UUID) ([]JobDescription, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM job_descriptions
		 WHERE $1::uuid IS NULL OR client_id = $1
		 ORDER BY created_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (JobDescription, error) {
		return scanJobDescription(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan job descriptions: %w", err)
	}
	return jobs, nil
}

// UpdateJobAnalysis replaces the stored analysis of a job description.
func (db *DB) UpdateJobAnalysis(ctx context.Context, id uuid.UUID, analysis *ai.JDAnalysis) (*JobDescription, error) {
	if analysis == nil {
		return nil, errors.New("analysis is required")
	}

	analysisJSON, err := marshalAnalysis(analysis)
	if err != nil {
		return nil, err
	}

	jd, err := scanJobDescription(db.pool.QueryRow(ctx,
		`UPDATE job_descriptions SET analysis = $2
		 WHERE id = $1
		 RETURNING `+jobColumns,
		id, analysisJSON,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job description %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update job description: %w", err)
	}
	return &jd, nil
}

// DeleteJobDescription removes a job description. Its reports are kept and
// lose their job reference.
func (db *DB) DeleteJobDescription(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_descriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job description %s: %w", id, ErrNotFound)
	}
	return nil
}

func marshalAnalysis(analysis *ai.JDAnalysis) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return data, nil
}

func scanJobDescription(row pgx.Row) (JobDescription, error) {
	var jd JobDescription
	var analysisJSON []byte

	if err := row.Scan(&jd.ID, &jd.ClientID, &jd.Title, &jd.Text, &analysisJSON, &jd.CreatedAt); err != nil {
		return JobDescription{}, err
	}

	if len(analysisJSON) > 0 {
		var analysis ai.JDAnalysis
		if err := json.Unmarshal(analysisJSON, &analysis); err != nil {
			return JobDescription{}, fmt.Errorf("failed to decode analysis: %w", err)
		}
		jd.Analysis = &analysis
	}

	return jd, nil
}
