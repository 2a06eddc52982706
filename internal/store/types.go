package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/screener/internal/ai"
)

// Client is a hiring client whose evaluation preferences steer the analysis.
type Client struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	EvaluationPreferences string    `json:"evaluation_preferences,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// Guidance renders the client preferences as free-text notes for the analyzer.
// It is empty when the client has no preferences.
func (c *Client) Guidance() string {
	if c == nil || strings.TrimSpace(c.EvaluationPreferences) == "" {
		return ""
	}
	return fmt.Sprintf("CLIENT: %s\nPREFERENCES: %s", c.Name, strings.TrimSpace(c.EvaluationPreferences))
}

// JobDescription is a stored job description together with its analysis.
type JobDescription struct {
	ID        uuid.UUID      `json:"id"`
	ClientID  *uuid.UUID     `json:"client_id,omitempty"`
	Title     string         `json:"title"`
	Text      string         `json:"jd_text"`
	Analysis  *ai.JDAnalysis `json:"analysis,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ReportSummary is a listing row for a stored screening report.
type ReportSummary struct {
	ID             uuid.UUID  `json:"id"`
	JobID          *uuid.UUID `json:"jd_id,omitempty"`
	JobTitle       string     `json:"job_title"`
	CandidateCount int        `json:"candidate_count"`
	TopScore       *float64   `json:"top_score,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
