package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/pipeline"
	"github.com/spigell/screener/internal/screening"
)

func TestSchemaDefinesTables(t *testing.T) {
	for _, table := range []string{"clients", "job_descriptions", "screening_reports"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestClientGuidance(t *testing.T) {
	var nilClient *Client
	assert.Empty(t, nilClient.Guidance())
	assert.Empty(t, (&Client{Name: "Acme", EvaluationPreferences: "   "}).Guidance())

	c := &Client{Name: "Acme", EvaluationPreferences: " Values open source work \n"}
	assert.Equal(t, "CLIENT: Acme\nPREFERENCES: Values open source work", c.Guidance())
}

func TestJobTitle(t *testing.T) {
	analyzed := &ai.JDAnalysis{JobTitle: " Platform Engineer "}

	tests := []struct {
		name     string
		title    string
		analysis *ai.JDAnalysis
		want     string
	}{
		{"explicit title wins", "SRE", analyzed, "SRE"},
		{"blank title uses analysis", "  ", analyzed, "Platform Engineer"},
		{"untitled uses analysis", "Untitled", analyzed, "Platform Engineer"},
		{"no analysis", "", nil, "Untitled Position"},
		{"analysis without title", "", &ai.JDAnalysis{}, "Untitled Position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JobTitle(tt.title, tt.analysis))
		})
	}
}

func TestClientUpdateEmpty(t *testing.T) {
	assert.True(t, ClientUpdate{}.Empty())

	notes := ""
	assert.False(t, ClientUpdate{Notes: &notes}.Empty())
}

func TestSummarize(t *testing.T) {
	jobID := uuid.New()
	screenedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &pipeline.Report{
		ID:       uuid.New(),
		JobID:    &jobID,
		JobTitle: "Backend Engineer",
		Candidates: []*pipeline.Candidate{
			{Key: "bob", ResumeScore: nil},
			{Key: "john", ResumeScore: screening.Ptr(80.0)},
			{Key: "jane", ResumeScore: screening.Ptr(95.0)},
		},
		ScreenedAt: screenedAt,
	}

	s := summarize(report)
	assert.Equal(t, report.ID, s.ID)
	assert.Equal(t, &jobID, s.JobID)
	assert.Equal(t, "Backend Engineer", s.JobTitle)
	assert.Equal(t, 3, s.CandidateCount)
	require.NotNil(t, s.TopScore)
	assert.Equal(t, 95.0, *s.TopScore)
	assert.Equal(t, screenedAt, s.CreatedAt)

	// The summary holds its own copy of the top score.
	*report.Candidates[2].ResumeScore = 10
	assert.Equal(t, 95.0, *s.TopScore)
}

func TestSummarizeWithoutScores(t *testing.T) {
	s := summarize(&pipeline.Report{Candidates: []*pipeline.Candidate{{Key: "bob"}}})
	assert.Nil(t, s.TopScore)
	assert.Equal(t, 1, s.CandidateCount)
	assert.Empty(t, s.JobTitle)
}
