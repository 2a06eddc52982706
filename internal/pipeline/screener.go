package pipeline

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/identity"
)

// Report is the outcome of one screening run.
type Report struct {
	ID         uuid.UUID      `json:"id"`
	JobID      *uuid.UUID     `json:"job_id,omitempty"`
	JobTitle   string         `json:"job_title"`
	Job        *ai.JDAnalysis `json:"job_analysis"`
	Candidates []*Candidate   `json:"candidates"`
	Stages     []Status       `json:"stages,omitempty"`
	ScreenedAt time.Time      `json:"screened_at"`
}

// Screener runs the screening stages over resolved candidates.
type Screener struct {
	deps   Deps
	stages []Stage
	now    func() time.Time
}

// DefaultStages returns the resume, audio and recommendation stages in order.
func DefaultStages() []Stage {
	return []Stage{NewResumeStage(), NewAudioStage(), NewRecommendationStage()}
}

// New creates a Screener. Without explicit stages DefaultStages is used.
func New(deps Deps, stages ...Stage) *Screener {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	return &Screener{deps: deps, stages: stages, now: time.Now}
}

// Stages exposes the configured stages, e.g. for DisableByName.
func (s *Screener) Stages() []Stage {
	return s.stages
}

// Screen groups the artifacts into candidates, runs every enabled stage and
// returns the candidates ordered by resume score, then interview technical
// score, both descending. Ties keep grouping order.
func (s *Screener) Screen(ctx context.Context, job *ai.JDAnalysis, resumes, audio []identity.Artifact) (*Report, error) {
	if job == nil {
		return nil, errors.New("job analysis is required")
	}

	buckets := identity.Resolve(resumes, audio)
	candidates := make([]*Candidate, 0, buckets.Len())
	for _, bucket := range buckets.Items() {
		candidates = append(candidates, newCandidate(bucket))
	}

	s.deps.Logger.Info("candidates resolved",
		zap.Int("resumes", len(resumes)),
		zap.Int("audio", len(audio)),
		zap.Int("candidates", len(candidates)),
	)

	if err := Run(ctx, s.deps, s.stages, job, candidates); err != nil {
		return nil, err
	}

	Rank(candidates)

	return &Report{
		ID:         uuid.New(),
		JobTitle:   job.JobTitle,
		Job:        job,
		Candidates: candidates,
		Stages:     Describe(s.stages),
		ScreenedAt: s.now().UTC(),
	}, nil
}

// Rank orders candidates by resume score, then interview technical score,
// descending. Missing values count as zero.
func Rank(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.resumeScore() != b.resumeScore() {
			return a.resumeScore() > b.resumeScore()
		}
		return a.technicalScore() > b.technicalScore()
	})
}
