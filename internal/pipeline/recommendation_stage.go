package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/logger"
)

const StageRecommendation = "recommendation"

type recommendationStage struct {
	disabled bool
	reason   string
}

// NewRecommendationStage creates the stage that asks for a hiring
// recommendation for every candidate with a resume score or interview analysis.
func NewRecommendationStage() Stage {
	return &recommendationStage{}
}

func (s *recommendationStage) Name() string { return StageRecommendation }

func (s *recommendationStage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *recommendationStage) IsEnabled() bool { return !s.disabled }

func (s *recommendationStage) Validate(deps Deps) error {
	if deps.Analyzer == nil {
		return errMissingAnalyzer
	}
	return nil
}

func (s *recommendationStage) Apply(ctx context.Context, deps Deps, job *ai.JDAnalysis, candidates []*Candidate) (Step, error) {
	log := logger.WithFields(deps.Logger, zap.String("stage", StageRecommendation))

	return forEach(ctx, deps, candidates, func(ctx context.Context, c *Candidate) outcome {
		if c.ResumeScore == nil && c.AudioAnalysis == nil {
			return outcomeSkipped
		}

		text, err := deps.Analyzer.GenerateRecommendation(ctx, ai.RecommendationInput{
			CandidateName: c.Name,
			ResumeScore:   c.ResumeScore,
			Audio:         c.AudioAnalysis,
			Job:           job,
		})
		if err != nil {
			logger.WithFields(log, logger.CandidateFields(c.Key, c.ResumeFile, c.AudioFile)...).
				Warn("recommendation failed", zap.Error(err))
			c.addError(StageRecommendation, err)
			c.Recommendation = ai.FallbackRecommendation(err)
			return outcomeFailed
		}
		c.Recommendation = text

		return outcomeProcessed
	})
}

func (s *recommendationStage) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason}
}
