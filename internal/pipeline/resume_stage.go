package pipeline

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/extract"
	"github.com/spigell/screener/internal/logger"
)

const StageResume = "resume"

type resumeStage struct {
	disabled bool
	reason   string
	deps     Deps
}

// NewResumeStage creates the stage that extracts, analyzes and scores resumes.
func NewResumeStage() Stage {
	return &resumeStage{}
}

func (s *resumeStage) Name() string { return StageResume }

func (s *resumeStage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *resumeStage) IsEnabled() bool { return !s.disabled }

func (s *resumeStage) Validate(deps Deps) error {
	s.deps = deps
	if deps.Analyzer == nil {
		return errMissingAnalyzer
	}
	if deps.Composer == nil {
		return errors.New("score composer is required")
	}
	return nil
}

func (s *resumeStage) Apply(ctx context.Context, deps Deps, job *ai.JDAnalysis, candidates []*Candidate) (Step, error) {
	log := logger.WithFields(deps.Logger, zap.String("stage", StageResume))

	return forEach(ctx, deps, candidates, func(ctx context.Context, c *Candidate) outcome {
		if c.resume == nil {
			return outcomeSkipped
		}
		clog := logger.WithFields(log, logger.CandidateFields(c.Key, c.ResumeFile, c.AudioFile)...)

		text, err := extract.Text(c.resume.Filename, c.resume.Data)
		if err != nil {
			clog.Warn("resume text extraction failed", zap.Error(err))
			c.addError(StageResume, err)
			return outcomeFailed
		}

		result := outcomeProcessed
		analysis, err := deps.Analyzer.AnalyzeResume(ctx, text, job, deps.ClientNotes)
		if err != nil {
			clog.Warn("resume analysis failed, using neutral defaults", zap.Error(err))
			c.addError(StageResume, err)
			analysis = ai.DefaultResumeAnalysis()
			result = outcomeFailed
		}

		if analysis.HasName() {
			c.Name = analysis.CandidateName
		}
		c.ResumeAnalysis = analysis

		score := deps.Composer.Score(job.Requirements, analysis.Signals)
		c.Score = &score
		c.ResumeScore = &score.FinalScore

		clog.Debug("resume scored",
			zap.String("candidate", c.Name),
			zap.Float64("score", score.FinalScore),
		)

		return result
	})
}

func (s *resumeStage) Status() Status {
	details := map[string]string{}
	if s.deps.Composer != nil {
		w := s.deps.Composer.Weights()
		details["base"] = strconv.FormatFloat(w.Base, 'f', -1, 64)
		details["must_have_max"] = strconv.FormatFloat(w.MustHaveMax, 'f', -1, 64)
		details["nice_to_have_max"] = strconv.FormatFloat(w.NiceToHaveMax, 'f', -1, 64)
		details["suitability_max"] = strconv.FormatFloat(w.SuitabilityMax, 'f', -1, 64)
	}
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason, Details: details}
}
