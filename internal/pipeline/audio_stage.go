package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/logger"
)

const StageAudio = "audio"

type audioStage struct {
	disabled bool
	reason   string
}

// NewAudioStage creates the stage that transcribes and analyzes interviews.
func NewAudioStage() Stage {
	return &audioStage{}
}

func (s *audioStage) Name() string { return StageAudio }

func (s *audioStage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *audioStage) IsEnabled() bool { return !s.disabled }

func (s *audioStage) Validate(deps Deps) error {
	if deps.Transcriber == nil {
		return errors.New("transcriber is required")
	}
	if deps.Analyzer == nil {
		return errMissingAnalyzer
	}
	return nil
}

func (s *audioStage) Apply(ctx context.Context, deps Deps, job *ai.JDAnalysis, candidates []*Candidate) (Step, error) {
	log := logger.WithFields(deps.Logger, zap.String("stage", StageAudio))

	return forEach(ctx, deps, candidates, func(ctx context.Context, c *Candidate) outcome {
		if c.audio == nil {
			return outcomeSkipped
		}
		clog := logger.WithFields(log, logger.CandidateFields(c.Key, c.ResumeFile, c.AudioFile)...)

		transcript, err := deps.Transcriber.Transcribe(ctx, *c.audio)
		if err != nil {
			clog.Warn("transcription failed", zap.Error(err))
			c.addError(StageAudio, err)
			return outcomeFailed
		}
		c.Transcript = transcript

		if strings.TrimSpace(transcript.Text) == "" {
			clog.Info("empty transcript, skipping interview analysis")
			return outcomeSkipped
		}

		analysis, err := deps.Analyzer.AnalyzeAudio(ctx, transcript.Text, job)
		if err != nil {
			clog.Warn("interview analysis failed, using neutral defaults", zap.Error(err))
			c.addError(StageAudio, err)
			c.AudioAnalysis = ai.DefaultAudioAnalysis()
			return outcomeFailed
		}
		c.AudioAnalysis = analysis

		return outcomeProcessed
	})
}

func (s *audioStage) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason}
}
