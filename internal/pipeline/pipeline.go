// Package pipeline screens resolved candidates through ordered stages: resume
// analysis and scoring, interview analysis and the final recommendation.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/scoring"
)

const defaultConcurrency = 4

// Stage is a single screening step applied to every candidate.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(deps Deps) error
	Apply(ctx context.Context, deps Deps, job *ai.JDAnalysis, candidates []*Candidate) (Step, error)
}

// Deps aggregates dependencies shared across all stages.
type Deps struct {
	Analyzer    ai.Analyzer
	Transcriber ai.Transcriber
	Composer    *scoring.Composer
	Logger      *zap.Logger
	Concurrency int
	ClientNotes string
}

// Step describes the result of executing a stage.
type Step struct {
	Initial   int
	Processed int
	Skipped   int
	Failed    int
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks a stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

// Run validates and then executes the enabled stages in order.
func Run(ctx context.Context, deps Deps, stages []Stage, job *ai.JDAnalysis, candidates []*Candidate) error {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, stage := range stages {
		if !stage.IsEnabled() {
			continue
		}
		if err := stage.Validate(deps); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}
	}

	for _, stage := range stages {
		if !stage.IsEnabled() {
			log.Info("stage disabled", zap.String("name", stage.Name()))
			continue
		}

		info, err := stage.Apply(ctx, deps, job, candidates)
		if err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		log.Info("screening step",
			zap.String("name", stage.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("processed", info.Processed),
			zap.Int("skipped", info.Skipped),
			zap.Int("failed", info.Failed),
		)
	}

	return nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if reporter, ok := stage.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    stage.Name(),
			Enabled: stage.IsEnabled(),
		})
	}
	return statuses
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeProcessed
	outcomeFailed
)

// forEach applies fn to every candidate with at most deps.Concurrency calls in
// flight and tallies the outcomes. Only context cancellation aborts the stage.
func forEach(ctx context.Context, deps Deps, candidates []*Candidate, fn func(context.Context, *Candidate) outcome) (Step, error) {
	limit := deps.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	outcomes := make([]outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, candidate := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = fn(gctx, candidate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Step{}, err
	}
	if err := ctx.Err(); err != nil {
		return Step{}, err
	}

	step := Step{Initial: len(candidates)}
	for _, o := range outcomes {
		switch o {
		case outcomeProcessed:
			step.Processed++
		case outcomeFailed:
			step.Failed++
		default:
			step.Skipped++
		}
	}
	return step, nil
}

var errMissingAnalyzer = errors.New("analyzer is required")
