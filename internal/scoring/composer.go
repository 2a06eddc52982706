package scoring

import (
	"math"

	"github.com/spigell/screener/internal/screening"
)

// Composer turns job requirements and candidate signals into a ScoreResult.
type Composer struct {
	weights Weights
}

// NewComposer returns a Composer using w. A zero Weights value falls back to
// DefaultWeights.
func NewComposer(w Weights) *Composer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	if w.DepthScale <= 0 {
		w.DepthScale = DefaultWeights().DepthScale
	}
	return &Composer{weights: w}
}

// Weights returns the allocation in use.
func (c *Composer) Weights() Weights {
	return c.weights
}

// Suitability rescales engineering depth (0..DepthScale) onto 0..SuitabilityMax.
func (c *Composer) Suitability(depth int) float64 {
	scaled := math.RoundToEven(float64(depth) * c.weights.SuitabilityMax / c.weights.DepthScale)
	return clamp(scaled, 0, c.weights.SuitabilityMax)
}

// Score computes the final score and its breakdown. Missing signals are
// replaced with defaults (depth 8, formatting 2, experience 0) so a full
// breakdown is always returned.
func (c *Composer) Score(job screening.JobRequirements, signals screening.CandidateSignals) screening.ScoreResult {
	w := c.weights

	skills := EvaluateSkills(job.MustHave, job.NiceToHave, signals.SkillStrength, w)

	depth := w.DefaultDepth
	if signals.EngineeringDepth != nil {
		depth = *signals.EngineeringDepth
	}
	suitability := c.Suitability(depth)

	formatting := w.DefaultFormatting
	if signals.FormattingScore != nil {
		formatting = *signals.FormattingScore
	}
	formatting = clampInt(formatting, 0, w.FormattingMax)

	experience := 0.0
	if signals.EstimatedTotalExperience != nil {
		experience = *signals.EstimatedTotalExperience
	}
	notes := AssessExperience(
		experience,
		job.TotalExperienceRequired,
		w.ExperienceTolerance,
		job.RelevantExperienceRequired,
		signals.EstimatedRelevantExperience,
	)

	total := w.Base + skills.MustHaveTotal + skills.NiceToHaveTotal + suitability
	final := roundTo1(clamp(total, 0, MaxScore))

	categories := skills.Categories
	if categories == nil {
		categories = []screening.CategoryBreakdown{}
	}

	return screening.ScoreResult{
		FinalScore: final,
		Breakdown: screening.ScoreBreakdown{
			Base:            w.Base,
			MustHaveTotal:   skills.MustHaveTotal,
			NiceToHaveTotal: skills.NiceToHaveTotal,
			Suitability:     suitability,
			Formatting:      formatting,
			GrandTotal:      final,
			Categories:      categories,
			ExperienceNotes: notes,
		},
	}
}
