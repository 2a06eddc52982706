// Package scoring converts a candidate's skill strengths and auxiliary
// metrics into a bounded, explainable 0-100 score.
//
// Everything here is a pure function of its inputs and safe for concurrent use.
package scoring

import "math"

// Weights holds the score allocation. The zero value is not usable; start from
// DefaultWeights.
type Weights struct {
	Base                float64 `mapstructure:"base" json:"base" validate:"gte=0,lte=100"`
	MustHaveMax         float64 `mapstructure:"must-have-max" json:"must_have_max" validate:"gte=0,lte=100"`
	NiceToHaveMax       float64 `mapstructure:"nice-to-have-max" json:"nice_to_have_max" validate:"gte=0,lte=100"`
	SuitabilityMax      float64 `mapstructure:"suitability-max" json:"suitability_max" validate:"gte=0,lte=100"`
	FormattingMax       int     `mapstructure:"formatting-max" json:"formatting_max" validate:"gte=0"`
	DepthScale          float64 `mapstructure:"depth-scale" json:"depth_scale" validate:"gt=0"`
	ExperienceTolerance int     `mapstructure:"experience-tolerance" json:"experience_tolerance" validate:"gte=0"`
	DefaultDepth        int     `mapstructure:"default-depth" json:"default_depth" validate:"gte=0"`
	DefaultFormatting   int     `mapstructure:"default-formatting" json:"default_formatting" validate:"gte=0"`
}

// DefaultWeights returns the standard allocation: base 40, must-have 30,
// nice-to-have 5 and suitability 25, with formatting (0-3) reported only.
func DefaultWeights() Weights {
	return Weights{
		Base:                40,
		MustHaveMax:         30,
		NiceToHaveMax:       5,
		SuitabilityMax:      25,
		FormattingMax:       3,
		DepthScale:          15,
		ExperienceTolerance: 1,
		DefaultDepth:        8,
		DefaultFormatting:   2,
	}
}

// MaxScore is the upper bound of every final score.
const MaxScore = 100.0

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
