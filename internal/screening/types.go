// Package screening holds the data model shared by the identity resolver, the
// scoring engine and the AI collaborators.
package screening

import (
	"encoding/json"
	"strings"
)

// Strength is the categorical confidence level for a demonstrated skill.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
	StrengthMissing  Strength = "missing"
)

// ParseStrength maps free-form tier text to a Strength. Unknown values are missing.
func ParseStrength(s string) Strength {
	switch Strength(strings.ToLower(strings.TrimSpace(s))) {
	case StrengthStrong:
		return StrengthStrong
	case StrengthModerate:
		return StrengthModerate
	case StrengthWeak:
		return StrengthWeak
	default:
		return StrengthMissing
	}
}

// Multiplier returns the share of a requirement's points earned by the tier.
func (s Strength) Multiplier() float64 {
	switch s {
	case StrengthStrong:
		return 1.0
	case StrengthModerate:
		return 0.7
	case StrengthWeak:
		return 0.3
	default:
		return 0.0
	}
}

// UnmarshalJSON accepts any tier text; unknown or non-string values become missing.
func (s *Strength) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = StrengthMissing
		return nil
	}
	*s = ParseStrength(raw)
	return nil
}

// StrengthMap maps a skill or option name to its tier. Lookups ignore case and
// an absent key means missing.
type StrengthMap map[string]Strength

// Lookup resolves name against the map. An exact key wins; otherwise the
// strongest of the case-insensitive matches is used so the result does not
// depend on map iteration order.
func (m StrengthMap) Lookup(name string) Strength {
	if len(m) == 0 {
		return StrengthMissing
	}

	if s, ok := m[name]; ok {
		return ParseStrength(string(s))
	}

	want := strings.ToLower(strings.TrimSpace(name))
	best := StrengthMissing
	found := false
	for key, value := range m {
		if strings.ToLower(strings.TrimSpace(key)) != want {
			continue
		}
		s := ParseStrength(string(value))
		if !found || s.Multiplier() > best.Multiplier() {
			best = s
			found = true
		}
	}

	return best
}

// JobRequirements is the requirement side of a screening, as extracted from a
// job description.
type JobRequirements struct {
	MustHave                   Requirements       `json:"must_have_skills" mapstructure:"must_have_skills"`
	NiceToHave                 Requirements       `json:"nice_to_have_skills" mapstructure:"nice_to_have_skills"`
	TotalExperienceRequired    float64            `json:"total_experience_required" mapstructure:"total_experience_required"`
	RelevantExperienceRequired map[string]float64 `json:"relevant_experience_required,omitempty" mapstructure:"relevant_experience_required"`
}

// CandidateSignals carries the upstream analysis of a single candidate.
// Pointer fields are optional; the composer substitutes defaults when nil.
type CandidateSignals struct {
	SkillStrength               StrengthMap        `json:"skill_strength" mapstructure:"skill_strength"`
	EstimatedTotalExperience    *float64           `json:"estimated_total_experience,omitempty" mapstructure:"estimated_total_experience"`
	EstimatedRelevantExperience map[string]float64 `json:"estimated_relevant_experience,omitempty" mapstructure:"estimated_relevant_experience"`
	EngineeringDepth            *int               `json:"engineering_depth_score,omitempty" mapstructure:"engineering_depth_score"`
	FormattingScore             *int               `json:"formatting_score,omitempty" mapstructure:"formatting_score"`
}

// SkillScoreRecord explains the points awarded for one requirement.
type SkillScoreRecord struct {
	Label         string   `json:"skill"`
	Strength      Strength `json:"strength"`
	MatchedOption string   `json:"matched_option,omitempty"`
	Points        float64  `json:"points"`
	MaxPoints     float64  `json:"max_points"`
	IsOrGroup     bool     `json:"is_or_group,omitempty"`
	HasSkill      bool     `json:"has_skill"`
}

// CategoryBreakdown groups the records of one requirement category.
type CategoryBreakdown struct {
	Name    string             `json:"category"`
	Total   float64            `json:"total_points"`
	Max     float64            `json:"max_points"`
	Records []SkillScoreRecord `json:"skills"`
}

// NoteLevel classifies an experience note.
type NoteLevel string

const (
	NoteInfo      NoteLevel = "info"
	NoteTolerance NoteLevel = "tolerance"
	NoteWarning   NoteLevel = "warning"
	NoteGap       NoteLevel = "gap"
)

// ExperienceNote is advisory output of the experience comparison.
type ExperienceNote struct {
	Level   NoteLevel `json:"level"`
	Message string    `json:"message"`
}

// ScoreBreakdown is the full explanation of a final score.
type ScoreBreakdown struct {
	Base            float64             `json:"base_score"`
	MustHaveTotal   float64             `json:"must_have_score"`
	NiceToHaveTotal float64             `json:"nice_to_have_score"`
	Suitability     float64             `json:"suitability_score"`
	Formatting      int                 `json:"formatting_score"`
	GrandTotal      float64             `json:"total"`
	Categories      []CategoryBreakdown `json:"skills_breakdown"`
	ExperienceNotes []ExperienceNote    `json:"experience_notes"`
}

// ScoreResult is the outcome of scoring one candidate.
type ScoreResult struct {
	FinalScore float64        `json:"final_score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// Ptr returns a pointer to v. Handy for optional signal fields.
func Ptr[T any](v T) *T {
	return &v
}
