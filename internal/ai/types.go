package ai

import (
	"fmt"

	"github.com/spigell/screener/internal/screening"
)

// Job classifications reported by JD analysis.
const (
	ClassificationStrictEngineering   = "strict_engineering"
	ClassificationModerateEngineering = "moderate_engineering"
	ClassificationSupportOK           = "support_ok"
)

// UnknownCandidate is the name reported when a resume does not reveal one.
const UnknownCandidate = "Unknown"

const analysisFailed = "Analysis failed"

// JDAnalysis is the structured reading of a job description.
type JDAnalysis struct {
	JobTitle                string                    `json:"job_title"`
	Classification          string                    `json:"job_classification"`
	ClassificationReasoning string                    `json:"classification_reasoning,omitempty"`
	Requirements            screening.JobRequirements `json:"requirements"`
	// SkippedRequirements counts malformed requirement entries dropped at ingestion.
	SkippedRequirements int `json:"skipped_requirements,omitempty"`
}

// Contact holds the contact details found on a resume.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// JobHopping summarizes recent full-time tenure.
type JobHopping struct {
	FullTimeRolesLastFiveYears int  `json:"full_time_roles_last_5_years"`
	ShortTenureRoles           int  `json:"short_tenure_ft_roles_count"`
	HasValidExplanation        bool `json:"has_valid_explanation"`
}

// ResumeAnalysis is the structured reading of a resume against a job.
type ResumeAnalysis struct {
	CandidateName string                     `json:"candidate_name"`
	Contact       Contact                    `json:"contact"`
	Signals       screening.CandidateSignals `json:"signals"`

	SupportHybridPattern      string     `json:"support_hybrid_pattern,omitempty"`
	PatternReasoning          string     `json:"pattern_reasoning,omitempty"`
	EngineeringDepthReasoning string     `json:"engineering_depth_reasoning,omitempty"`
	FormattingNotes           string     `json:"formatting_notes,omitempty"`
	CareerGapMonths           int        `json:"career_gap_months"`
	GapReason                 string     `json:"gap_reason,omitempty"`
	GapIsRecent               bool       `json:"gap_is_recent"`
	JobHopping                JobHopping `json:"job_hopping"`

	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
}

// HasName reports whether the analysis found a usable candidate name.
func (r *ResumeAnalysis) HasName() bool {
	return r != nil && r.CandidateName != "" && r.CandidateName != UnknownCandidate
}

// AudioAnalysis rates an interview transcript. Scores are 0-100.
type AudioAnalysis struct {
	TechnicalScore     int      `json:"technical_score"`
	CommunicationScore int      `json:"communication_score"`
	SkillsDemonstrated []string `json:"skills_demonstrated"`
	SkillsMissing      []string `json:"skills_missing"`
	TechnicalNotes     string   `json:"technical_notes"`
	CommunicationNotes string   `json:"communication_notes"`
	TranscriptSummary  string   `json:"transcript_summary"`
}

// Transcript is the text of an interview recording.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	// Duration is in seconds.
	Duration float64 `json:"duration"`
}

// DefaultJDAnalysis is used when the job description cannot be analyzed.
func DefaultJDAnalysis() *JDAnalysis {
	return &JDAnalysis{
		JobTitle:       "Technical Position",
		Classification: ClassificationStrictEngineering,
		Requirements: screening.JobRequirements{
			MustHave:                   screening.Requirements{screening.Single{Name: "Python"}},
			NiceToHave:                 screening.Requirements{},
			TotalExperienceRequired:    5,
			RelevantExperienceRequired: map[string]float64{},
		},
	}
}

// DefaultResumeAnalysis is used when a resume cannot be analyzed. It carries
// no skill evidence, so the candidate scores only the base and defaults.
func DefaultResumeAnalysis() *ResumeAnalysis {
	return &ResumeAnalysis{
		CandidateName: UnknownCandidate,
		Signals: screening.CandidateSignals{
			SkillStrength:            screening.StrengthMap{},
			EstimatedTotalExperience: screening.Ptr(5.0),
		},
		Summary:   analysisFailed,
		Strengths: []string{},
		Concerns:  []string{analysisFailed},
	}
}

// DefaultAudioAnalysis is used when a transcript cannot be analyzed.
func DefaultAudioAnalysis() *AudioAnalysis {
	return &AudioAnalysis{
		TechnicalScore:     50,
		CommunicationScore: 50,
		SkillsDemonstrated: []string{},
		SkillsMissing:      []string{},
		TechnicalNotes:     analysisFailed,
		CommunicationNotes: analysisFailed,
	}
}

// FallbackRecommendation is the text recorded when no recommendation could be
// generated.
func FallbackRecommendation(err error) string {
	return fmt.Sprintf("Unable to generate recommendation: %v", err)
}
