package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/utils"
)

type contentGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var (
	//go:embed prompts/jd.md
	jdPrompt string
	//go:embed prompts/resume.md
	resumePrompt string
	//go:embed prompts/audio.md
	audioPrompt string
	//go:embed prompts/recommendation.md
	recommendationPrompt string
)

const (
	defaultMaxLogLength = 200

	maxJDRunes         = 8000
	maxResumeRunes     = 6000
	maxTranscriptRunes = 8000

	fallbackSkillList = "Python, SQL, Git"
	none              = "none"
)

var _ ai.Analyzer = (*Analyzer)(nil)

// Analyzer implements ai.Analyzer on top of a Gemini generator.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// AnalyzeJD extracts the title, classification and requirements of a job
// description. Malformed requirement entries are dropped and counted.
func (a *Analyzer) AnalyzeJD(ctx context.Context, text, clientNotes string) (*ai.JDAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("job description text is required")
	}

	prompt := fillTemplate(jdPrompt, map[string]string{
		"JD_TEXT":      utils.TruncateRunes(text, maxJDRunes),
		"CLIENT_NOTES": orNone(clientNotes),
	})

	data, err := a.generateObject(ctx, "jd", prompt)
	if err != nil {
		return nil, err
	}

	return parseJDAnalysis(data)
}

func parseJDAnalysis(data map[string]any) (*ai.JDAnalysis, error) {
	fallback := ai.DefaultJDAnalysis()

	sanitized := map[string]any{
		"must_have_skills":             listOrEmpty(data["must_have_skills"]),
		"nice_to_have_skills":          listOrEmpty(data["nice_to_have_skills"]),
		"total_experience_required":    numberOr(data, "total_experience_required", fallback.Requirements.TotalExperienceRequired),
		"relevant_experience_required": coerceFloatMap(data["relevant_experience_required"]),
	}

	requirements, skipped, err := screening.DecodeJobRequirements(sanitized)
	if err != nil {
		return nil, err
	}

	return &ai.JDAnalysis{
		JobTitle:                stringOr(data, "job_title", fallback.JobTitle),
		Classification:          parseClassification(coerceString(data["job_classification"])),
		ClassificationReasoning: coerceString(data["classification_reasoning"]),
		Requirements:            requirements,
		SkippedRequirements:     skipped,
	}, nil
}

func parseClassification(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ai.ClassificationModerateEngineering:
		return ai.ClassificationModerateEngineering
	case ai.ClassificationSupportOK:
		return ai.ClassificationSupportOK
	default:
		return ai.ClassificationStrictEngineering
	}
}

// AnalyzeResume derives candidate signals from resume text in the context of
// the analyzed job.
func (a *Analyzer) AnalyzeResume(ctx context.Context, text string, job *ai.JDAnalysis, clientNotes string) (*ai.ResumeAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("resume text is required")
	}
	if job == nil {
		job = ai.DefaultJDAnalysis()
	}

	relevant, err := json.Marshal(job.Requirements.RelevantExperienceRequired)
	if err != nil {
		return nil, fmt.Errorf("marshal relevant experience: %w", err)
	}
	if job.Requirements.RelevantExperienceRequired == nil {
		relevant = []byte("{}")
	}

	skills := skillNames(job.Requirements.MustHave, job.Requirements.NiceToHave)
	skillList := strings.Join(skills, ", ")
	if skillList == "" {
		skillList = fallbackSkillList
	}

	prompt := fillTemplate(resumePrompt, map[string]string{
		"JOB_TITLE":           job.JobTitle,
		"CLASSIFICATION":      job.Classification,
		"TOTAL_EXPERIENCE":    formatYears(job.Requirements.TotalExperienceRequired),
		"RELEVANT_EXPERIENCE": string(relevant),
		"CLIENT_NOTES":        orNone(clientNotes),
		"RESUME_TEXT":         utils.TruncateRunes(text, maxResumeRunes),
		"SKILL_LIST":          skillList,
	})

	data, err := a.generateObject(ctx, "resume", prompt)
	if err != nil {
		return nil, err
	}

	return parseResumeAnalysis(data), nil
}

func parseResumeAnalysis(data map[string]any) *ai.ResumeAnalysis {
	strengths := screening.StrengthMap{}
	if raw, ok := data["skill_strength"].(map[string]any); ok {
		for skill, tier := range raw {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			strengths[skill] = screening.ParseStrength(coerceString(tier))
		}
	}

	signals := screening.CandidateSignals{
		SkillStrength:               strengths,
		EstimatedTotalExperience:    screening.Ptr(numberOr(data, "estimated_total_experience", 5)),
		EstimatedRelevantExperience: coerceFloatMap(data["estimated_relevant_experience"]),
		EngineeringDepth:            screening.Ptr(clampInt(numberOr(data, "engineering_depth_score", 8), 0, 15)),
		FormattingScore:             screening.Ptr(clampInt(numberOr(data, "formatting_score", 2), 0, 3)),
	}

	hopping := ai.JobHopping{HasValidExplanation: true}
	if raw, ok := data["job_hopping_data"].(map[string]any); ok {
		hopping.FullTimeRolesLastFiveYears = int(numberOr(raw, "full_time_roles_last_5_years", 0))
		hopping.ShortTenureRoles = int(numberOr(raw, "short_tenure_ft_roles_count", 0))
		if v, ok := raw["has_valid_explanation"]; ok {
			hopping.HasValidExplanation = coerceBool(v)
		}
	}

	return &ai.ResumeAnalysis{
		CandidateName: stringOr(data, "candidate_name", ai.UnknownCandidate),
		Contact: ai.Contact{
			Email:    coerceContact(data["candidate_email"]),
			Phone:    coerceContact(data["candidate_phone"]),
			LinkedIn: coerceContact(data["candidate_linkedin"]),
		},
		Signals:                   signals,
		SupportHybridPattern:      stringOr(data, "support_hybrid_pattern", "engineering_heavy"),
		PatternReasoning:          coerceString(data["pattern_reasoning"]),
		EngineeringDepthReasoning: coerceString(data["engineering_depth_reasoning"]),
		FormattingNotes:           coerceString(data["formatting_notes"]),
		CareerGapMonths:           int(numberOr(data, "career_gap_months", 0)),
		GapReason:                 stringOr(data, "gap_reason", none),
		GapIsRecent:               coerceBool(data["gap_is_recent"]),
		JobHopping:                hopping,
		Summary:                   coerceString(data["summary"]),
		Strengths:                 coerceStrings(data["strengths"]),
		Concerns:                  coerceStrings(data["concerns"]),
	}
}

// AnalyzeAudio rates an interview transcript against the job's must-have skills.
func (a *Analyzer) AnalyzeAudio(ctx context.Context, transcript string, job *ai.JDAnalysis) (*ai.AudioAnalysis, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("transcript is required")
	}
	if job == nil {
		job = ai.DefaultJDAnalysis()
	}

	prompt := fillTemplate(audioPrompt, map[string]string{
		"JOB_TITLE":  job.JobTitle,
		"SKILL_LIST": strings.Join(skillNames(job.Requirements.MustHave), ", "),
		"TRANSCRIPT": utils.TruncateRunes(transcript, maxTranscriptRunes),
	})

	data, err := a.generateObject(ctx, "audio", prompt)
	if err != nil {
		return nil, err
	}

	return parseAudioAnalysis(data), nil
}

func parseAudioAnalysis(data map[string]any) *ai.AudioAnalysis {
	return &ai.AudioAnalysis{
		TechnicalScore:     clampInt(numberOr(data, "technical_score", 50), 0, 100),
		CommunicationScore: clampInt(numberOr(data, "communication_score", 50), 0, 100),
		SkillsDemonstrated: coerceStrings(data["skills_demonstrated"]),
		SkillsMissing:      coerceStrings(data["skills_missing"]),
		TechnicalNotes:     coerceString(data["technical_notes"]),
		CommunicationNotes: coerceString(data["communication_notes"]),
		TranscriptSummary:  coerceString(data["transcript_summary"]),
	}
}

// GenerateRecommendation asks for a short hiring recommendation.
func (a *Analyzer) GenerateRecommendation(ctx context.Context, in ai.RecommendationInput) (string, error) {
	job := in.Job
	if job == nil {
		job = ai.DefaultJDAnalysis()
	}

	resumeScore := "N/A"
	if in.ResumeScore != nil {
		resumeScore = formatYears(*in.ResumeScore)
	}

	audioScores := ""
	if in.Audio != nil {
		audioScores = fmt.Sprintf("TECHNICAL SCORE: %d/100\nCOMMUNICATION SCORE: %d/100\n",
			in.Audio.TechnicalScore, in.Audio.CommunicationScore)
	}

	prompt := fillTemplate(recommendationPrompt, map[string]string{
		"JOB_TITLE":      job.JobTitle,
		"CANDIDATE_NAME": in.CandidateName,
		"RESUME_SCORE":   resumeScore,
		"AUDIO_SCORES":   audioScores,
	})

	a.logRequest("recommendation", prompt)

	raw, err := a.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	a.logResponse("recommendation", raw)

	return strings.TrimSpace(raw), nil
}

func (a *Analyzer) generateObject(ctx context.Context, kind, prompt string) (map[string]any, error) {
	a.logRequest(kind, prompt)

	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logResponse(kind, raw)

	return decodeObject(raw)
}

func (a *Analyzer) logRequest(kind, prompt string) {
	a.logger.Debug("gemini generate content request",
		zap.String("analysis", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)
}

func (a *Analyzer) logResponse(kind, raw string) {
	a.logger.Debug("gemini generate content response",
		zap.String("analysis", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)
}

func fillTemplate(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// skillNames flattens requirements into the names the model should rate: the
// name of each single skill and every option of each group.
func skillNames(lists ...screening.Requirements) []string {
	var names []string
	for _, list := range lists {
		for _, req := range list {
			switch r := req.(type) {
			case screening.Single:
				names = append(names, r.Name)
			case screening.OrGroup:
				names = append(names, r.Options...)
			}
		}
	}
	return names
}

func listOrEmpty(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case nil:
		return []any{}
	default:
		return []any{val}
	}
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return none
	}
	return s
}

func formatYears(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
