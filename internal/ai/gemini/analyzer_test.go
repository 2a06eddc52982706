package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/screening"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	textCalls  int
	jsonCalls  int
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.jsonCalls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.textCalls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzeJD(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
  "job_title": "Backend Engineer",
  "job_classification": "Moderate_Engineering",
  "must_have_skills": [
    {"skill": "Python", "type": "single"},
    {"skill": "Database", "type": "or_group", "options": ["MySQL", "MongoDB"]},
    "Kafka",
    {"type": "weird"}
  ],
  "total_experience_required": "5+",
  "relevant_experience_required": {"Python": 3, "Kafka": "two"}
}` + "\n```"}

	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	job, err := analyzer.AnalyzeJD(context.Background(), "We need a backend engineer", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.JobTitle != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", job.JobTitle)
	}
	if job.Classification != ai.ClassificationModerateEngineering {
		t.Fatalf("unexpected classification: %q", job.Classification)
	}
	if len(job.Requirements.MustHave) != 3 {
		t.Fatalf("expected 3 must-have requirements, got %d", len(job.Requirements.MustHave))
	}
	if job.SkippedRequirements != 1 {
		t.Fatalf("expected 1 skipped requirement, got %d", job.SkippedRequirements)
	}
	group, ok := job.Requirements.MustHave[1].(screening.OrGroup)
	if !ok || group.Category != "Database" || len(group.Options) != 2 {
		t.Fatalf("unexpected or-group: %#v", job.Requirements.MustHave[1])
	}
	if len(job.Requirements.NiceToHave) != 0 {
		t.Fatalf("expected no nice-to-have requirements")
	}
	if job.Requirements.TotalExperienceRequired != 5 {
		t.Fatalf("unexpected total experience: %v", job.Requirements.TotalExperienceRequired)
	}
	if got := job.Requirements.RelevantExperienceRequired; len(got) != 1 || got["Python"] != 3 {
		t.Fatalf("unexpected relevant experience: %v", got)
	}

	if !strings.Contains(stub.lastPrompt, "We need a backend engineer") {
		t.Fatalf("expected job description in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "ADDITIONAL CLIENT REQUIREMENTS: none") {
		t.Fatalf("expected default client notes placeholder")
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("unfilled placeholder in prompt: %s", stub.lastPrompt)
	}
}

func TestAnalyzeJDPropagatesErrors(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	analyzer := NewAnalyzer(stub, nil, 0)

	if _, err := analyzer.AnalyzeJD(context.Background(), "text", ""); err == nil {
		t.Fatal("expected generator error")
	}

	stub = &stubGenerator{response: "I cannot help with that."}
	analyzer = NewAnalyzer(stub, nil, 0)

	if _, err := analyzer.AnalyzeJD(context.Background(), "text", ""); !errors.Is(err, errNoJSON) {
		t.Fatalf("expected errNoJSON, got %v", err)
	}

	if _, err := analyzer.AnalyzeJD(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for empty job description")
	}
}

func TestAnalyzeResume(t *testing.T) {
	stub := &stubGenerator{response: `Here you go: {
  "candidate_name": "Jane Doe",
  "candidate_email": "jane@example.com",
  "candidate_phone": null,
  "candidate_linkedin": "null",
  "estimated_total_experience": 6.5,
  "skill_strength": {"Python": "Strong", "MySQL": "moderate", "Go": 3},
  "engineering_depth_score": 22,
  "formatting_score": -1,
  "strengths": ["APIs", ""],
  "concerns": "job hopping",
  "job_hopping_data": {"full_time_roles_last_5_years": 4, "has_valid_explanation": "no"}
} Thanks!`}

	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	job := &ai.JDAnalysis{
		JobTitle:       "Backend Engineer",
		Classification: ai.ClassificationStrictEngineering,
		Requirements: screening.JobRequirements{
			MustHave:                screening.Requirements{screening.Single{Name: "Python"}, screening.NewOrGroup("Database", "MySQL", "MongoDB")},
			NiceToHave:              screening.Requirements{screening.Single{Name: "Docker"}},
			TotalExperienceRequired: 5,
		},
	}

	res, err := analyzer.AnalyzeResume(context.Background(), "Jane Doe resume", job, "Remote only")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CandidateName != "Jane Doe" || !res.HasName() {
		t.Fatalf("unexpected name: %q", res.CandidateName)
	}
	if res.Contact.Email != "jane@example.com" || res.Contact.Phone != "" || res.Contact.LinkedIn != "" {
		t.Fatalf("unexpected contact: %+v", res.Contact)
	}
	if res.Signals.SkillStrength["Python"] != screening.StrengthStrong {
		t.Fatalf("expected normalized strong tier, got %q", res.Signals.SkillStrength["Python"])
	}
	if res.Signals.SkillStrength["Go"] != screening.StrengthMissing {
		t.Fatalf("expected non-tier value to be missing, got %q", res.Signals.SkillStrength["Go"])
	}
	if *res.Signals.EngineeringDepth != 15 {
		t.Fatalf("expected depth clamped to 15, got %d", *res.Signals.EngineeringDepth)
	}
	if *res.Signals.FormattingScore != 0 {
		t.Fatalf("expected formatting clamped to 0, got %d", *res.Signals.FormattingScore)
	}
	if *res.Signals.EstimatedTotalExperience != 6.5 {
		t.Fatalf("unexpected experience: %v", *res.Signals.EstimatedTotalExperience)
	}
	if len(res.Strengths) != 1 || len(res.Concerns) != 1 {
		t.Fatalf("unexpected lists: %v %v", res.Strengths, res.Concerns)
	}
	if res.JobHopping.FullTimeRolesLastFiveYears != 4 || res.JobHopping.HasValidExplanation {
		t.Fatalf("unexpected job hopping data: %+v", res.JobHopping)
	}
	if res.GapReason != "none" || res.SupportHybridPattern != "engineering_heavy" {
		t.Fatalf("expected defaults for absent fields: %+v", res)
	}

	for _, want := range []string{
		"EVALUATE EACH SKILL INDIVIDUALLY, using these exact names as keys of skill_strength: Python, MySQL, MongoDB, Docker",
		"Total experience required: 5 years",
		"Relevant experience required: {}",
		"CLIENT REQUIREMENTS: Remote only",
		"Jane Doe resume",
	} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestAnalyzeResumeDefaultsWhenSignalsAbsent(t *testing.T) {
	stub := &stubGenerator{response: `{"summary": "ok"}`}
	analyzer := NewAnalyzer(stub, nil, 0)

	res, err := analyzer.AnalyzeResume(context.Background(), "text", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CandidateName != ai.UnknownCandidate || res.HasName() {
		t.Fatalf("expected unknown candidate, got %q", res.CandidateName)
	}
	if *res.Signals.EngineeringDepth != 8 || *res.Signals.FormattingScore != 2 || *res.Signals.EstimatedTotalExperience != 5 {
		t.Fatalf("unexpected default signals: %+v", res.Signals)
	}
	if !strings.Contains(stub.lastPrompt, "skill_strength: Python") {
		t.Fatalf("expected default job skills in prompt")
	}
}

func TestAnalyzeAudio(t *testing.T) {
	stub := &stubGenerator{response: `{"technical_score": "85", "communication_score": 140.4, "skills_demonstrated": ["Python"], "technical_notes": "Solid"}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	job := &ai.JDAnalysis{
		JobTitle: "Data Engineer",
		Requirements: screening.JobRequirements{
			MustHave:   screening.Requirements{screening.Single{Name: "Python"}, screening.NewOrGroup("Cloud", "AWS", "GCP")},
			NiceToHave: screening.Requirements{screening.Single{Name: "Docker"}},
		},
	}

	res, err := analyzer.AnalyzeAudio(context.Background(), "Interviewer: tell me about Python.", job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TechnicalScore != 85 || res.CommunicationScore != 100 {
		t.Fatalf("unexpected scores: %+v", res)
	}
	if len(res.SkillsDemonstrated) != 1 || len(res.SkillsMissing) != 0 {
		t.Fatalf("unexpected skills: %+v", res)
	}
	if !strings.Contains(stub.lastPrompt, "KEY SKILLS TO EVALUATE: Python, AWS, GCP\n") {
		t.Fatalf("expected only must-have skills in prompt: %s", stub.lastPrompt)
	}

	if _, err := analyzer.AnalyzeAudio(context.Background(), "", job); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestAnalyzeAudioDefaultsMissingScores(t *testing.T) {
	stub := &stubGenerator{response: `{"technical_notes": "n/a"}`}
	res, err := NewAnalyzer(stub, nil, 0).AnalyzeAudio(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TechnicalScore != 50 || res.CommunicationScore != 50 {
		t.Fatalf("expected neutral scores, got %+v", res)
	}
}

func TestGenerateRecommendation(t *testing.T) {
	stub := &stubGenerator{response: "  Proceed to the next round.  "}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	got, err := analyzer.GenerateRecommendation(context.Background(), ai.RecommendationInput{
		CandidateName: "Jane Doe",
		ResumeScore:   screening.Ptr(72.5),
		Audio:         &ai.AudioAnalysis{TechnicalScore: 80, CommunicationScore: 70},
		Job:           &ai.JDAnalysis{JobTitle: "Backend Engineer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Proceed to the next round." {
		t.Fatalf("unexpected recommendation: %q", got)
	}
	if stub.textCalls != 1 || stub.jsonCalls != 0 {
		t.Fatalf("expected a plain text call")
	}
	for _, want := range []string{"CANDIDATE: Jane Doe", "RESUME SCORE: 72.5/100", "TECHNICAL SCORE: 80/100", "COMMUNICATION SCORE: 70/100"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt missing %q: %s", want, stub.lastPrompt)
		}
	}
}

func TestRecommendWithoutScores(t *testing.T) {
	stub := &stubGenerator{response: "Insufficient data."}

	if _, err := NewAnalyzer(stub, nil, 0).GenerateRecommendation(context.Background(), ai.RecommendationInput{CandidateName: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "RESUME SCORE: N/A/100") {
		t.Fatalf("expected N/A resume score: %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "TECHNICAL SCORE") {
		t.Fatalf("expected no audio scores: %s", stub.lastPrompt)
	}
}

func TestAnalyzerLogsTruncatedPayloads(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: `{"technical_score": 70, "communication_score": 60}`}
	analyzer := NewAnalyzer(stub, zap.New(core), 10)

	if _, err := analyzer.AnalyzeAudio(context.Background(), "a long transcript", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["analysis"] != "audio" {
		t.Fatalf("unexpected analysis field: %v", ctx["analysis"])
	}
	preview, _ := ctx["prompt_preview"].(string)
	if len([]rune(preview)) != 13 || !strings.HasSuffix(preview, "...") {
		t.Fatalf("expected truncated preview, got %q", preview)
	}
}
