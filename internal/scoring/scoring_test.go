package scoring

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/screener/internal/screening"
)

func singles(names ...string) screening.Requirements {
	out := make(screening.Requirements, 0, len(names))
	for _, name := range names {
		out = append(out, screening.Single{Name: name})
	}
	return out
}

func TestResolveOrGroupMultiplierWinsOverOrder(t *testing.T) {
	t.Parallel()

	matched, strength := ResolveOrGroup(
		[]string{"MySQL", "MongoDB"},
		screening.StrengthMap{"mongodb": screening.StrengthModerate, "mysql": screening.StrengthStrong},
	)

	assert.Equal(t, "MySQL", matched)
	assert.Equal(t, screening.StrengthStrong, strength)
}

func TestResolveOrGroupTieKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	strengths := screening.StrengthMap{"a": screening.StrengthStrong, "b": screening.StrengthStrong}

	for i := 0; i < 20; i++ {
		matched, strength := ResolveOrGroup([]string{"A", "B"}, strengths)
		require.Equal(t, "A", matched)
		require.Equal(t, screening.StrengthStrong, strength)
	}
}

func TestResolveOrGroupLaterStrongerOptionWins(t *testing.T) {
	t.Parallel()

	matched, strength := ResolveOrGroup(
		[]string{"Jenkins", "GitHub Actions", "GitLab CI"},
		screening.StrengthMap{"Jenkins": screening.StrengthWeak, "gitlab ci": screening.StrengthModerate},
	)

	assert.Equal(t, "GitLab CI", matched)
	assert.Equal(t, screening.StrengthModerate, strength)
}

func TestResolveOrGroupNothingDemonstrated(t *testing.T) {
	t.Parallel()

	matched, strength := ResolveOrGroup([]string{"AWS", "GCP"}, screening.StrengthMap{"azure": screening.StrengthStrong})

	assert.Empty(t, matched)
	assert.Equal(t, screening.StrengthMissing, strength)
}

func TestMustHaveTotalBounded(t *testing.T) {
	t.Parallel()

	tiers := []screening.Strength{
		screening.StrengthStrong,
		screening.StrengthModerate,
		screening.StrengthWeak,
		screening.StrengthMissing,
	}
	w := DefaultWeights()

	for n := 1; n <= 7; n++ {
		for pick := 0; pick < len(tiers); pick++ {
			names := make([]string, n)
			strengths := screening.StrengthMap{}
			for i := range names {
				names[i] = fmt.Sprintf("skill%d", i)
				strengths[names[i]] = tiers[(i+pick)%len(tiers)]
			}

			score := EvaluateSkills(singles(names...), nil, strengths, w)
			assert.LessOrEqual(t, score.MustHaveTotal, w.MustHaveMax, "n=%d pick=%d", n, pick)

			sum := 0.0
			for _, record := range score.Categories[0].Records {
				sum += record.Points
			}
			assert.LessOrEqual(t, sum, w.MustHaveMax+0.5, "record points n=%d pick=%d", n, pick)
		}
	}
}

func TestMustHaveFullPointsOnlyWhenAllStrong(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	names := []string{"Python", "Go", "SQL"}

	allStrong := screening.StrengthMap{"python": "strong", "go": "strong", "sql": "strong"}
	assert.Equal(t, 30.0, EvaluateSkills(singles(names...), nil, allStrong, w).MustHaveTotal)

	oneModerate := screening.StrengthMap{"python": "strong", "go": "moderate", "sql": "strong"}
	got := EvaluateSkills(singles(names...), nil, oneModerate, w).MustHaveTotal
	assert.Less(t, got, 30.0)
	assert.Equal(t, 27.0, got)
}

func TestMustHaveRecords(t *testing.T) {
	t.Parallel()

	reqs := screening.Requirements{
		screening.Single{Name: "Python"},
		screening.NewOrGroup("Database", "MySQL", "MongoDB", "PostgreSQL"),
		screening.Single{Name: "Kafka"},
	}
	strengths := screening.StrengthMap{
		"Python":     screening.StrengthModerate,
		"PostgreSQL": screening.StrengthWeak,
	}

	score := EvaluateSkills(reqs, nil, strengths, DefaultWeights())
	require.Len(t, score.Categories, 1)

	category := score.Categories[0]
	assert.Equal(t, CategoryMustHave, category.Name)
	assert.Equal(t, 30.0, category.Max)
	// 10*0.7 + 10*0.3 + 0 = 10
	assert.Equal(t, 10.0, category.Total)
	assert.Equal(t, 10.0, score.MustHaveTotal)

	require.Len(t, category.Records, 3)
	assert.Equal(t, screening.SkillScoreRecord{
		Label: "Python", Strength: screening.StrengthModerate, Points: 7, MaxPoints: 10, HasSkill: true,
	}, category.Records[0])
	assert.Equal(t, screening.SkillScoreRecord{
		Label:         "Database (MySQL/MongoDB/PostgreSQL)",
		Strength:      screening.StrengthWeak,
		MatchedOption: "PostgreSQL",
		Points:        3,
		MaxPoints:     10,
		IsOrGroup:     true,
		HasSkill:      true,
	}, category.Records[1])
	assert.Equal(t, screening.StrengthMissing, category.Records[2].Strength)
	assert.Zero(t, category.Records[2].Points)
	assert.False(t, category.Records[2].HasSkill)
}

func TestMustHaveRecordPointsRoundedToOneDecimal(t *testing.T) {
	t.Parallel()

	score := EvaluateSkills(singles("a", "b", "c", "d", "e", "f", "g"), nil, screening.StrengthMap{"a": "moderate"}, DefaultWeights())

	record := score.Categories[0].Records[0]
	// 30/7 = 4.2857..., *0.7 = 3.0
	assert.Equal(t, 3.0, record.Points)
	assert.Equal(t, 4.3, record.MaxPoints)
	assert.Equal(t, 3.0, score.MustHaveTotal)
}

func TestNiceToHaveBinary(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	for m := 1; m <= 10; m++ {
		for k := 0; k <= m; k++ {
			names := make([]string, m)
			strengths := screening.StrengthMap{}
			for i := range names {
				names[i] = fmt.Sprintf("nice%d", i)
				if i < k {
					strengths[names[i]] = screening.StrengthWeak
				}
			}

			score := EvaluateSkills(nil, singles(names...), strengths, w)
			want := math.RoundToEven(5 * float64(k) / float64(m))
			assert.Equal(t, want, score.NiceToHaveTotal, "m=%d k=%d", m, k)
		}
	}
}

func TestNiceToHaveOrGroup(t *testing.T) {
	t.Parallel()

	reqs := screening.Requirements{
		screening.Single{Name: "Docker"},
		screening.NewOrGroup("Container Orchestration", "Kubernetes", "ECS"),
	}

	score := EvaluateSkills(nil, reqs, screening.StrengthMap{"ecs": "weak"}, DefaultWeights())
	require.Len(t, score.Categories, 1)

	category := score.Categories[0]
	assert.Equal(t, CategoryNiceToHave, category.Name)
	assert.Equal(t, 2.5, category.Total)
	assert.False(t, category.Records[0].HasSkill)
	assert.True(t, category.Records[1].HasSkill)
	assert.Equal(t, "ECS", category.Records[1].MatchedOption)
	assert.Equal(t, 2.5, category.Records[1].Points)
	assert.Equal(t, 2.0, score.NiceToHaveTotal)
}

func TestCategoryHalvesRoundToEven(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	tests := []struct {
		name       string
		mustHave   screening.Requirements
		niceToHave screening.Requirements
		strengths  screening.StrengthMap
		wantMust   float64
		wantNice   float64
	}{
		{
			name:      "must-have 4.5 rounds down",
			mustHave:  singles("a", "b"),
			strengths: screening.StrengthMap{"a": screening.StrengthWeak},
			wantMust:  4,
		},
		{
			name:      "must-have 10.5 rounds down",
			mustHave:  singles("a", "b"),
			strengths: screening.StrengthMap{"a": screening.StrengthModerate},
			wantMust:  10,
		},
		{
			name:      "must-have 19.5 rounds up",
			mustHave:  singles("a", "b"),
			strengths: screening.StrengthMap{"a": screening.StrengthStrong, "b": screening.StrengthWeak},
			wantMust:  20,
		},
		{
			name:       "nice-to-have 2.5 rounds down",
			niceToHave: singles("a", "b"),
			strengths:  screening.StrengthMap{"a": screening.StrengthWeak},
			wantNice:   2,
		},
		{
			name:       "nice-to-have 0.5 rounds down",
			niceToHave: singles("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
			strengths:  screening.StrengthMap{"a": screening.StrengthStrong},
			wantNice:   0,
		},
		{
			name:       "nice-to-have 1.5 rounds up",
			niceToHave: singles("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
			strengths:  screening.StrengthMap{"a": screening.StrengthStrong, "b": screening.StrengthWeak, "c": screening.StrengthModerate},
			wantNice:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score := EvaluateSkills(tt.mustHave, tt.niceToHave, tt.strengths, w)
			assert.Equal(t, tt.wantMust, score.MustHaveTotal)
			assert.Equal(t, tt.wantNice, score.NiceToHaveTotal)
		})
	}
}

func TestComposerUsesEvenRoundedSubtotals(t *testing.T) {
	t.Parallel()

	result := NewComposer(DefaultWeights()).Score(
		screening.JobRequirements{NiceToHave: singles("a", "b")},
		screening.CandidateSignals{
			SkillStrength:    screening.StrengthMap{"a": screening.StrengthWeak},
			EngineeringDepth: screening.Ptr(6),
		},
	)

	// base 40 + nice-to-have round(2.5)=2 + suitability 10
	assert.Equal(t, 2.0, result.Breakdown.NiceToHaveTotal)
	assert.Equal(t, 52.0, result.FinalScore)
}

func TestEmptyCategoriesOmitted(t *testing.T) {
	t.Parallel()

	score := EvaluateSkills(nil, nil, screening.StrengthMap{"python": "strong"}, DefaultWeights())

	assert.Empty(t, score.Categories)
	assert.Zero(t, score.MustHaveTotal)
	assert.Zero(t, score.NiceToHaveTotal)
}

func TestRoundExperience(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, RoundExperience(4.5))
	assert.Equal(t, 4, RoundExperience(4.49))
	assert.Equal(t, 0, RoundExperience(0))
	assert.Equal(t, 7, RoundExperience(6.5))
	assert.Equal(t, 1, RoundExperience(0.5))
}

func TestAssessExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate float64
		required  float64
		levels    []screening.NoteLevel
		messages  []string
	}{
		{
			name:      "meets requirement",
			candidate: 6.5, required: 5,
			levels:   []screening.NoteLevel{screening.NoteInfo},
			messages: []string{"Has 7+ years (required: 5)"},
		},
		{
			name:      "within tolerance",
			candidate: 3.6, required: 5,
			levels:   []screening.NoteLevel{screening.NoteTolerance},
			messages: []string{"Has 4 years (required: 5, within tolerance)"},
		},
		{
			name:      "rounding lifts candidate to requirement",
			candidate: 4.5, required: 5,
			levels:   []screening.NoteLevel{screening.NoteInfo},
			messages: []string{"Has 5+ years (required: 5)"},
		},
		{
			name:      "gap",
			candidate: 2, required: 5,
			levels:   []screening.NoteLevel{screening.NoteWarning, screening.NoteGap},
			messages: []string{"Has 2 years (required: 5)", "Experience gap: 3 years below requirement"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			notes := AssessExperience(tt.candidate, tt.required, 1, map[string]float64{"Go": 3}, nil)
			require.Len(t, notes, len(tt.levels))
			for i := range notes {
				assert.Equal(t, tt.levels[i], notes[i].Level)
				assert.Equal(t, tt.messages[i], notes[i].Message)
			}
		})
	}
}

func TestSuitability(t *testing.T) {
	t.Parallel()

	c := NewComposer(DefaultWeights())

	assert.Equal(t, 0.0, c.Suitability(0))
	assert.Equal(t, 10.0, c.Suitability(6))
	assert.Equal(t, 13.0, c.Suitability(8))
	assert.Equal(t, 25.0, c.Suitability(15))
	assert.Equal(t, 25.0, c.Suitability(40))
	assert.Equal(t, 0.0, c.Suitability(-3))
}

func TestComposerEndToEnd(t *testing.T) {
	t.Parallel()

	c := NewComposer(DefaultWeights())

	result := c.Score(
		screening.JobRequirements{MustHave: singles("Python")},
		screening.CandidateSignals{
			SkillStrength:    screening.StrengthMap{"python": screening.StrengthWeak},
			EngineeringDepth: screening.Ptr(6),
			FormattingScore:  screening.Ptr(2),
		},
	)

	assert.Equal(t, 59.0, result.FinalScore)
	assert.Equal(t, 40.0, result.Breakdown.Base)
	assert.Equal(t, 9.0, result.Breakdown.MustHaveTotal)
	assert.Equal(t, 0.0, result.Breakdown.NiceToHaveTotal)
	assert.Equal(t, 10.0, result.Breakdown.Suitability)
	assert.Equal(t, 2, result.Breakdown.Formatting)
	assert.Equal(t, 59.0, result.Breakdown.GrandTotal)
	assert.Len(t, result.Breakdown.Categories, 1)
}

func TestComposerDefaultsForMissingSignals(t *testing.T) {
	t.Parallel()

	result := NewComposer(DefaultWeights()).Score(screening.JobRequirements{TotalExperienceRequired: 3}, screening.CandidateSignals{})

	// base 40 + suitability round(8*25/15)=13
	assert.Equal(t, 53.0, result.FinalScore)
	assert.Equal(t, 2, result.Breakdown.Formatting)
	assert.Equal(t, 13.0, result.Breakdown.Suitability)
	assert.NotNil(t, result.Breakdown.Categories)
	require.Len(t, result.Breakdown.ExperienceNotes, 2)
	assert.Equal(t, screening.NoteWarning, result.Breakdown.ExperienceNotes[0].Level)
}

func TestComposerFormattingIsInformational(t *testing.T) {
	t.Parallel()

	c := NewComposer(DefaultWeights())
	job := screening.JobRequirements{MustHave: singles("Go")}

	low := c.Score(job, screening.CandidateSignals{FormattingScore: screening.Ptr(0)})
	high := c.Score(job, screening.CandidateSignals{FormattingScore: screening.Ptr(9)})

	assert.Equal(t, low.FinalScore, high.FinalScore)
	assert.Equal(t, 0, low.Breakdown.Formatting)
	assert.Equal(t, 3, high.Breakdown.Formatting)
}

func TestComposerExperienceNeverChangesScore(t *testing.T) {
	t.Parallel()

	c := NewComposer(DefaultWeights())
	job := screening.JobRequirements{MustHave: singles("Go"), TotalExperienceRequired: 10}
	strengths := screening.StrengthMap{"go": "strong"}

	junior := c.Score(job, screening.CandidateSignals{SkillStrength: strengths, EstimatedTotalExperience: screening.Ptr(1.0)})
	senior := c.Score(job, screening.CandidateSignals{SkillStrength: strengths, EstimatedTotalExperience: screening.Ptr(15.0)})

	assert.Equal(t, junior.FinalScore, senior.FinalScore)
	assert.NotEqual(t, junior.Breakdown.ExperienceNotes, senior.Breakdown.ExperienceNotes)
}

func TestComposerClampsFinalScore(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	w.Base = 80
	c := NewComposer(w)

	result := c.Score(
		screening.JobRequirements{MustHave: singles("Go"), NiceToHave: singles("Docker")},
		screening.CandidateSignals{
			SkillStrength:    screening.StrengthMap{"go": "strong", "docker": "strong"},
			EngineeringDepth: screening.Ptr(15),
		},
	)

	assert.Equal(t, 100.0, result.FinalScore)
	assert.Equal(t, 100.0, result.Breakdown.GrandTotal)

	w = DefaultWeights()
	w.Base = -200
	negative := NewComposer(w).Score(screening.JobRequirements{}, screening.CandidateSignals{})
	assert.Equal(t, 0.0, negative.FinalScore)
}

func TestNewComposerZeroWeightsFallBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultWeights(), NewComposer(Weights{}).Weights())
}
