package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/screener/internal/screening"
)

// RoundExperience rounds years half up: 4.5 becomes 5, 4.49 becomes 4.
func RoundExperience(years float64) int {
	return int(math.Floor(years + 0.5))
}

// AssessExperience compares total experience against the requirement after
// rounding both sides. The result is advisory and never changes a score.
//
// Per-skill relevant experience is accepted but not compared yet.
func AssessExperience(candidate, required float64, tolerance int, _, _ map[string]float64) []screening.ExperienceNote {
	have := RoundExperience(candidate)
	want := RoundExperience(required)

	switch {
	case have >= want:
		return []screening.ExperienceNote{{
			Level:   screening.NoteInfo,
			Message: fmt.Sprintf("Has %d+ years (required: %d)", have, want),
		}}
	case have >= want-tolerance:
		return []screening.ExperienceNote{{
			Level:   screening.NoteTolerance,
			Message: fmt.Sprintf("Has %d years (required: %d, within tolerance)", have, want),
		}}
	default:
		return []screening.ExperienceNote{
			{
				Level:   screening.NoteWarning,
				Message: fmt.Sprintf("Has %d years (required: %d)", have, want),
			},
			{
				Level:   screening.NoteGap,
				Message: fmt.Sprintf("Experience gap: %d years below requirement", want-have),
			},
		}
	}
}
