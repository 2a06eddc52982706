package scoring

import (
	"math"

	"github.com/spigell/screener/internal/screening"
)

const (
	CategoryMustHave   = "Must-Have Skills (Technical)"
	CategoryNiceToHave = "Nice-to-Have Skills (Bonus)"
)

// SkillScore is the output of EvaluateSkills. Totals are whole points.
type SkillScore struct {
	MustHaveTotal   float64
	NiceToHaveTotal float64
	Categories      []screening.CategoryBreakdown
}

type resolution struct {
	strength  screening.Strength
	matched   string
	isOrGroup bool
}

// ResolveOrGroup picks the option with the strictly greatest multiplier, scanning
// in declared order, so equal multipliers keep the earliest option. When no
// option is demonstrated the matched option is empty and the tier is missing.
func ResolveOrGroup(options []string, strengths screening.StrengthMap) (string, screening.Strength) {
	best := ""
	bestStrength := screening.StrengthMissing
	bestMultiplier := 0.0

	for _, option := range options {
		strength := strengths.Lookup(option)
		if m := strength.Multiplier(); m > bestMultiplier {
			best = option
			bestStrength = strength
			bestMultiplier = m
		}
	}

	return best, bestStrength
}

func resolve(req screening.Requirement, strengths screening.StrengthMap) resolution {
	switch r := req.(type) {
	case screening.Single:
		return resolution{strength: strengths.Lookup(r.Name)}
	case screening.OrGroup:
		matched, strength := ResolveOrGroup(r.Options, strengths)
		return resolution{strength: strength, matched: matched, isOrGroup: true}
	default:
		return resolution{strength: screening.StrengthMissing}
	}
}

// EvaluateSkills scores must-have requirements proportionally to strength and
// nice-to-have requirements as present/absent. A category without requirements
// is left out of the breakdown and contributes nothing.
func EvaluateSkills(mustHave, niceToHave screening.Requirements, strengths screening.StrengthMap, w Weights) SkillScore {
	var out SkillScore

	if total, category, ok := evaluateMustHave(mustHave, strengths, w.MustHaveMax); ok {
		out.MustHaveTotal = total
		out.Categories = append(out.Categories, category)
	}

	if total, category, ok := evaluateNiceToHave(niceToHave, strengths, w.NiceToHaveMax); ok {
		out.NiceToHaveTotal = total
		out.Categories = append(out.Categories, category)
	}

	return out
}

func evaluateMustHave(reqs screening.Requirements, strengths screening.StrengthMap, limit float64) (float64, screening.CategoryBreakdown, bool) {
	if len(reqs) == 0 {
		return 0, screening.CategoryBreakdown{}, false
	}

	share := limit / float64(len(reqs))
	sum := 0.0
	records := make([]screening.SkillScoreRecord, 0, len(reqs))

	for _, req := range reqs {
		res := resolve(req, strengths)
		points := share * res.strength.Multiplier()
		sum += points

		records = append(records, screening.SkillScoreRecord{
			Label:         req.Label(),
			Strength:      res.strength,
			MatchedOption: res.matched,
			Points:        roundTo1(points),
			MaxPoints:     roundTo1(share),
			IsOrGroup:     res.isOrGroup,
			HasSkill:      res.strength != screening.StrengthMissing,
		})
	}

	return math.Min(math.RoundToEven(sum), limit), screening.CategoryBreakdown{
		Name:    CategoryMustHave,
		Total:   roundTo1(sum),
		Max:     limit,
		Records: records,
	}, true
}

func evaluateNiceToHave(reqs screening.Requirements, strengths screening.StrengthMap, limit float64) (float64, screening.CategoryBreakdown, bool) {
	if len(reqs) == 0 {
		return 0, screening.CategoryBreakdown{}, false
	}

	share := limit / float64(len(reqs))
	hits := 0
	records := make([]screening.SkillScoreRecord, 0, len(reqs))

	for _, req := range reqs {
		res := resolve(req, strengths)
		has := res.strength != screening.StrengthMissing

		points := 0.0
		if has {
			points = share
			hits++
		}

		records = append(records, screening.SkillScoreRecord{
			Label:         req.Label(),
			Strength:      res.strength,
			MatchedOption: res.matched,
			Points:        roundTo1(points),
			MaxPoints:     roundTo1(share),
			IsOrGroup:     res.isOrGroup,
			HasSkill:      has,
		})
	}

	// Halves round to even: 2.5 becomes 2.
	sum := limit * float64(hits) / float64(len(reqs))
	return math.Min(math.RoundToEven(sum), limit), screening.CategoryBreakdown{
		Name:    CategoryNiceToHave,
		Total:   roundTo1(sum),
		Max:     limit,
		Records: records,
	}, true
}
