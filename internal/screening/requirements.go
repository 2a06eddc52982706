package screening

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	typeSingle  = "single"
	typeOrGroup = "or_group"

	defaultCategory = "Skill"
)

// Requirement is either a Single skill or an OrGroup of interchangeable options.
// The set of implementations is closed.
type Requirement interface {
	Label() string
	isRequirement()
}

// Single requires one named skill.
type Single struct {
	Name string
}

func (s Single) Label() string { return s.Name }

func (Single) isRequirement() {}

// OrGroup is satisfied by any one of its options. Options keep declaration order.
type OrGroup struct {
	Category string
	Options  []string
}

func (g OrGroup) Label() string {
	return fmt.Sprintf("%s (%s)", g.Category, strings.Join(g.Options, "/"))
}

func (OrGroup) isRequirement() {}

// NewOrGroup builds an OrGroup owning its own copy of options.
func NewOrGroup(category string, options ...string) OrGroup {
	cleaned := make([]string, 0, len(options))
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		cleaned = append(cleaned, option)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultCategory
	}

	return OrGroup{Category: category, Options: cleaned}
}

// Requirements is an ordered list of parsed requirements.
type Requirements []Requirement

type rawRequirement struct {
	Skill    string   `mapstructure:"skill" json:"skill,omitempty"`
	Category string   `mapstructure:"category" json:"category,omitempty"`
	Type     string   `mapstructure:"type" json:"type"`
	Options  []string `mapstructure:"options" json:"options,omitempty"`
}

// ParseRequirement resolves a loosely shaped upstream value into a Requirement.
// Accepted shapes are a bare string, {skill}, {skill, type: "single"} and
// {skill|category, type: "or_group", options}. The second result is false for
// anything else.
func ParseRequirement(raw any) (Requirement, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case Single:
		if strings.TrimSpace(v.Name) == "" {
			return nil, false
		}
		return Single{Name: strings.TrimSpace(v.Name)}, true
	case OrGroup:
		return NewOrGroup(v.Category, v.Options...), true
	case string:
		name := strings.TrimSpace(v)
		if name == "" {
			return nil, false
		}
		return Single{Name: name}, true
	}

	if reflect.ValueOf(raw).Kind() != reflect.Map {
		return nil, false
	}

	var r rawRequirement
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &r,
	})
	if err != nil {
		return nil, false
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, false
	}

	return r.resolve()
}

func (r rawRequirement) resolve() (Requirement, bool) {
	skill := strings.TrimSpace(r.Skill)
	kind := strings.ToLower(strings.TrimSpace(r.Type))

	switch {
	case kind == typeOrGroup, kind == "" && len(r.Options) > 0:
		category := strings.TrimSpace(r.Category)
		if category == "" {
			category = skill
		}
		if category == "" && len(r.Options) == 0 {
			return nil, false
		}
		return NewOrGroup(category, r.Options...), true
	case kind == typeSingle, kind == "":
		if skill == "" {
			return nil, false
		}
		return Single{Name: skill}, true
	default:
		return nil, false
	}
}

// ParseRequirements parses every item, skipping malformed ones. It returns the
// parsed list and the number of skipped items.
func ParseRequirements(raw []any) (Requirements, int) {
	parsed := make(Requirements, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		req, ok := ParseRequirement(item)
		if !ok {
			skipped++
			continue
		}
		parsed = append(parsed, req)
	}
	return parsed, skipped
}

func (rs Requirements) MarshalJSON() ([]byte, error) {
	out := make([]rawRequirement, 0, len(rs))
	for _, req := range rs {
		switch v := req.(type) {
		case Single:
			out = append(out, rawRequirement{Skill: v.Name, Type: typeSingle})
		case OrGroup:
			out = append(out, rawRequirement{Skill: v.Category, Type: typeOrGroup, Options: v.Options})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the same loose shapes as ParseRequirement and drops
// malformed items.
func (rs *Requirements) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode requirements: %w", err)
	}
	*rs, _ = ParseRequirements(raw)
	return nil
}

type rawJobRequirements struct {
	MustHave                   []any              `mapstructure:"must_have_skills"`
	NiceToHave                 []any              `mapstructure:"nice_to_have_skills"`
	TotalExperienceRequired    float64            `mapstructure:"total_experience_required"`
	RelevantExperienceRequired map[string]float64 `mapstructure:"relevant_experience_required"`
}

// DecodeJobRequirements decodes a generic map (JSON or YAML origin) into
// JobRequirements. Requirement lists are parsed once here; the returned count
// reports how many malformed items were skipped.
func DecodeJobRequirements(raw map[string]any) (JobRequirements, int, error) {
	var r rawJobRequirements
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &r,
	})
	if err != nil {
		return JobRequirements{}, 0, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return JobRequirements{}, 0, fmt.Errorf("decode job requirements: %w", err)
	}

	mustHave, skippedMust := ParseRequirements(r.MustHave)
	niceToHave, skippedNice := ParseRequirements(r.NiceToHave)

	return JobRequirements{
		MustHave:                   mustHave,
		NiceToHave:                 niceToHave,
		TotalExperienceRequired:    r.TotalExperienceRequired,
		RelevantExperienceRequired: r.RelevantExperienceRequired,
	}, skippedMust + skippedNice, nil
}

// DecodeCandidateSignals decodes a generic map into CandidateSignals.
func DecodeCandidateSignals(raw map[string]any) (CandidateSignals, error) {
	var out CandidateSignals
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return out, fmt.Errorf("decode candidate signals: %w", err)
	}
	return out, nil
}
