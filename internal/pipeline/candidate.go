package pipeline

import (
	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/identity"
	"github.com/spigell/screener/internal/screening"
)

// Candidate is one resolved identity and everything learned about it during a
// screening. A stage only touches a candidate from a single goroutine.
type Candidate struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	ResumeFile string `json:"resume_file,omitempty"`
	AudioFile  string `json:"audio_file,omitempty"`

	ResumeAnalysis *ai.ResumeAnalysis     `json:"resume_analysis,omitempty"`
	ResumeScore    *float64               `json:"resume_score"`
	Score          *screening.ScoreResult `json:"score_breakdown,omitempty"`

	Transcript    *ai.Transcript    `json:"transcript,omitempty"`
	AudioAnalysis *ai.AudioAnalysis `json:"audio_analysis,omitempty"`

	Recommendation string   `json:"recommendation,omitempty"`
	Errors         []string `json:"errors,omitempty"`

	resume *identity.Artifact
	audio  *identity.Artifact
}

func newCandidate(b *identity.Bucket) *Candidate {
	c := &Candidate{Key: b.Key, Name: b.Key, resume: b.Resume, audio: b.Audio}
	if b.Resume != nil {
		c.ResumeFile = b.Resume.Filename
	}
	if b.Audio != nil {
		c.AudioFile = b.Audio.Filename
	}
	return c
}

func (c *Candidate) addError(stage string, err error) {
	c.Errors = append(c.Errors, stage+": "+err.Error())
}

func (c *Candidate) technicalScore() int {
	if c.AudioAnalysis == nil {
		return 0
	}
	return c.AudioAnalysis.TechnicalScore
}

func (c *Candidate) resumeScore() float64 {
	if c.ResumeScore == nil {
		return 0
	}
	return *c.ResumeScore
}
