package ai

import (
	"context"

	"github.com/spigell/screener/internal/identity"
)

// Analyzer turns free text into the structured signals the scoring engine
// consumes. Implementations return an error on failure; callers decide whether
// to substitute the neutral defaults from this package.
type Analyzer interface {
	AnalyzeJD(ctx context.Context, text, clientNotes string) (*JDAnalysis, error)
	AnalyzeResume(ctx context.Context, text string, job *JDAnalysis, clientNotes string) (*ResumeAnalysis, error)
	AnalyzeAudio(ctx context.Context, transcript string, job *JDAnalysis) (*AudioAnalysis, error)
	GenerateRecommendation(ctx context.Context, in RecommendationInput) (string, error)
}

// Transcriber converts an interview recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio identity.Artifact) (*Transcript, error)
}

// RecommendationInput carries what is known about a candidate when asking for
// a hiring recommendation. ResumeScore and Audio are nil when missing.
type RecommendationInput struct {
	CandidateName string
	ResumeScore   *float64
	Audio         *AudioAnalysis
	Job           *JDAnalysis
}
