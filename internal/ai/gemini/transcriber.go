package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/extract"
	"github.com/spigell/screener/internal/identity"
)

//go:embed prompts/transcribe.md
var transcribePrompt string

type mediaGenerator interface {
	GenerateWithMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

var _ ai.Transcriber = (*Transcriber)(nil)

// Transcriber sends recordings inline to Gemini and reads back a transcript.
type Transcriber struct {
	generator mediaGenerator
	logger    *zap.Logger
}

func NewTranscriber(generator mediaGenerator, logger *zap.Logger) *Transcriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{generator: generator, logger: logger}
}

func (t *Transcriber) Transcribe(ctx context.Context, audio identity.Artifact) (*ai.Transcript, error) {
	if len(audio.Data) == 0 {
		return nil, errors.New("audio payload is empty")
	}

	mimeType, ok := extract.AudioMIMEType(audio.Filename)
	if !ok {
		return nil, fmt.Errorf("%s: %w", audio.Filename, extract.ErrUnsupportedFormat)
	}

	t.logger.Debug("gemini transcription request",
		zap.String("file", audio.Filename),
		zap.String("mime_type", mimeType),
		zap.Int("bytes", len(audio.Data)),
	)

	raw, err := t.generator.GenerateWithMedia(ctx, transcribePrompt, audio.Data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", audio.Filename, err)
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", audio.Filename, err)
	}

	confidence := numberOr(data, "confidence", 0)
	confidence = math.Max(0, math.Min(1, confidence))

	return &ai.Transcript{
		Text:       coerceString(data["text"]),
		Confidence: confidence,
		Duration:   math.Max(0, numberOr(data, "duration_seconds", 0)),
	}, nil
}
