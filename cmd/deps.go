package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai/gemini"
	"github.com/spigell/screener/internal/identity"
	"github.com/spigell/screener/internal/secrets"
	"github.com/spigell/screener/internal/store"
	"github.com/spigell/screener/internal/uploads"
)

// geminiServices bundles the collaborators sharing one Gemini client.
type geminiServices struct {
	analyzer    *gemini.Analyzer
	transcriber *gemini.Transcriber
}

func newGeminiServices(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (*geminiServices, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, log)
	if err != nil {
		return nil, err
	}

	aiLogger := log.With(zap.String("provider", "gemini"), zap.String("model", generator.Model()))

	return &geminiServices{
		analyzer:    gemini.NewAnalyzer(generator, aiLogger, cfg.MaxLogLength),
		transcriber: gemini.NewTranscriber(generator, aiLogger),
	}, nil
}

// openStore connects to the configured database and makes sure the schema
// exists.
func openStore(ctx context.Context, cfg DatabaseConfig) (*store.DB, error) {
	url, err := secrets.Load(secrets.Source{
		Name:  "database url",
		Value: cfg.URL,
		File:  cfg.URLFile,
		Env:   []string{"DATABASE_URL"},
	})
	if err != nil {
		return nil, err
	}

	db, err := store.Connect(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// listArtifacts reads every file accepted by filter at location.
func listArtifacts(ctx context.Context, location string, filter uploads.Filter, cfg uploads.S3Config) ([]identity.Artifact, error) {
	source, err := uploads.Open(ctx, location, filter, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", location, err)
	}

	artifacts, err := source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", location, err)
	}

	return artifacts, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
