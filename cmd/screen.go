package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/extract"
	"github.com/spigell/screener/internal/pipeline"
	"github.com/spigell/screener/internal/scoring"
	"github.com/spigell/screener/internal/store"
	"github.com/spigell/screener/internal/uploads"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen resumes and interview recordings against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
	addScreenFlags(screenCmd)
}

func addScreenFlags(cmd *cobra.Command) {
	cmd.Flags().String("jd", "", "job description file (.pdf, .docx, .txt, .md)")
	cmd.Flags().String("jd-id", "", "id of a stored job description")
	cmd.Flags().StringP("resumes", "r", "", "directory or s3://bucket/prefix with resumes")
	cmd.Flags().StringP("audio", "a", "", "directory or s3://bucket/prefix with interview recordings")
	cmd.Flags().String("client-notes", "", "free-text client preferences passed to the analyzer")
	cmd.Flags().String("client-id", "", "id of a stored client whose preferences are used")
	cmd.Flags().StringSlice("disable", nil, "stages to skip (resume, audio, recommendation)")
	cmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before calling the AI")
	cmd.Flags().Bool("save", false, "store the job description and the report in the database")

	cmd.MarkFlagsMutuallyExclusive("jd", "jd-id")
	cmd.MarkFlagsOneRequired("jd", "jd-id")
	cmd.MarkFlagsMutuallyExclusive("client-notes", "client-id")
}

// screenOptions holds the parsed screen flags.
type screenOptions struct {
	jdFile      string
	jdID        *uuid.UUID
	resumes     string
	audio       string
	clientNotes string
	clientID    *uuid.UUID
	disable     []string
	autoApprove bool
	save        bool
}

func parseScreenOptions(cmd *cobra.Command, config *Config) (*screenOptions, error) {
	flags := cmd.Flags()
	opts := &screenOptions{}

	opts.jdFile, _ = flags.GetString("jd")
	opts.resumes, _ = flags.GetString("resumes")
	opts.audio, _ = flags.GetString("audio")
	opts.clientNotes, _ = flags.GetString("client-notes")
	opts.disable, _ = flags.GetStringSlice("disable")
	opts.autoApprove, _ = flags.GetBool("auto-approve")
	opts.save, _ = flags.GetBool("save")

	if opts.clientNotes == "" {
		opts.clientNotes = config.ClientNotes
	}

	jdID, _ := flags.GetString("jd-id")
	clientID, _ := flags.GetString("client-id")

	var err error
	if opts.jdID, err = optionalUUID(jdID); err != nil {
		return nil, fmt.Errorf("--jd-id: %w", err)
	}
	if opts.clientID, err = optionalUUID(clientID); err != nil {
		return nil, fmt.Errorf("--client-id: %w", err)
	}

	if strings.TrimSpace(opts.resumes) == "" && strings.TrimSpace(opts.audio) == "" {
		return nil, errors.New("at least one of --resumes or --audio is required")
	}

	known := map[string]bool{pipeline.StageResume: true, pipeline.StageAudio: true, pipeline.StageRecommendation: true}
	for _, name := range opts.disable {
		if !known[name] {
			return nil, fmt.Errorf("unknown stage %q", name)
		}
	}

	return opts, nil
}

func optionalUUID(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func screen(cmd *cobra.Command) {
	ctx := context.Background()

	log := mustLogger()
	config := mustConfig(log)

	log.Info("starting the screener", zap.String("version", version))

	opts, err := parseScreenOptions(cmd, config)
	if err != nil {
		log.Fatal("parsing flags", zap.Error(err))
	}

	var db *store.DB
	if opts.save || opts.jdID != nil || opts.clientID != nil {
		db, err = openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err), zap.String("hint", "set database.url or DATABASE_URL"))
		}
		defer db.Close()
	}

	jd, err := loadJobDescription(ctx, db, opts)
	if err != nil {
		log.Fatal("loading the job description", zap.Error(err))
	}

	if opts.clientID != nil {
		client, err := db.GetClient(ctx, *opts.clientID)
		if err != nil {
			log.Fatal("loading the client", zap.Error(err))
		}
		opts.clientNotes = client.Guidance()
		if jd.ClientID == nil {
			jd.ClientID = &client.ID
		}
	}

	resumes, err := listArtifacts(ctx, opts.resumes, uploads.Resumes, config.S3)
	if err != nil {
		log.Fatal("listing resumes", zap.Error(err))
	}

	audio, err := listArtifacts(ctx, opts.audio, uploads.Audio, config.S3)
	if err != nil {
		log.Fatal("listing audio", zap.Error(err))
	}

	if len(resumes) == 0 && len(audio) == 0 {
		log.Info("exiting", zap.String("reason", "no resumes or recordings found"))
		return
	}

	if !opts.autoApprove {
		if err := confirm(fmt.Sprintf("Screen %d resumes and %d recordings", len(resumes), len(audio))); err != nil {
			log.Info("exiting", zap.String("reason", "not confirmed"), zap.Error(err))
			return
		}
	}

	services, err := newGeminiServices(ctx, config.Gemini, log)
	if err != nil {
		log.Fatal("building the gemini client", zap.Error(err))
	}

	if jd.Analysis == nil {
		jd.Analysis = analyzeJobDescription(ctx, services.analyzer, jd.Text, opts.clientNotes, log)
	}

	screener := pipeline.New(pipeline.Deps{
		Analyzer:    services.analyzer,
		Transcriber: services.transcriber,
		Composer:    scoring.NewComposer(config.Scoring),
		Logger:      log,
		Concurrency: config.Concurrency,
		ClientNotes: opts.clientNotes,
	})
	for _, name := range opts.disable {
		pipeline.DisableByName(screener.Stages(), name, "disabled by --disable flag")
	}

	report, err := screener.Screen(ctx, jd.Analysis, resumes, audio)
	if err != nil {
		log.Fatal("screening failed", zap.Error(err))
	}

	if opts.save {
		if err := saveReport(ctx, db, jd, report); err != nil {
			log.Fatal("saving the report", zap.Error(err))
		}
		log.Info("report saved", zap.String("report_id", report.ID.String()), zap.String("jd_id", jd.ID.String()))
	} else if jd.ID != uuid.Nil {
		report.JobID = &jd.ID
	}

	if err := printJSON(cmd.OutOrStdout(), report); err != nil {
		log.Fatal("writing the report", zap.Error(err))
	}
}

// loadJobDescription reads the job description from a file or the store. The
// returned ID is uuid.Nil for files that were not stored yet.
func loadJobDescription(ctx context.Context, db *store.DB, opts *screenOptions) (*store.JobDescription, error) {
	if opts.jdID != nil {
		return db.GetJobDescription(ctx, *opts.jdID)
	}

	text, err := readJobDescriptionFile(opts.jdFile)
	if err != nil {
		return nil, err
	}

	return &store.JobDescription{Text: text, ClientID: opts.clientID}, nil
}

// readJobDescriptionFile extracts the text of a job description file. Empty
// documents are an error.
func readJobDescriptionFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text, err := extract.Text(filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("job description %q is empty", path)
	}

	return text, nil
}

// analyzeJobDescription never fails: analyzer errors fall back to the neutral
// default analysis.
func analyzeJobDescription(ctx context.Context, analyzer ai.Analyzer, text, clientNotes string, log *zap.Logger) *ai.JDAnalysis {
	analysis, err := analyzer.AnalyzeJD(ctx, text, clientNotes)
	if err != nil {
		log.Warn("job description analysis failed, using defaults", zap.Error(err))
		return ai.DefaultJDAnalysis()
	}

	log.Info("job description analyzed",
		zap.String("title", analysis.JobTitle),
		zap.String("classification", analysis.Classification),
		zap.Int("must_have", len(analysis.Requirements.MustHave)),
		zap.Int("nice_to_have", len(analysis.Requirements.NiceToHave)),
		zap.Int("skipped_requirements", analysis.SkippedRequirements),
	)
	return analysis
}

func saveReport(ctx context.Context, db *store.DB, jd *store.JobDescription, report *pipeline.Report) error {
	if jd.ID == uuid.Nil {
		saved, err := db.SaveJobDescription(ctx, jd.ClientID, jd.Title, jd.Text, jd.Analysis)
		if err != nil {
			return err
		}
		*jd = *saved
	}

	report.JobID = &jd.ID
	return db.SaveReport(ctx, report)
}

func confirm(label string) error {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err
}
