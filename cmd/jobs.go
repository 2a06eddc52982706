package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ai"
	"github.com/spigell/screener/internal/store"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage stored job descriptions",
}

var jobsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a job description, analyzing it first by default",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		flags := cmd.Flags()
		file, _ := flags.GetString("file")
		text, _ := flags.GetString("text")
		title, _ := flags.GetString("title")
		rawClientID, _ := flags.GetString("client-id")
		analyze, _ := flags.GetBool("analyze")

		clientID, err := optionalUUID(rawClientID)
		if err != nil {
			log.Fatal("parsing --client-id", zap.Error(err))
		}

		if file != "" {
			text, err = readJobDescriptionFile(file)
			if err != nil {
				log.Fatal("reading the job description", zap.Error(err))
			}
		}
		if strings.TrimSpace(text) == "" {
			log.Fatal("job description text is empty")
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		notes, err := clientGuidance(ctx, db, clientID)
		if err != nil {
			log.Fatal("loading the client", zap.Error(err))
		}

		var analysis *ai.JDAnalysis
		if analyze {
			services, err := newGeminiServices(ctx, config.Gemini, log)
			if err != nil {
				log.Fatal("building the gemini client", zap.Error(err))
			}

			// Stored without analysis on failure; screening analyzes it later.
			analysis, err = services.analyzer.AnalyzeJD(ctx, text, notes)
			if err != nil {
				log.Warn("job description analysis failed, storing without analysis", zap.Error(err))
				analysis = nil
			}
		}

		jd, err := db.SaveJobDescription(ctx, clientID, title, text, analysis)
		if err != nil {
			log.Fatal("saving the job description", zap.Error(err))
		}

		log.Info("job description saved",
			zap.String("jd_id", jd.ID.String()),
			zap.String("title", jd.Title),
			zap.Bool("analyzed", jd.Analysis != nil),
		)

		if err := printJSON(cmd.OutOrStdout(), jd); err != nil {
			log.Fatal("writing the job description", zap.Error(err))
		}
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored job descriptions, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		rawClientID, _ := cmd.Flags().GetString("client-id")
		clientID, err := optionalUUID(rawClientID)
		if err != nil {
			log.Fatal("parsing --client-id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		jobs, err := db.ListJobDescriptions(ctx, clientID)
		if err != nil {
			log.Fatal("listing job descriptions", zap.Error(err))
		}

		log.Debug("job descriptions listed", zap.Int("count", len(jobs)))

		if err := printJSON(cmd.OutOrStdout(), jobsView(jobs)); err != nil {
			log.Fatal("writing job descriptions", zap.Error(err))
		}
	},
}

var jobsGetCmd = &cobra.Command{
	Use:   "get JD_ID",
	Short: "Print a stored job description with its analysis",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing job description id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		jd, err := db.GetJobDescription(ctx, id)
		if err != nil {
			log.Fatal("getting job description", zap.Error(err))
		}

		if err := printJSON(cmd.OutOrStdout(), jd); err != nil {
			log.Fatal("writing the job description", zap.Error(err))
		}
	},
}

var jobsAnalyzeCmd = &cobra.Command{
	Use:   "analyze JD_ID",
	Short: "Re-analyze a stored job description and store the new analysis",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing job description id", zap.Error(err))
		}

		rawClientID, _ := cmd.Flags().GetString("client-id")
		clientID, err := optionalUUID(rawClientID)
		if err != nil {
			log.Fatal("parsing --client-id", zap.Error(err))
		}
		save, _ := cmd.Flags().GetBool("save")

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		jd, err := db.GetJobDescription(ctx, id)
		if err != nil {
			log.Fatal("getting job description", zap.Error(err))
		}

		// The job's own client applies unless another one is given.
		if clientID == nil {
			clientID = jd.ClientID
		}
		notes, err := clientGuidance(ctx, db, clientID)
		if err != nil {
			log.Fatal("loading the client", zap.Error(err))
		}

		services, err := newGeminiServices(ctx, config.Gemini, log)
		if err != nil {
			log.Fatal("building the gemini client", zap.Error(err))
		}

		analysis, err := services.analyzer.AnalyzeJD(ctx, jd.Text, notes)
		if err != nil {
			log.Fatal("analyzing the job description", zap.Error(err))
		}

		if save {
			if _, err := db.UpdateJobAnalysis(ctx, id, analysis); err != nil {
				log.Fatal("saving the analysis", zap.Error(err))
			}
			log.Info("analysis saved", zap.String("jd_id", id.String()))
		}

		if err := printJSON(cmd.OutOrStdout(), analysis); err != nil {
			log.Fatal("writing the analysis", zap.Error(err))
		}
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete JD_ID",
	Short: "Delete a stored job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing job description id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		if err := db.DeleteJobDescription(ctx, id); err != nil {
			log.Fatal("deleting job description", zap.Error(err))
		}

		log.Info("job description deleted", zap.String("jd_id", id.String()))
	},
}

type jobEntry struct {
	ID         uuid.UUID  `json:"id"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	Title      string     `json:"title"`
	Analyzed   bool       `json:"analyzed"`
	MustHave   int        `json:"must_have"`
	NiceToHave int        `json:"nice_to_have"`
	CreatedAt  time.Time  `json:"created_at"`
}

// jobsView drops the job text from listings.
func jobsView(jobs []store.JobDescription) []jobEntry {
	entries := make([]jobEntry, 0, len(jobs))
	for _, jd := range jobs {
		entry := jobEntry{
			ID:        jd.ID,
			ClientID:  jd.ClientID,
			Title:     jd.Title,
			Analyzed:  jd.Analysis != nil,
			CreatedAt: jd.CreatedAt,
		}
		if jd.Analysis != nil {
			entry.MustHave = len(jd.Analysis.Requirements.MustHave)
			entry.NiceToHave = len(jd.Analysis.Requirements.NiceToHave)
		}
		entries = append(entries, entry)
	}
	return entries
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsAddCmd, jobsListCmd, jobsGetCmd, jobsAnalyzeCmd, jobsDeleteCmd)

	jobsAddCmd.Flags().StringP("file", "f", "", "job description file (.pdf, .docx, .txt, .md)")
	jobsAddCmd.Flags().String("text", "", "job description text")
	jobsAddCmd.Flags().String("title", "", "title; the analyzed job title is used when empty")
	jobsAddCmd.Flags().String("client-id", "", "id of the client the job belongs to")
	jobsAddCmd.Flags().Bool("analyze", true, "analyze the job description before storing it")
	jobsAddCmd.MarkFlagsMutuallyExclusive("file", "text")
	jobsAddCmd.MarkFlagsOneRequired("file", "text")

	jobsListCmd.Flags().String("client-id", "", "only job descriptions of this client")

	jobsAnalyzeCmd.Flags().String("client-id", "", "client whose preferences guide the analysis (default: the job's client)")
	jobsAnalyzeCmd.Flags().Bool("save", true, "store the new analysis")
}
