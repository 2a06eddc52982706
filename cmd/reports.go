package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Read stored screening reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		rawJobID, _ := cmd.Flags().GetString("jd-id")
		limit, _ := cmd.Flags().GetInt("limit")

		jobID, err := optionalUUID(rawJobID)
		if err != nil {
			log.Fatal("parsing --jd-id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		summaries, err := db.ListReports(ctx, jobID, limit)
		if err != nil {
			log.Fatal("listing reports", zap.Error(err))
		}

		log.Debug("reports listed", zap.Int("count", len(summaries)))

		if err := printJSON(cmd.OutOrStdout(), summaries); err != nil {
			log.Fatal("writing reports", zap.Error(err))
		}
	},
}

var reportsGetCmd = &cobra.Command{
	Use:   "get REPORT_ID",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing report id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		report, err := db.GetReport(ctx, id)
		if err != nil {
			log.Fatal("getting report", zap.Error(err))
		}

		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			log.Fatal("writing report", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsGetCmd)

	reportsListCmd.Flags().String("jd-id", "", "only reports for this job description")
	reportsListCmd.Flags().IntP("limit", "n", 50, "maximum number of reports")
}
