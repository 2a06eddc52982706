package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/scoring"
	"github.com/spigell/screener/internal/screening"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score already analyzed candidate signals against job requirements",
	Long: `Score reads a JSON document with "requirements" and "signals" objects and
prints the score breakdown. No AI calls are made.`,
	Run: func(cmd *cobra.Command, _ []string) {
		log := mustLogger()
		config := mustConfig(log)

		input, _ := cmd.Flags().GetString("input")
		job, signals, skipped, err := loadScoreInput(input)
		if err != nil {
			log.Fatal("reading score input", zap.Error(err), zap.String("input", input))
		}

		if skipped > 0 {
			log.Warn("skipped malformed requirements", zap.Int("count", skipped))
		}

		result := scoring.NewComposer(config.Scoring).Score(job, signals)

		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			log.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("input", "i", "", "JSON file with requirements and signals")
	scoreCmd.MarkFlagRequired("input")
}

type scoreInput struct {
	Requirements map[string]any `json:"requirements"`
	Signals      map[string]any `json:"signals"`
}

func loadScoreInput(path string) (screening.JobRequirements, screening.CandidateSignals, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return screening.JobRequirements{}, screening.CandidateSignals{}, 0, err
	}
	return parseScoreInput(data)
}

func parseScoreInput(data []byte) (screening.JobRequirements, screening.CandidateSignals, int, error) {
	var in scoreInput
	if err := json.Unmarshal(data, &in); err != nil {
		return screening.JobRequirements{}, screening.CandidateSignals{}, 0, fmt.Errorf("parsing json: %w", err)
	}

	if in.Requirements == nil {
		return screening.JobRequirements{}, screening.CandidateSignals{}, 0, fmt.Errorf("requirements object is missing")
	}

	job, skipped, err := screening.DecodeJobRequirements(in.Requirements)
	if err != nil {
		return screening.JobRequirements{}, screening.CandidateSignals{}, 0, err
	}

	signals, err := screening.DecodeCandidateSignals(in.Signals)
	if err != nil {
		return screening.JobRequirements{}, screening.CandidateSignals{}, 0, err
	}

	return job, signals, skipped, nil
}
