package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/identity"
	"github.com/spigell/screener/internal/uploads"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Show how resumes and recordings are grouped into candidates",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		resumesLocation, _ := cmd.Flags().GetString("resumes")
		audioLocation, _ := cmd.Flags().GetString("audio")

		resumes, err := listArtifacts(ctx, resumesLocation, uploads.Resumes, config.S3)
		if err != nil {
			log.Fatal("listing resumes", zap.Error(err))
		}

		audio, err := listArtifacts(ctx, audioLocation, uploads.Audio, config.S3)
		if err != nil {
			log.Fatal("listing audio", zap.Error(err))
		}

		if err := printJSON(cmd.OutOrStdout(), groupView(identity.Resolve(resumes, audio))); err != nil {
			log.Fatal("writing groups", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)

	groupCmd.Flags().StringP("resumes", "r", "", "directory or s3://bucket/prefix with resumes")
	groupCmd.Flags().StringP("audio", "a", "", "directory or s3://bucket/prefix with interview recordings")
}

type groupEntry struct {
	Key    string `json:"key"`
	Resume string `json:"resume,omitempty"`
	Audio  string `json:"audio,omitempty"`
}

func groupView(buckets *identity.Buckets) []groupEntry {
	entries := make([]groupEntry, 0, buckets.Len())
	for _, bucket := range buckets.Items() {
		entry := groupEntry{Key: bucket.Key}
		if bucket.Resume != nil {
			entry.Resume = bucket.Resume.Filename
		}
		if bucket.Audio != nil {
			entry.Audio = bucket.Audio.Filename
		}
		entries = append(entries, entry)
	}
	return entries
}
