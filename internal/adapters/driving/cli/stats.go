package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats, err := retrievalService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Chunks:  %d\n", stats.TotalChunks)
	cmd.Printf("Sources: %d\n", stats.UniqueSources)

	if len(stats.ContentTypeCounts) > 0 {
		cmd.Println("By type:")
		for _, contentType := range []domain.ContentType{
			domain.ContentTypeWeb, domain.ContentTypeYouTube, domain.ContentTypeManual,
		} {
			if count, ok := stats.ContentTypeCounts[contentType]; ok {
				cmd.Printf("  %-8s %d\n", contentType, count)
			}
		}
	}

	return nil
}
