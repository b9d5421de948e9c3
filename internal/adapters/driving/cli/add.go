package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

var (
	addFile  string
	addTitle string
)

var addCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Add a learning resource to the index",
	Long: `Extracts content from a web page or YouTube video and indexes it.

With --file, indexes a local text file as a manual note instead; the
note gets a synthetic manual:// URL so it can be searched and deleted
like any other source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "index a local text file instead of a URL")
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "title for --file content (defaults to the file name)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	var (
		outcome *domain.IngestOutcome
		err     error
	)

	switch {
	case addFile != "":
		outcome, err = addFromFile(ctx, addFile, addTitle)
	case len(args) == 1:
		outcome, err = retrievalService.IngestURL(ctx, args[0])
	default:
		return errors.New("provide a URL or --file")
	}

	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	cmd.Printf("Indexed %d chunk(s)", outcome.StoredChunks)
	if outcome.SkippedChunks > 0 {
		cmd.Printf(" (%d skipped)", outcome.SkippedChunks)
	}
	cmd.Println()
	return nil
}

// addFromFile ingests a local text file as a manual note.
func addFromFile(ctx context.Context, path, title string) (*domain.IngestOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if title == "" {
		title = path
	}

	content := domain.ExtractedContent{
		URL:         "manual://" + uuid.New().String(),
		Title:       title,
		Text:        string(data),
		ContentType: domain.ContentTypeManual,
		Metadata: map[string]any{
			"source_file": path,
			"added_at":    time.Now().UTC().Format(time.RFC3339),
		},
	}

	return retrievalService.Ingest(ctx, content)
}
