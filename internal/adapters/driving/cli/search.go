package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

var (
	searchLimit int
	searchType  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed learning resources",
	Long: `Performs semantic search across all indexed content.
The query is embedded and matched against stored chunks by cosine
similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringVar(&searchType, "type", "", "filter by content type (web, youtube, manual)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()
	results, err := retrievalService.Search(ctx, query, searchLimit, domain.ContentType(searchType))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		chunk := results[i].Chunk

		title := chunk.Title
		if title == "" {
			title = chunk.SourceURL
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Similarity)
		cmd.Printf("      %s [chunk %d/%d]\n", chunk.SourceURL, chunk.ChunkIndex+1, chunk.TotalChunks)
		cmd.Printf("      %s\n", excerpt(chunk.Content, 160))
		cmd.Println()
	}

	return nil
}

// excerpt truncates s to max characters on a rune-safe boundary.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
