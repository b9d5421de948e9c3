package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var askSources int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from your indexed resources",
	Long: `Retrieves the most relevant indexed chunks and composes an answer
from them. When an LLM is configured the answer is generated; otherwise
a structured summary of the sources is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askSources, "sources", "s", 3, "maximum number of sources to use")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	resp := chatService.Ask(context.Background(), args[0], askSources)

	cmd.Println(resp.Answer)

	if len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Printf("Sources (confidence %.2f):\n", resp.Confidence)
		for i := range resp.Sources {
			chunk := resp.Sources[i].Chunk
			title := chunk.Title
			if title == "" {
				title = chunk.SourceURL
			}
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, resp.Sources[i].Similarity)
			cmd.Printf("      %s\n", chunk.SourceURL)
		}
	}

	return nil
}
