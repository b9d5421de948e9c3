package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [topic]",
	Short: "Suggest learning resources for a topic",
	Long: `Suggests tutorial websites and YouTube channels for learning a
topic. With an LLM configured the suggestions are tailored to the
topic; otherwise a curated general-purpose list is shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	suggestions, err := discoveryService.Suggest(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("discover failed: %w", err)
	}

	cmd.Printf("Resources for learning %q:\n\n", suggestions.Topic)

	cmd.Println("Tutorial sites:")
	for _, site := range suggestions.TutorialSites {
		cmd.Printf("  - %s\n", site)
	}

	cmd.Println()
	cmd.Println("YouTube channels:")
	for _, channel := range suggestions.YouTubeChannels {
		cmd.Printf("  - %s\n", channel)
	}

	if !suggestions.FromModel {
		cmd.Println()
		cmd.Println("(general-purpose suggestions; configure an LLM for topic-specific ones)")
	}

	return nil
}
