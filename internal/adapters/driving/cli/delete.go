package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [url]",
	Short: "Remove an indexed source",
	Long:  `Removes all indexed chunks for a source URL.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	removed, err := retrievalService.DeleteSource(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if removed == 0 {
		cmd.Println("No chunks found for that URL.")
		return nil
	}

	cmd.Printf("Removed %d chunk(s).\n", removed)
	return nil
}
