// Package categorize handles the single-message categorization command.
package categorize

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"momo-etl/cmd/root"
	"momo-etl/internal/models"
)

// Cmd represents the categorize command. It runs one message through the
// full pipeline and prints the outcome as JSON, for testing templates and
// categorization rules against a sample message.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single SMS message",
	Long: `Categorize a single SMS message text and print the parsed transaction
or failure record as JSON. Useful for testing template and rule changes.`,
	Run: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	if root.AppContainer == nil {
		root.Log.Fatal("Container not initialized")
	}
	if root.Message == "" {
		root.Log.Fatal("Message text is required (--message)")
	}

	pipeline := root.AppContainer.NewPipeline()
	result := pipeline.Run(context.Background(), []models.RawMessage{
		{Body: root.Message, Timestamp: time.Now().UTC(), SourceID: "cli"},
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(result.Transactions) > 0 {
		if err := enc.Encode(result.Transactions[0]); err != nil {
			root.Log.Fatalf("Error encoding transaction: %v", err)
		}
		return
	}

	failures := root.AppContainer.GetFailureSink().Failures()
	if len(failures) > 0 {
		if err := enc.Encode(failures[0]); err != nil {
			root.Log.Fatalf("Error encoding failure record: %v", err)
		}
	}
}
