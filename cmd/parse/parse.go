// Package parse handles the SMS export parsing command.
package parse

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"momo-etl/cmd/root"
	"momo-etl/internal/export"
	"momo-etl/internal/sink"
)

// Cmd represents the parse command.
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse an SMS export into transaction records",
	Long: `Parse an SMS backup XML export into categorized transaction records.
Accepted and partial records are written to CSV; rejected and duplicate
messages go to the failure log.`,
	Run: parseFunc,
}

func parseFunc(cmd *cobra.Command, args []string) {
	if root.AppContainer == nil {
		root.Log.Fatal("Container not initialized")
	}
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("Input file is required (--input)")
	}

	cfg := root.AppContainer.GetConfig()
	logger := root.AppContainer.GetLogger()

	outputFile := root.SharedFlags.Output
	if outputFile == "" {
		outputFile = filepath.Join(cfg.Output.Directory, "transactions.csv")
	}
	failuresFile := root.SharedFlags.Failures
	if failuresFile == "" {
		failuresFile = filepath.Join(cfg.Output.Directory, "failures.jsonl")
	}
	summaryFile := root.SharedFlags.Summary
	if summaryFile == "" {
		summaryFile = filepath.Join(cfg.Output.Directory, "summary.json")
	}

	messages, err := root.AppContainer.GetReader().ParseFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading SMS export: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(failuresFile), 0750); err != nil {
		root.Log.Fatalf("Error creating output directory: %v", err)
	}
	failureLog, err := os.Create(failuresFile)
	if err != nil {
		root.Log.Fatalf("Error creating failure log: %v", err)
	}
	defer func() {
		if err := failureLog.Close(); err != nil {
			root.Log.Warnf("Failed to close failure log: %v", err)
		}
	}()

	pipeline := root.AppContainer.NewPipeline(sink.NewWriter(failureLog))
	result := pipeline.Run(context.Background(), messages)

	if err := export.WriteCSV(result.Transactions, outputFile, logger); err != nil {
		root.Log.Fatalf("Error writing transactions CSV: %v", err)
	}
	if err := export.WriteSummary(result.Stats, summaryFile, logger); err != nil {
		root.Log.Fatalf("Error writing run summary: %v", err)
	}

	root.Log.Infof("Parsed %d messages: %d accepted, %d partial, %d rejected, %d duplicate",
		result.Stats.Attempted, result.Stats.Accepted, result.Stats.Partial,
		result.Stats.Rejected, result.Stats.Duplicate)
}
