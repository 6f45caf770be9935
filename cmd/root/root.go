// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"momo-etl/internal/config"
	"momo-etl/internal/container"
	"momo-etl/internal/export"
)

// CommonFlags represents the flags shared by multiple commands.
type CommonFlags struct {
	Input    string
	Output   string
	Failures string
	Summary  string
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// AppContainer holds the wired application dependencies. Populated in
	// PersistentPreRun, after configuration is loaded.
	AppContainer *container.Container

	// SharedFlags are accessible to all commands.
	SharedFlags = CommonFlags{}

	// Message is the raw message text for the categorize command.
	Message string

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "momo-etl",
		Short: "A CLI tool to parse mobile money SMS exports into transaction records.",
		Long: `momo-etl parses MTN MoMo SMS notification exports into structured,
categorized transaction records with confidence scores, and routes
unparseable messages to a failure log for inspection.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to momo-etl!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Log = config.ConfigureLoggingFromConfig(cfg)

			export.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])

			AppContainer, err = container.NewContainer(cfg)
			if err != nil {
				Log.Fatalf("Failed to initialize application: %v", err)
			}
		},
	}
)

// Init initializes the root command flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input SMS export XML file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Failures, "failures", "", "Failure log JSONL file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Summary, "summary", "", "Run summary JSON file")
}
