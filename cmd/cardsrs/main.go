package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
	userID     int64
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "cardsrs",
		Short:        "Spaced repetition flashcards",
		SilenceUsage: true,
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./config.yml or $HOME/.config/cardsrs/config.yml)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.Int64Var(&userID, "user", 1, "ID of the user whose cards are used")

	rootCommand.AddCommand(
		newServeCommand(),
		newReviewCommand(),
		newImportCommand(),
		newExportCommand(),
		newStatsCommand(),
		newMigrateCommand(),
	)
	return rootCommand
}
