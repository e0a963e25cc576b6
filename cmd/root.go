package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pagepilot",
	Short: "Drive a browser with plain-language tasks",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to PagePilot! Use --help to see available commands.")
	},
}

func Execute() {
	// A .env file in the working directory is optional; set variables
	// already in the environment win.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger commands hand down to the agent
// and driver layers.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "pagepilot",
		Level:  level,
		Output: os.Stderr,
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug detail to stderr")
}
