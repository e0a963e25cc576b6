package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pagepilot/config"
)

var personasConfigPath string

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "Print the resolved persona registry",
	Long: `Personas prints the registry tasks are matched against, in registration
order. A config with no persona blocks uses the built-in registry.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate(personasConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		for _, p := range cfg.PersonaRegistry().All() {
			keywords := "(none: matches any task)"
			if len(p.Keywords) > 0 {
				keywords = strings.Join(p.Keywords, ", ")
			}
			fmt.Printf("%s (role: %s, priority: %d)\n", p.ID, p.Role, p.Priority)
			fmt.Printf("  keywords: %s\n", keywords)
		}
	},
}

func init() {
	rootCmd.AddCommand(personasCmd)
	personasCmd.Flags().StringVarP(&personasConfigPath, "config", "c", ".", "Path to config file or directory")
}
