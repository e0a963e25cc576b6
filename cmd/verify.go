package cmd

import (
	"fmt"
	"os"
	"strings"

	"pagepilot/config"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Verify that the configuration is valid",
	Long:  `Verify parses and validates the HCL configuration files. Path can be a file or directory.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath := args[0]
		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Check for unset variables
		var warnings []string
		for _, v := range cfg.Variables {
			resolved, _ := config.ResolveVariableValue(&v)
			if resolved == "" && v.Default == "" {
				warnings = append(warnings, fmt.Sprintf("variable '%s' has no default and no value set", v.Name))
			}
		}
		if len(cfg.Models) == 0 {
			warnings = append(warnings, "config declares no model blocks; tasks the verb grammar cannot parse will fail")
		}

		fmt.Printf("Configuration is valid!\n")
		fmt.Printf("Found %d model(s)\n", len(cfg.Models))
		for _, m := range cfg.Models {
			fmt.Printf("  - %s (provider: %s, model: %s)\n", m.Name, m.Provider, m.ModelName)
		}
		fmt.Printf("Found %d variable(s)\n", len(cfg.Variables))
		for _, v := range cfg.Variables {
			resolved, _ := config.ResolveVariableValue(&v)
			if v.Secret {
				if resolved != "" {
					fmt.Printf("  - %s (secret, set)\n", v.Name)
				} else {
					fmt.Printf("  - %s (secret, not set)\n", v.Name)
				}
			} else {
				fmt.Printf("  - %s = %q\n", v.Name, resolved)
			}
		}
		fmt.Printf("Found %d persona(s)\n", len(cfg.Personas))
		for _, p := range cfg.Personas {
			match := "matches any task"
			if len(p.Keywords) > 0 {
				match = fmt.Sprintf("keywords: %s", strings.Join(p.Keywords, ", "))
			}
			fmt.Printf("  - %s (role: %s, priority: %d, %s)\n", p.Name, p.Role, p.Priority, match)
		}
		if cfg.Driver != nil {
			headless := "headless"
			if !cfg.Driver.IsHeadless() {
				headless = "headed"
			}
			fmt.Printf("Driver: %s (%s)\n", cfg.Driver.Backend, headless)
			if cfg.Driver.PluginPath != "" {
				fmt.Printf("  plugin binary: %s\n", cfg.Driver.PluginPath)
			}
		} else {
			fmt.Printf("Driver: playwright (default)\n")
		}

		if len(warnings) > 0 {
			fmt.Printf("\nWarnings:\n")
			for _, w := range warnings {
				fmt.Printf("  - %s\n", w)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
