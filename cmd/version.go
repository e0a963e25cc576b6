package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Long = fmt.Sprintf(`PagePilot %s

HCL-configured browser automation driven by plain-language tasks.

Declare models, personas, and a page driver in HCL configuration files,
then run task sequences from the command line or over a WebSocket.

Get started:
  pagepilot verify <path>  Validate your configuration
  pagepilot verbs          Print the direct command grammar
  pagepilot run "..."      Run tasks against a fresh page session
  pagepilot serve          Expose task runs over WebSocket`, Version)
}
