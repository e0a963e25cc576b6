package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagepilot/command"
)

var verbsCmd = &cobra.Command{
	Use:   "verbs",
	Short: "Print the direct command grammar",
	Long: `Verbs lists every direct command the task parser recognizes. A task whose
first word is one of these verbs executes without a model call.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, v := range command.Verbs {
			fmt.Println(v.Usage())
		}
		fmt.Println()
		fmt.Println("A trailing <text> or <value> argument consumes the rest of the line.")
		fmt.Println("Selectors accept css: or xpath: prefixes; a bare selector is CSS.")
	},
}

func init() {
	rootCmd.AddCommand(verbsCmd)
}
