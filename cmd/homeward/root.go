package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "homeward",
	Short: "Multi-analyst consensus on a crash-site location",
	Long: "Homeward dispatches independent evidence analysts (soil, flora, star field)\n" +
		"against a participant's crash-site evidence, resolves their votes by strict\n" +
		"majority and commits the confirmed quadrant to the participant registry.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
