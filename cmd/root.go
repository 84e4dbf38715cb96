package cmd

import (
	"fmt"
	"os"

	"github.com/itsmostafa/wpshell/internal/ui"
	"github.com/itsmostafa/wpshell/internal/version"
	"github.com/spf13/cobra"
)

var quiet bool

var rootCmd = &cobra.Command{
	Use:   "wpshell",
	Short: "Interactive shell for a site environment",
	Long: `wpshell opens an interactive read-eval-print loop attached to a site
environment. Lines are evaluated as JavaScript or Tengo, and the value of
each expression is dumped after "=> ".`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("wpshell %s\n", version.String()))

	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress informational messages and value display")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.NewLogger(quiet).Error("%v", err)
		os.Exit(1)
	}
}
