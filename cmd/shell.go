package cmd

import (
	"os"

	"github.com/itsmostafa/wpshell/internal/engine"
	"github.com/itsmostafa/wpshell/internal/repl"
	"github.com/itsmostafa/wpshell/internal/shell"
	"github.com/spf13/cobra"
)

var basic bool
var engineName string
var watchPath string
var siteConfig string
var hook string
var prompt string
var requires []string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell",
	Long: `Start an interactive shell attached to the site environment.

Lines ending in a backslash continue on the next line. Type 'exit' or press
Ctrl+D to quit, and 'restart' to reload the shell with the same flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate engine
		name, err := engine.Validate(engineName)
		if err != nil {
			return err
		}

		if err := shell.ValidateHook(hook, cmd.Flags().Changed("hook")); err != nil {
			return err
		}

		return shell.Run(shell.Config{
			Basic:      basic,
			Quiet:      quiet,
			Engine:     name,
			Watch:      watchPath,
			SiteConfig: siteConfig,
			Requires:   requires,
			Hook:       hook,
			Prompt:     prompt,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	shellCmd.Flags().BoolVar(&basic, "basic", false, "Read lines through the external shell instead of the built-in line editor")

	// Engine flag with env var fallback
	defaultEngine := string(engine.JS)
	if envEngine := os.Getenv("WPSHELL_ENGINE"); envEngine != "" {
		defaultEngine = envEngine
	}
	shellCmd.Flags().StringVar(&engineName, "engine", defaultEngine, "Script engine to evaluate lines with (js, tengo)")

	// Site config flag with env var fallback
	shellCmd.Flags().StringVar(&siteConfig, "config", os.Getenv("WPSHELL_CONFIG"), "Path to a YAML site file")

	shellCmd.Flags().StringVar(&watchPath, "watch", "", "Restart the shell when files under this path change")
	shellCmd.Flags().StringVar(&hook, "hook", "", "Start the shell when this lifecycle hook fires")
	shellCmd.Flags().StringVar(&prompt, "prompt", repl.DefaultPrompt, "Prompt shown for each new line")
	shellCmd.Flags().StringArrayVar(&requires, "require", nil, "Load a script before the lifecycle hooks fire (repeatable)")

	rootCmd.AddCommand(shellCmd)
}
