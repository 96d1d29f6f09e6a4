package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/voidbox/voidbox/internal/config"
)

var noTUI bool

var rootCmd = &cobra.Command{
	Use:   "voidbox [manifest.voidbox]",
	Short: "Install and manage sandboxed app containers",
	Long: `voidbox installs app containers described by .voidbox manifest files,
and installs itself as the runtime those containers need.

Usage:
  voidbox install              - Install the voidbox runtime
  voidbox install <manifest>   - Install an app container
  voidbox list                 - List installed apps
  voidbox remove <name>        - Remove an installed app
  voidbox <manifest>           - Shorthand for install`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Init()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && strings.HasSuffix(args[0], ".voidbox") {
			// A manifest argument acts as shorthand for installation.
			return runInstall(cmd, args)
		}
		return cmd.Help()
	},
}

// Execute runs the command tree.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&noTUI, "no-tui", false,
		"Disable TUI, use plain text output")
}

// isTUIEnabled reports whether the installer should render the TUI.
// Disabled by --no-tui or when stdout is not a terminal.
func isTUIEnabled() bool {
	if noTUI {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
