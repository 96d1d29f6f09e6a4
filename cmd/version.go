package cmd

import (
	"github.com/spf13/cobra"

	"github.com/voidbox/voidbox/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the voidbox version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("voidbox", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
