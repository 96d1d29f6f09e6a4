package cmd

import (
	"github.com/spf13/cobra"

	"github.com/voidbox/voidbox/internal/database"
	"github.com/voidbox/voidbox/internal/paths"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed app containers",
	Long: `Display the app containers installed via voidbox.

Shows slot names, display names, versions and installation times.

Examples:
  voidbox list
  voidbox list --filter signal`,
	RunE: runList,
}

var listFilter string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Filter apps by name")
}

func runList(cmd *cobra.Command, args []string) error {
	registry, err := database.Open(cmd.Context(), paths.RegistryPath())
	if err != nil {
		return err
	}
	defer func(registry *database.Registry) {
		cobra.CheckErr(registry.Close())
	}(registry)

	apps, err := registry.List(cmd.Context(), listFilter)
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		cmd.Println("No apps installed.")
		return nil
	}

	for _, app := range apps {
		cmd.Printf("%-20s %-30s %-12s %s\n",
			app.Name, app.DisplayName, app.Version,
			app.InstalledAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
