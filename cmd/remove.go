package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/voidbox/voidbox/internal/database"
	"github.com/voidbox/voidbox/internal/desktop"
	"github.com/voidbox/voidbox/internal/paths"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an installed app container",
	Long: `Remove an installed app container: its container directory, persisted
manifest, desktop entry and registry record.

Examples:
  voidbox remove signal`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	registry, err := database.Open(cmd.Context(), paths.RegistryPath())
	if err != nil {
		return err
	}
	defer func(registry *database.Registry) {
		cobra.CheckErr(registry.Close())
	}(registry)

	app, err := registry.Get(cmd.Context(), name)
	if errors.Is(err, database.ErrNotFound) {
		names, nerr := registry.Names(cmd.Context())
		if nerr == nil {
			if hint := closestName(name, names); hint != "" {
				return fmt.Errorf("no app named %q installed (did you mean %q?)", name, hint)
			}
		}
		return fmt.Errorf("no app named %q installed", name)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Removing %s...\n", app.DisplayName)

	if err := os.RemoveAll(paths.AppDir(name)); err != nil {
		return fmt.Errorf("failed to remove app directory: %w", err)
	}
	if err := os.Remove(paths.ManifestPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove manifest: %w", err)
	}
	if err := desktop.RemoveDesktopEntry(name); err != nil {
		return err
	}
	if err := registry.Delete(cmd.Context(), name); err != nil {
		return err
	}

	cmd.Printf("App %s removed successfully\n", name)
	return nil
}

// closestName returns the installed name nearest to input, when near
// enough to plausibly be a typo.
func closestName(input string, names []string) string {
	best, bestDist := "", 4
	for _, n := range names {
		if d := levenshtein.ComputeDistance(input, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
