package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voidbox/voidbox/internal/database"
	"github.com/voidbox/voidbox/internal/installer"
	"github.com/voidbox/voidbox/internal/manifest"
	"github.com/voidbox/voidbox/internal/paths"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install [manifest.voidbox]",
	Short: "Install the voidbox runtime or an app container",
	Long: `Install the voidbox runtime, or an app container from a manifest.

Without an argument, voidbox installs itself: the binary is copied to the
bin directory and the data layout is created. With a .voidbox manifest
file, the described app container is downloaded, verified and extracted,
bootstrapping the runtime first if it is missing.

Examples:
  voidbox install
  voidbox install ./signal.voidbox
  voidbox install ./signal.voidbox --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

var (
	installForce bool
	installYes   bool
)

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVarP(&installForce, "force", "f", false, "Force installation even if already installed")
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Skip the confirmation prompt (plain mode only)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args)
	if err != nil {
		return err
	}

	registry, err := database.Open(cmd.Context(), paths.RegistryPath())
	if err != nil {
		return err
	}
	deps := installer.DefaultDeps(registry)

	var code int
	if isTUIEnabled() {
		code, err = installer.Run(cmd.Context(), req, deps)
	} else {
		code, err = installer.RunPlain(cmd.Context(), req, deps, cmd.InOrStdin(), cmd.OutOrStdout(), installYes)
	}

	cobra.CheckErr(registry.Close())
	if err != nil {
		return err
	}

	os.Exit(code)
	return nil
}

// buildRequest turns the CLI arguments into an immutable install request.
func buildRequest(args []string) (installer.Request, error) {
	if len(args) == 0 {
		return installer.SelfInstall{}, nil
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	name, displayName := requestIdentity(path, string(content))
	return installer.AppInstall{
		Name:            name,
		DisplayName:     displayName,
		ManifestContent: string(content),
		Force:           installForce,
	}, nil
}

// requestIdentity derives the slot name and display name for a request.
// A readable manifest supplies both; otherwise the file stem stands in,
// and the worker's strict parse reports the real problem.
func requestIdentity(path, content string) (string, string) {
	if m, err := manifest.Parse(content); err == nil {
		return m.Name, m.DisplayName
	}
	stem := strings.TrimSuffix(filepath.Base(path), ".voidbox")
	return stem, stem
}
