package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/voidbox/voidbox/internal/appcontainer"
	"github.com/voidbox/voidbox/internal/database"
	"github.com/voidbox/voidbox/internal/desktop"
	"github.com/voidbox/voidbox/internal/manifest"
	"github.com/voidbox/voidbox/internal/paths"
	"github.com/voidbox/voidbox/internal/version"
)

// Deps are the collaborators the worker drives. Tests swap individual
// fields for stubs.
type Deps struct {
	EnsureDirs     func() error
	InstallSelf    func() error
	RuntimePresent func() bool
	Parse          func(text string) (*manifest.Manifest, error)
	ManifestPath   func(name string) string
	WriteManifest  func(path, content string) error
	InstallApp     func(ctx context.Context, m *manifest.Manifest, force bool) error
	Version        string
}

// DefaultDeps wires the real collaborators. registry may be nil, in which
// case installs are not recorded.
func DefaultDeps(registry *database.Registry) Deps {
	containers := appcontainer.New(registry)
	return Deps{
		EnsureDirs:     paths.EnsureDirs,
		InstallSelf:    desktop.InstallSelf,
		RuntimePresent: paths.RuntimePresent,
		Parse:          manifest.Parse,
		ManifestPath:   paths.ManifestPath,
		WriteManifest: func(path, content string) error {
			return os.WriteFile(path, []byte(content), 0o644)
		},
		InstallApp: containers.Install,
		Version:    version.String(),
	}
}

// RunWorker executes one request to completion or failure, reporting
// milestones on q. It emits exactly one terminal status and is meant to
// run on its own goroutine for the full duration of the attempt.
func RunWorker(ctx context.Context, req Request, q *Queue, deps Deps) {
	msg, err := perform(ctx, req, q, deps)
	if err != nil {
		q.Send(ErrorStatus{Text: err.Error()})
		return
	}
	q.Send(SuccessStatus{Text: msg})
}

// perform runs the install steps. The first failing step short-circuits
// the rest; nothing already created or written is rolled back.
func perform(ctx context.Context, req Request, q *Queue, deps Deps) (string, error) {
	switch r := req.(type) {
	case SelfInstall:
		q.Send(ProgressStatus{Fraction: 0.1, Text: "Creating directories..."})
		if err := deps.EnsureDirs(); err != nil {
			return "", err
		}

		q.Send(ProgressStatus{Fraction: 0.5, Text: "Copying binary..."})
		if err := deps.InstallSelf(); err != nil {
			return "", err
		}

		q.Send(ProgressStatus{Fraction: 1.0, Text: "Done!"})
		return fmt.Sprintf("Voidbox %s has been installed successfully!\n\nYou can now use 'voidbox' from your terminal.", deps.Version), nil

	case AppInstall:
		q.Send(ProgressStatus{Fraction: 0.1, Text: fmt.Sprintf("Preparing to install %s...", r.DisplayName)})

		// The runtime has to exist before any container does.
		if !deps.RuntimePresent() {
			q.Send(ProgressStatus{Fraction: 0.2, Text: "Installing Voidbox runtime..."})
			if err := deps.EnsureDirs(); err != nil {
				return "", err
			}
			if err := deps.InstallSelf(); err != nil {
				return "", err
			}
		}

		q.Send(ProgressStatus{Fraction: 0.3, Text: "Parsing manifest..."})
		m, err := deps.Parse(r.ManifestContent)
		if err != nil {
			return "", err
		}

		if err := deps.EnsureDirs(); err != nil {
			return "", err
		}

		// The manifest is persisted before the install runs and stays on
		// disk even if the install fails, so a retry can reuse it.
		if err := deps.WriteManifest(deps.ManifestPath(r.Name), r.ManifestContent); err != nil {
			return "", err
		}

		q.Send(ProgressStatus{Fraction: 0.5, Text: "Downloading and extracting..."})
		if err := deps.InstallApp(ctx, m, r.Force); err != nil {
			return "", err
		}

		q.Send(ProgressStatus{Fraction: 1.0, Text: "Done!"})
		return fmt.Sprintf("%s has been installed successfully!", r.DisplayName), nil

	default:
		return "", fmt.Errorf("unknown install request %T", req)
	}
}
