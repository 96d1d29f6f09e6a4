// Package desktop places the voidbox binary and desktop entries for
// installed apps.
package desktop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/voidbox/voidbox/internal/manifest"
	"github.com/voidbox/voidbox/internal/paths"
)

// InstallSelf copies the running executable to its install location.
// Renaming over the target keeps the copy safe even while the installed
// binary is running.
func InstallSelf() error {
	src, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate running binary: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(src); err == nil {
		src = resolved
	}

	dst := paths.InstallPath()
	if src == dst {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open running binary: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to copy binary: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to flush binary: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move binary into place: %w", err)
	}
	return nil
}

// WriteDesktopEntry emits an XDG desktop entry for an installed app.
func WriteDesktopEntry(m *manifest.Manifest) error {
	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=%s
Exec=%s
Terminal=false
Categories=Utility;
`, m.DisplayName, m.Description, filepath.Join(paths.AppDir(m.Name), m.Entry))

	if m.Icon != "" {
		entry += fmt.Sprintf("Icon=%s\n", filepath.Join(paths.AppDir(m.Name), m.Icon))
	}

	path := entryPath(m.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create desktop dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("failed to write desktop entry: %w", err)
	}
	return nil
}

// RemoveDesktopEntry deletes the entry for name if present.
func RemoveDesktopEntry(name string) error {
	err := os.Remove(entryPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove desktop entry: %w", err)
	}
	return nil
}

func entryPath(name string) string {
	return filepath.Join(paths.DesktopDir(), "voidbox-"+name+".desktop")
}
