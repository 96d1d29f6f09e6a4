// Package appcontainer downloads and unpacks app containers described by
// a manifest, and reports successful installs to the registry.
package appcontainer

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/voidbox/voidbox/internal/config"
	"github.com/voidbox/voidbox/internal/database"
	"github.com/voidbox/voidbox/internal/desktop"
	"github.com/voidbox/voidbox/internal/manifest"
	"github.com/voidbox/voidbox/internal/paths"
)

// ErrAlreadyInstalled is returned when the app directory exists and force
// was not requested.
var ErrAlreadyInstalled = errors.New("app already installed")

// Installer performs blocking container installs.
type Installer struct {
	registry *database.Registry
	client   *http.Client
}

// New returns an Installer reporting to registry. A nil registry skips
// recording, which the tests use.
func New(registry *database.Registry) *Installer {
	return &Installer{
		registry: registry,
		client:   &http.Client{Timeout: config.DownloadTimeout()},
	}
}

// Install downloads, verifies and extracts the container, writes its
// desktop entry and records the install. It blocks until done. Partially
// extracted files are not rolled back on failure.
func (i *Installer) Install(ctx context.Context, m *manifest.Manifest, force bool) error {
	appDir := paths.AppDir(m.Name)
	if _, err := os.Stat(appDir); err == nil {
		if !force {
			return fmt.Errorf("%w: %s (use --force to reinstall)", ErrAlreadyInstalled, m.Name)
		}
		if err := os.RemoveAll(appDir); err != nil {
			return fmt.Errorf("failed to clear %s: %w", appDir, err)
		}
	}

	archive, err := i.download(ctx, m)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.Close()
		_ = os.Remove(archive.Name())
	}()

	if err := extract(archive, appDir); err != nil {
		return err
	}

	entry := filepath.Join(appDir, m.Entry)
	if _, err := os.Stat(entry); err != nil {
		return fmt.Errorf("container has no entry point %s: %w", m.Entry, err)
	}

	if err := desktop.WriteDesktopEntry(m); err != nil {
		return err
	}

	if i.registry != nil {
		return i.registry.Record(ctx, database.App{
			Name:         m.Name,
			DisplayName:  m.DisplayName,
			Version:      m.Version,
			ManifestPath: paths.ManifestPath(m.Name),
		})
	}
	return nil
}

// download fetches the container archive to a temp file, verifying its
// sha256 along the way. The returned file is positioned at the start.
func (i *Installer) download(ctx context.Context, m *manifest.Manifest) (*os.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", m.Source, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %s", m.Source, resp.Status)
	}

	tmp, err := os.CreateTemp(paths.StateDir(), m.Name+"-*.tar.gz")
	if err != nil {
		return nil, fmt.Errorf("failed to create download file: %w", err)
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body); err != nil {
		cleanup(tmp)
		return nil, fmt.Errorf("failed to download %s: %w", m.Source, err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(sum, m.SHA256) {
		cleanup(tmp)
		return nil, fmt.Errorf("checksum mismatch for %s: got %s, want %s", m.Name, sum, strings.ToLower(m.SHA256))
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup(tmp)
		return nil, err
	}
	return tmp, nil
}

func cleanup(f *os.File) {
	_ = f.Close()
	_ = os.Remove(f.Name())
}

// extract unpacks a tar.gz stream into dir, rejecting entries that would
// land outside it.
func extract(r io.Reader, dir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	defer func() {
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
		case tar.TypeSymlink:
			if strings.HasPrefix(hdr.Linkname, "/") || strings.Contains(hdr.Linkname, "..") {
				return fmt.Errorf("archive entry %s links outside the container", hdr.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
			}
		default:
			// Other entry types (devices, fifos) have no place in an
			// app container.
			return fmt.Errorf("archive entry %s has unsupported type %d", hdr.Name, hdr.Typeflag)
		}
	}
}

func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) && target != filepath.Clean(dir) {
		return "", fmt.Errorf("archive entry %s escapes the container directory", name)
	}
	return target, nil
}
