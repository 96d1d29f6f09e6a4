package appcontainer

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/voidbox/voidbox/internal/database"
	"github.com/voidbox/voidbox/internal/manifest"
	"github.com/voidbox/voidbox/internal/paths"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	viper.Set("install.data_dir", filepath.Join(tmp, "data"))
	viper.Set("install.bin_dir", filepath.Join(tmp, "bin"))
	viper.Set("install.desktop_dir", filepath.Join(tmp, "applications"))
	viper.Set("registry.path", "")
	t.Cleanup(func() {
		viper.Set("install.data_dir", "")
		viper.Set("install.bin_dir", "")
		viper.Set("install.desktop_dir", "")
	})
	if err := paths.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
}

// buildArchive produces a tar.gz with the given file contents and its
// sha256.
func buildArchive(t *testing.T, files map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o755,
			Size:     int64(len(content)),
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return buf.Bytes(), hex.EncodeToString(sum[:])
}

func serve(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testManifest(url, sum string) *manifest.Manifest {
	return &manifest.Manifest{
		Name:        "signal",
		DisplayName: "Signal",
		Version:     "1.2.3",
		Source:      url,
		SHA256:      sum,
		Entry:       "bin/signal",
	}
}

func TestInstallExtractsAndRecords(t *testing.T) {
	setTestDirs(t)
	ctx := context.Background()

	body, sum := buildArchive(t, map[string]string{
		"bin/signal":       "#!/bin/sh\necho signal\n",
		"share/readme.txt": "hello",
	})
	srv := serve(t, body)

	reg, err := database.Open(ctx, paths.RegistryPath())
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = reg.Close()
	}()

	m := testManifest(srv.URL, sum)
	if err := New(reg).Install(ctx, m, false); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(paths.AppDir("signal"), "bin", "signal"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "echo signal") {
		t.Error("entry point content mangled")
	}

	if _, err := os.Stat(filepath.Join(paths.DesktopDir(), "voidbox-signal.desktop")); err != nil {
		t.Error("desktop entry missing after install")
	}

	app, err := reg.Get(ctx, "signal")
	if err != nil {
		t.Fatal(err)
	}
	if app.Version != "1.2.3" {
		t.Errorf("recorded version %q, want 1.2.3", app.Version)
	}
}

func TestInstallChecksumMismatch(t *testing.T) {
	setTestDirs(t)

	body, _ := buildArchive(t, map[string]string{"bin/signal": "x"})
	srv := serve(t, body)

	m := testManifest(srv.URL, strings.Repeat("0", 64))
	err := New(nil).Install(context.Background(), m, false)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("got %v, want a checksum mismatch", err)
	}

	if _, statErr := os.Stat(paths.AppDir("signal")); !os.IsNotExist(statErr) {
		t.Error("app dir created although the checksum failed")
	}
}

func TestInstallAlreadyInstalled(t *testing.T) {
	setTestDirs(t)
	ctx := context.Background()

	body, sum := buildArchive(t, map[string]string{"bin/signal": "v1"})
	srv := serve(t, body)
	m := testManifest(srv.URL, sum)

	inst := New(nil)
	if err := inst.Install(ctx, m, false); err != nil {
		t.Fatal(err)
	}

	err := inst.Install(ctx, m, false)
	if !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("got %v, want ErrAlreadyInstalled", err)
	}

	// force reinstalls over the existing directory.
	if err := inst.Install(ctx, m, true); err != nil {
		t.Fatal("force reinstall:", err)
	}
}

func TestInstallMissingEntry(t *testing.T) {
	setTestDirs(t)

	body, sum := buildArchive(t, map[string]string{"share/readme.txt": "no binary here"})
	srv := serve(t, body)

	m := testManifest(srv.URL, sum)
	err := New(nil).Install(context.Background(), m, false)
	if err == nil || !strings.Contains(err.Error(), "entry point") {
		t.Fatalf("got %v, want a missing entry point error", err)
	}
}

func TestInstallRejectsEscapingEntries(t *testing.T) {
	setTestDirs(t)

	body, sum := buildArchive(t, map[string]string{"../../escape.txt": "gotcha"})
	srv := serve(t, body)

	m := testManifest(srv.URL, sum)
	err := New(nil).Install(context.Background(), m, false)
	if err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Fatalf("got %v, want a path escape rejection", err)
	}
}

func TestInstallDownloadFailure(t *testing.T) {
	setTestDirs(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	m := testManifest(srv.URL, strings.Repeat("0", 64))
	err := New(nil).Install(context.Background(), m, false)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("got %v, want the HTTP status surfaced", err)
	}
}
