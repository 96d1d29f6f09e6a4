// Package database keeps the local registry of installed app containers.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no registry row matches the given name.
var ErrNotFound = errors.New("app not found")

// App is one registry row.
type App struct {
	ID           string
	Name         string
	DisplayName  string
	Version      string
	ManifestPath string
	InstalledAt  time.Time
}

// Registry wraps the sqlite database holding install records.
type Registry struct {
	db *sql.DB
}

// Open opens (creating if needed) the registry at path and applies the
// embedded schema.
func Open(ctx context.Context, path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create registry dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping registry: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Record upserts an install record keyed by name.
func (r *Registry) Record(ctx context.Context, app App) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.InstalledAt.IsZero() {
		app.InstalledAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO apps (id, name, display_name, version, manifest_path, installed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			version = excluded.version,
			manifest_path = excluded.manifest_path,
			installed_at = excluded.installed_at`,
		app.ID, app.Name, app.DisplayName, app.Version, app.ManifestPath,
		app.InstalledAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record app %q: %w", app.Name, err)
	}
	return nil
}

// Get returns the record for name, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, name string) (App, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, display_name, version, manifest_path, installed_at
		FROM apps WHERE name = ?`, name)

	app, err := scanApp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return App{}, ErrNotFound
	}
	if err != nil {
		return App{}, fmt.Errorf("failed to get app %q: %w", name, err)
	}
	return app, nil
}

// List returns all records, newest first, optionally filtered by a
// substring of the name.
func (r *Registry) List(ctx context.Context, filter string) ([]App, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, display_name, version, manifest_path, installed_at
		FROM apps
		WHERE name LIKE ?
		ORDER BY installed_at DESC`, "%"+filter+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var apps []App
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// Names returns every registered slot name.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM apps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the record for name. Deleting an absent name is not an
// error.
func (r *Registry) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM apps WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete app %q: %w", name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApp(s scanner) (App, error) {
	var app App
	var installedAt string
	if err := s.Scan(&app.ID, &app.Name, &app.DisplayName, &app.Version, &app.ManifestPath, &installedAt); err != nil {
		return App{}, err
	}
	t, err := time.Parse(time.RFC3339, installedAt)
	if err != nil {
		return App{}, fmt.Errorf("bad installed_at %q: %w", installedAt, err)
	}
	app.InstalledAt = t
	return app, nil
}
