// Package manifest parses .voidbox manifests, the install metadata for
// one app container.
package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
)

// Manifest describes an app container to install.
type Manifest struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	Version     string `toml:"version"`
	Source      string `toml:"source"`
	SHA256      string `toml:"sha256"`
	Entry       string `toml:"entry"`
	Description string `toml:"description"`
	Icon        string `toml:"icon"`
}

var knownFields = []string{
	"name", "display_name", "version", "source", "sha256", "entry",
	"description", "icon",
}

var (
	nameRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	sha256Re = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// Parse decodes manifest text strictly: unknown keys are rejected with a
// closest-field suggestion, and all required fields are validated.
func Parse(text string) (*Manifest, error) {
	dec := toml.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) && len(strict.Errors) > 0 {
			key := strings.Join(strict.Errors[0].Key(), ".")
			if hint := closestField(key); hint != "" {
				return nil, fmt.Errorf("parse manifest: unknown field %q (did you mean %q?)", key, hint)
			}
			return nil, fmt.Errorf("parse manifest: unknown field %q", key)
		}
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	switch {
	case m.Name == "":
		return errors.New("missing required field \"name\"")
	case !nameRe.MatchString(m.Name):
		return fmt.Errorf("invalid name %q: lowercase letters, digits, '.', '_' and '-' only", m.Name)
	case m.DisplayName == "":
		return errors.New("missing required field \"display_name\"")
	case m.Version == "":
		return errors.New("missing required field \"version\"")
	case m.Source == "":
		return errors.New("missing required field \"source\"")
	case m.SHA256 == "":
		return errors.New("missing required field \"sha256\"")
	case !sha256Re.MatchString(m.SHA256):
		return fmt.Errorf("invalid sha256 %q: want 64 hex characters", m.SHA256)
	case m.Entry == "":
		return errors.New("missing required field \"entry\"")
	case strings.HasPrefix(m.Entry, "/") || strings.Contains(m.Entry, ".."):
		return fmt.Errorf("invalid entry %q: must be a relative path inside the container", m.Entry)
	}

	if !semver.IsValid(canonicalVersion(m.Version)) {
		return fmt.Errorf("invalid version %q: want semantic version like 1.2.3", m.Version)
	}

	u, err := url.Parse(m.Source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid source %q: want an http(s) URL", m.Source)
	}
	return nil
}

// canonicalVersion accepts versions with or without the leading "v".
func canonicalVersion(v string) string {
	return "v" + strings.TrimPrefix(v, "v")
}

// closestField returns the known field nearest to key, when near enough
// to plausibly be a typo.
func closestField(key string) string {
	best, bestDist := "", 4
	for _, f := range knownFields {
		if d := levenshtein.ComputeDistance(key, f); d < bestDist {
			best, bestDist = f, d
		}
	}
	return best
}
