package manifest

import (
	"strings"
	"testing"
)

const valid = `
name = "signal"
display_name = "Signal"
version = "1.2.3"
source = "https://example.com/signal-1.2.3.tar.gz"
sha256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
entry = "bin/signal"
description = "Private messenger"
`

func TestParseValid(t *testing.T) {
	m, err := Parse(valid)
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "signal" {
		t.Errorf("name %q, want signal", m.Name)
	}
	if m.DisplayName != "Signal" {
		t.Errorf("display_name %q, want Signal", m.DisplayName)
	}
	if m.Version != "1.2.3" {
		t.Errorf("version %q, want 1.2.3", m.Version)
	}
	if m.Entry != "bin/signal" {
		t.Errorf("entry %q, want bin/signal", m.Entry)
	}
}

func TestParseAcceptsVPrefixedVersion(t *testing.T) {
	text := strings.Replace(valid, `version = "1.2.3"`, `version = "v1.2.3"`, 1)
	if _, err := Parse(text); err != nil {
		t.Fatal(err)
	}
}

func TestParseUnknownFieldSuggests(t *testing.T) {
	text := valid + "\nverison = \"9.9.9\"\n"

	_, err := Parse(text)
	if err == nil {
		t.Fatal("expected an unknown-field error")
	}
	if !strings.Contains(err.Error(), `"verison"`) {
		t.Errorf("error %q does not name the unknown field", err)
	}
	if !strings.Contains(err.Error(), `did you mean "version"`) {
		t.Errorf("error %q does not suggest the closest field", err)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]struct {
		mangle func(string) string
		want   string
	}{
		"not toml": {
			mangle: func(string) string { return "name = [broken" },
			want:   "parse manifest",
		},
		"missing name": {
			mangle: func(s string) string { return strings.Replace(s, `name = "signal"`, "", 1) },
			want:   `missing required field "name"`,
		},
		"missing sha256": {
			mangle: func(s string) string {
				return strings.Replace(s, `sha256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"`, "", 1)
			},
			want: `missing required field "sha256"`,
		},
		"short sha256": {
			mangle: func(s string) string {
				return strings.Replace(s, `sha256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"`, `sha256 = "abc123"`, 1)
			},
			want: "invalid sha256",
		},
		"bad version": {
			mangle: func(s string) string { return strings.Replace(s, `version = "1.2.3"`, `version = "latest"`, 1) },
			want:   "invalid version",
		},
		"uppercase name": {
			mangle: func(s string) string { return strings.Replace(s, `name = "signal"`, `name = "Signal"`, 1) },
			want:   "invalid name",
		},
		"non-http source": {
			mangle: func(s string) string {
				return strings.Replace(s, `source = "https://example.com/signal-1.2.3.tar.gz"`, `source = "ftp://example.com/x"`, 1)
			},
			want: "invalid source",
		},
		"escaping entry": {
			mangle: func(s string) string {
				return strings.Replace(s, `entry = "bin/signal"`, `entry = "../../etc/passwd"`, 1)
			},
			want: "invalid entry",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tc.mangle(valid))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}
