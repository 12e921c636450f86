package scan

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{"*.bak", "a/b/c.bak", true},
		{"*.bak", "c.bak.txt", false},
		{"build", "build/out/x", true},
		{"build", "src/build/x", true},
		{"build/", "build/x", true},
		{"build/", "src/build/x", false},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"docs/sub", "docs/sub/a.md", true},
		{"./README.md", "README.md", true},
		{"", "README.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.rel, func(t *testing.T) {
			if got := Match(tt.pattern, tt.rel); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.rel, got, tt.want)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"a.sh",
		"node_modules/pkg/index.js",
		"roles/web/tasks/main.yml",
		"tmp/scratch.txt",
		".git/HEAD",
	} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Files(context.Background(), root, []string{"tmp"})
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	want := []string{"a.sh", "roles/web/tasks/main.yml"}
	if !slices.Equal(files, want) {
		t.Errorf("Files() = %v, want %v", files, want)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Files(ctx, root, nil); err == nil {
		t.Error("Files() with cancelled context should fail")
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		data string
		want []string
	}{
		{"", nil},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb\n", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		if got := Lines([]byte(tt.data)); !slices.Equal(got, tt.want) {
			t.Errorf("Lines(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestGrep(t *testing.T) {
	rules := []Rule{
		{Name: "curl-pipe", Pattern: regexp.MustCompile(`curl[^|]*\|\s*(ba)?sh`)},
		{Name: "chmod", Pattern: regexp.MustCompile(`chmod\s+777`), Skip: regexp.MustCompile(`^\s*#`)},
	}
	data := []byte("#!/bin/sh\ncurl -s https://x | sh\n# chmod 777 /tmp\nchmod 777 /srv\n")

	hits := Grep("install.sh", data, rules)
	if len(hits) != 2 {
		t.Fatalf("Grep() returned %d hits, want 2: %v", len(hits), hits)
	}
	if hits[0].Rule != "curl-pipe" || hits[0].Line != 2 {
		t.Errorf("hits[0] = %s@%d, want curl-pipe@2", hits[0].Rule, hits[0].Line)
	}
	if hits[1].Rule != "chmod" || hits[1].Line != 4 {
		t.Errorf("hits[1] = %s@%d, want chmod@4", hits[1].Rule, hits[1].Line)
	}
	if got := hits[1].String(); got != "install.sh:4: chmod 777 /srv" {
		t.Errorf("Hit.String() = %q", got)
	}
}

func TestShebang(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"#!/bin/bash -e\r\necho", "/bin/bash -e"},
		{"echo", ""},
		{"#", ""},
	}
	for _, tt := range tests {
		if got := Shebang([]byte(tt.data)); got != tt.want {
			t.Errorf("Shebang(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestIsShellScript(t *testing.T) {
	tests := []struct {
		rel  string
		data string
		want bool
	}{
		{"deploy.sh", "", true},
		{"run.bash", "", true},
		{"bin/tool", "#!/usr/bin/env bash\n", true},
		{"bin/tool", "#!/bin/sh\n", true},
		{"bin/tool", "#!/usr/bin/env python3\n", false},
		{"notes.txt", "hello", false},
	}
	for _, tt := range tests {
		if got := IsShellScript(tt.rel, []byte(tt.data)); got != tt.want {
			t.Errorf("IsShellScript(%q, %q) = %v, want %v", tt.rel, tt.data, got, tt.want)
		}
	}
}

func TestIsComment(t *testing.T) {
	if !IsComment("  # note") {
		t.Error(`IsComment("  # note") = false, want true`)
	}
	if IsComment("echo # trailing") {
		t.Error(`IsComment("echo # trailing") = true, want false`)
	}
}
