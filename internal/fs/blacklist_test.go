package fs

import (
	"testing"

	"snapback/internal/config"
)

func TestBlacklist_Match(t *testing.T) {
	b := NewBlacklist(config.BlacklistConfig{
		Dirs:       []string{"node_modules", ".git", "target"},
		Extensions: []string{"exe", ".dll"},
		Patterns:   []string{"*.tmp", "cache/*"},
	})

	tests := []struct {
		rel  string
		want bool
	}{
		{rel: "src/main.go", want: false},
		{rel: "node_modules/x.js", want: true},
		{rel: "a/b/node_modules/deep/y.js", want: true},
		{rel: "node_modules", want: true}, // a file named like a blacklisted dir
		{rel: "notnode_modules/x.js", want: false},
		{rel: "bin/app.exe", want: true},
		{rel: "lib/native.dll", want: true}, // extension configured with a leading dot
		{rel: "docs/exe", want: false},      // "exe" as basename, not extension
		{rel: "scratch/session.tmp", want: true},
		{rel: "cache/entry", want: true},
		{rel: "deep/cache/entry", want: false}, // path pattern anchors at the root
		{rel: ".git/config", want: true},
		{rel: "README.md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			if got := b.Match(tt.rel); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestBlacklist_Empty(t *testing.T) {
	b := NewBlacklist(config.BlacklistConfig{})
	for _, rel := range []string{"a.txt", "node_modules/x.js", "bin/app.exe"} {
		if b.Match(rel) {
			t.Errorf("empty blacklist matched %q", rel)
		}
	}
}

func TestBlacklist_IgnoresBlankAndComments(t *testing.T) {
	b := NewBlacklist(config.BlacklistConfig{
		Dirs:       []string{"", "  "},
		Extensions: []string{""},
		Patterns:   []string{"", "# a comment", "*.log"},
	})

	if b.Match("some/file.txt") {
		t.Error("blank entries must not match everything")
	}
	if !b.Match("service.log") {
		t.Error("*.log pattern should match service.log")
	}
}

func TestBlacklist_BadPatternSkipped(t *testing.T) {
	b := NewBlacklist(config.BlacklistConfig{Patterns: []string{"[unclosed"}})
	if b.Match("anything.txt") {
		t.Error("malformed pattern must not match")
	}
}
