package fs

import (
	"path"
	"strings"

	"snapback/internal/config"
)

// Blacklist decides which relative paths are excluded from backup.
// A path is blacklisted when any of its components is a blacklisted
// directory name, when its extension is blacklisted, or when it matches
// one of the configured glob patterns.
type Blacklist struct {
	dirs     map[string]struct{}
	exts     map[string]struct{}
	patterns []string
}

// NewBlacklist builds a Blacklist from configuration. Blank entries and
// pattern lines starting with '#' are skipped.
func NewBlacklist(cfg config.BlacklistConfig) *Blacklist {
	b := &Blacklist{
		dirs: make(map[string]struct{}),
		exts: make(map[string]struct{}),
	}
	for _, d := range cfg.Dirs {
		d = strings.TrimSpace(d)
		if d != "" {
			b.dirs[d] = struct{}{}
		}
	}
	for _, e := range cfg.Extensions {
		e = strings.TrimSpace(strings.TrimPrefix(e, "."))
		if e != "" {
			b.exts[e] = struct{}{}
		}
	}
	for _, p := range cfg.Patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		b.patterns = append(b.patterns, p)
	}
	return b
}

// Match reports whether the given forward-slash relative path is
// blacklisted. It is a pure function of the path: no filesystem access.
func (b *Blacklist) Match(relPath string) bool {
	// Any component in the dir blacklist excludes the whole path. The final
	// component counts too, so a blacklisted name matches files as well.
	for _, component := range strings.Split(relPath, "/") {
		if _, ok := b.dirs[component]; ok {
			return true
		}
	}

	if ext := strings.TrimPrefix(path.Ext(relPath), "."); ext != "" {
		if _, ok := b.exts[ext]; ok {
			return true
		}
	}

	base := path.Base(relPath)
	for _, pattern := range b.patterns {
		// Patterns containing '/' match the whole relative path; bare
		// patterns match the basename only.
		target := base
		if strings.Contains(pattern, "/") {
			target = relPath
		}
		matched, err := path.Match(pattern, target)
		if err != nil {
			// Bad pattern — skip rather than crash.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
