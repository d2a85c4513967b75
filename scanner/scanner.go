package scanner

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// SetLogger attaches a logger FindUntrackedFiles uses for Debug-level
// pruning decisions. Unset, the scanner logs nothing.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// matchesAny reports whether rel matches any of the doublestar glob
// patterns, tried both against the full relative path and its base name so
// a pattern like "*.log" matches regardless of directory depth.
func matchesAny(patterns []string, rel string) bool {
	base := filepath.Base(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// FindUntrackedFiles walks home in a single pass, using trie to decide
// which directories to enter (Transit and Leaf) and which to collect
// untracked files from (Leaf only), skipping repoPath entirely. tracked is
// the set of home-relative, slash-separated paths already known to the
// index. ignorePatterns is a set of doublestar globs; matching directories
// are pruned and matching files are excluded from the result, the same way
// a tracked-but-now-ignored path would be.
func FindUntrackedFiles(home, repoPath string, trie *DirTrie, tracked map[string]struct{}, ignorePatterns []string) ([]string, error) {
	var untracked []string

	err := filepath.WalkDir(home, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == repoPath {
			return filepath.SkipDir
		}
		if path == home {
			return nil
		}

		rel, err := filepath.Rel(home, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesAny(ignorePatterns, rel) {
				logger.Debug().Str("dir", rel).Msg("scanner: pruning ignored subtree")
				return filepath.SkipDir
			}
			if !trie.ShouldTraverse(rel) {
				logger.Debug().Str("dir", rel).Msg("scanner: pruning untracked subtree")
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if _, isTracked := tracked[rel]; isTracked {
			return nil
		}
		if matchesAny(ignorePatterns, rel) {
			return nil
		}

		parent := filepath.ToSlash(filepath.Dir(rel))
		if parent == "." {
			parent = ""
		}
		if trie.ShouldCollect(parent) {
			untracked = append(untracked, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return untracked, nil
}
