package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindUntrackedInLeafDirectory(t *testing.T) {
	home := t.TempDir()
	repo := filepath.Join(home, ".dotman")
	os.Mkdir(repo, 0o755)

	nvimDir := filepath.Join(home, ".config", "nvim")
	os.MkdirAll(nvimDir, 0o755)

	trackedFile := filepath.Join(nvimDir, "init.lua")
	untrackedFile := filepath.Join(nvimDir, "untracked.lua")
	os.WriteFile(trackedFile, []byte("tracked"), 0o644)
	os.WriteFile(untrackedFile, []byte("untracked"), 0o644)

	trie := NewDirTrie()
	trie.InsertTrackedFile(".config/nvim/init.lua")
	tracked := map[string]struct{}{".config/nvim/init.lua": {}}

	got, err := FindUntrackedFiles(home, repo, trie, tracked, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != ".config/nvim/untracked.lua" {
		t.Fatalf("expected [.config/nvim/untracked.lua], got %v", got)
	}
}

func TestSkipUntrackedInParentDirectory(t *testing.T) {
	home := t.TempDir()
	repo := filepath.Join(home, ".dotman")
	os.Mkdir(repo, 0o755)

	configDir := filepath.Join(home, ".config")
	nvimDir := filepath.Join(configDir, "nvim")
	os.MkdirAll(nvimDir, 0o755)

	os.WriteFile(filepath.Join(nvimDir, "init.lua"), []byte("tracked"), 0o644)
	os.WriteFile(filepath.Join(configDir, "untracked.txt"), []byte("parent"), 0o644)
	os.WriteFile(filepath.Join(nvimDir, "untracked.lua"), []byte("leaf"), 0o644)

	trie := NewDirTrie()
	trie.InsertTrackedFile(".config/nvim/init.lua")
	tracked := map[string]struct{}{".config/nvim/init.lua": {}}

	got, err := FindUntrackedFiles(home, repo, trie, tracked, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != ".config/nvim/untracked.lua" {
		t.Fatalf("expected only the leaf-directory file, got %v", got)
	}
}

func TestIgnorePatternsExcludeMatchingFiles(t *testing.T) {
	home := t.TempDir()
	repo := filepath.Join(home, ".dotman")
	os.Mkdir(repo, 0o755)

	os.WriteFile(filepath.Join(home, "notes.txt"), []byte("keep"), 0o644)
	os.WriteFile(filepath.Join(home, "debug.log"), []byte("skip"), 0o644)
	os.WriteFile(filepath.Join(home, "tracked.txt"), []byte("tracked"), 0o644)

	// A tracked file directly in home makes home a Leaf, so its untracked
	// files are collected.
	trie := NewDirTrie()
	trie.InsertTrackedFile("tracked.txt")
	got, err := FindUntrackedFiles(home, repo, trie, map[string]struct{}{"tracked.txt": {}}, []string{"*.log"})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p == "debug.log" {
			t.Fatal("debug.log should have been excluded by the ignore pattern")
		}
	}
	found := false
	for _, p := range got {
		if p == "notes.txt" {
			found = true
		}
	}
	if !found {
		t.Fatal("notes.txt should still be reported as untracked")
	}
}

func TestIgnorePatternsPruneMatchingDirectories(t *testing.T) {
	home := t.TempDir()
	repo := filepath.Join(home, ".dotman")
	os.Mkdir(repo, 0o755)

	cacheDir := filepath.Join(home, "cache", "nested")
	os.MkdirAll(cacheDir, 0o755)
	os.WriteFile(filepath.Join(cacheDir, "blob"), []byte("x"), 0o644)

	trie := NewDirTrie()
	got, err := FindUntrackedFiles(home, repo, trie, map[string]struct{}{}, []string{"cache"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected the cache directory to be pruned entirely, got %v", got)
	}
}

func TestExcludeRepoDirectory(t *testing.T) {
	home := t.TempDir()
	repo := filepath.Join(home, ".dotman")
	os.MkdirAll(repo, 0o755)
	os.WriteFile(filepath.Join(repo, "config"), []byte("config"), 0o644)

	trie := NewDirTrie()
	got, err := FindUntrackedFiles(home, repo, trie, map[string]struct{}{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p == ".dotman/config" {
			t.Fatal("repo directory contents must never be reported as untracked")
		}
	}
}
