package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotman-vcs/dotman/internal/hashutil"
	"github.com/dotman-vcs/dotman/plumbing/object"
)

func TestClassifyTrackedDetectsModifiedAndDeleted(t *testing.T) {
	home := t.TempDir()

	unchangedPath := filepath.Join(home, "a")
	modifiedPath := filepath.Join(home, "b")
	os.WriteFile(unchangedPath, []byte("same"), 0o644)
	os.WriteFile(modifiedPath, []byte("new content"), 0o644)

	infoA, _ := os.Stat(unchangedPath)
	hashA, _ := hashutil.HashFile(unchangedPath)

	entries := []object.FileEntry{
		{Path: "a", Hash: hashA, Size: infoA.Size(), Modified: infoA.ModTime().Unix()},
		{Path: "b", Hash: "stale-hash-old-content", Size: 1, Modified: 1},
		{Path: "c", Hash: "deadbeef", Size: 1, Modified: 1},
	}

	results, err := ClassifyTracked(home, entries, 2)
	if err != nil {
		t.Fatal(err)
	}

	byPath := make(map[string]Category)
	for _, e := range results {
		byPath[e.Path] = e.Category
	}
	if byPath["a"] != Unchanged {
		t.Fatalf("expected a unchanged, got %v", byPath["a"])
	}
	if byPath["b"] != Modified {
		t.Fatalf("expected b modified, got %v", byPath["b"])
	}
	if byPath["c"] != Deleted {
		t.Fatalf("expected c deleted, got %v", byPath["c"])
	}
}
