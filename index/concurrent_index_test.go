package index

import (
	"sync"
	"testing"

	"github.com/dotman-vcs/dotman/plumbing/object"
)

func TestConcurrentIndexParallelStage(t *testing.T) {
	ci := NewConcurrent()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ci.StageEntry(object.FileEntry{
				Path:     string(rune('a' + i%26)),
				Hash:     "1111111111111111",
				Modified: int64(i),
			})
		}(i)
	}
	wg.Wait()

	ci.CommitStaged()
	if ci.HasStagedChanges() {
		t.Fatal("expected no staged changes after commit")
	}
	if len(ci.Entries()) == 0 {
		t.Fatal("expected committed entries after parallel stage+commit")
	}
}

func TestConcurrentIndexMergeNewerWins(t *testing.T) {
	ci := NewConcurrent()
	ci.AddEntry(object.FileEntry{Path: ".bashrc", Hash: "old", Modified: 10})

	other := New()
	other.AddEntry(object.FileEntry{Path: ".bashrc", Hash: "new", Modified: 20})
	other.AddEntry(object.FileEntry{Path: ".vimrc", Hash: "vimrc-hash", Modified: 5})

	ci.MergeNewerWins(other)

	got, ok := ci.Get(".bashrc")
	if !ok || got.Hash != "new" {
		t.Fatalf("expected newer entry to win, got %+v", got)
	}
	if _, ok := ci.Get(".vimrc"); !ok {
		t.Fatal("expected new path to be merged in")
	}
}

func TestConcurrentIndexMergeTieFavorsInMemory(t *testing.T) {
	ci := NewConcurrent()
	ci.AddEntry(object.FileEntry{Path: ".bashrc", Hash: "in-memory", Modified: 10})

	other := New()
	other.AddEntry(object.FileEntry{Path: ".bashrc", Hash: "on-disk", Modified: 10})

	ci.MergeNewerWins(other)

	got, _ := ci.Get(".bashrc")
	if got.Hash != "in-memory" {
		t.Fatalf("expected tie to favor in-memory copy, got %+v", got)
	}
}

func TestConcurrentIndexToIndex(t *testing.T) {
	ci := NewConcurrent()
	ci.AddEntry(object.FileEntry{Path: "a", Hash: "aaaa"})
	idx := ci.ToIndex()
	if _, ok := idx.Get("a"); !ok {
		t.Fatal("expected snapshot to carry over committed entries")
	}
}
