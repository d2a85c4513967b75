// Package status computes the working-set status of a repository: which
// tracked files changed or disappeared, which on-disk files are untracked,
// and which paths are staged or conflicted. The tracked-path
// comparison fans out over the shared worker pool, mirroring the original
// implementation's parallel stat/hash status pass.
package status

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/dotman-vcs/dotman/internal/hashutil"
	"github.com/dotman-vcs/dotman/internal/workerpool"
	"github.com/dotman-vcs/dotman/plumbing/object"
)

// Category classifies a single path in a status report.
type Category int

const (
	Unchanged Category = iota
	Added
	Modified
	Deleted
	Untracked
	Staged
	Conflict
)

func (c Category) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Untracked:
		return "untracked"
	case Staged:
		return "staged"
	case Conflict:
		return "conflict"
	default:
		return "unchanged"
	}
}

// Entry is one path's classification in a status report.
type Entry struct {
	Path     string
	Category Category
}

// Report is the full classification of a status pass.
type Report struct {
	Entries []Entry
}

// Add appends an entry unless it is Unchanged (unchanged paths are never
// interesting to a status report's consumer).
func (r *Report) add(path string, cat Category) {
	if cat == Unchanged {
		return
	}
	r.Entries = append(r.Entries, Entry{Path: path, Category: cat})
}

// ClassifyTracked compares every tracked entry against the filesystem in
// parallel over the shared worker pool, classifying each as Unchanged,
// Modified, or Deleted. It skips a full content hash whenever size and
// modification time both already match the index record.
func ClassifyTracked(home string, entries []object.FileEntry, threads int) ([]Entry, error) {
	results := make([]Entry, len(entries))
	var mu sync.Mutex
	var firstErr error

	grp, _ := workerpool.New(context.Background(), threads)
	for i, e := range entries {
		i, e := i, e
		grp.Go(func() error {
			cat, err := classifyOne(home, e)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			results[i] = Entry{Path: e.Path, Category: cat}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, firstErr
}

func classifyOne(home string, e object.FileEntry) (Category, error) {
	full := filepath.Join(home, e.Path)
	info, err := os.Lstat(full)
	if os.IsNotExist(err) {
		return Deleted, nil
	}
	if err != nil {
		return Unchanged, err
	}

	if info.Size() == e.Size && info.ModTime().Unix() == e.Modified {
		return Unchanged, nil
	}

	hash, err := hashutil.HashFile(full)
	if err != nil {
		return Unchanged, err
	}
	if hash == e.Hash {
		return Unchanged, nil
	}
	return Modified, nil
}
