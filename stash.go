package dotman

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotman-vcs/dotman/plumbing/object"
	"github.com/dotman-vcs/dotman/scanner"
	"github.com/dotman-vcs/dotman/stash"
)

func (r *Repository) stashPath() string {
	return filepath.Join(r.RepoPath, stashFile)
}

func (r *Repository) openStash() (*stash.Stack, error) {
	return stash.Open(r.stashPath())
}

// StashPush saves the current index's tracked tree (and, if
// includeUntracked is set, every untracked file found by the scanner) as a
// new stash entry, then restores the working tree to HEAD's snapshot.
func (r *Repository) StashPush(label string, includeUntracked bool) error {
	st, err := r.openStash()
	if err != nil {
		return err
	}

	entries := r.Index.Entries()
	tree := make(map[string]object.TreeEntry, len(entries))
	for _, e := range entries {
		tree[e.Path] = object.TreeEntry{Hash: e.Hash, Mode: e.Mode}
	}

	var untracked map[string]object.FileEntry
	if includeUntracked {
		trie := scanner.NewDirTrie()
		trackedSet := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			trie.InsertTrackedFile(e.Path)
			trackedSet[e.Path] = struct{}{}
		}
		paths, err := scanner.FindUntrackedFiles(r.Home, r.RepoPath, trie, trackedSet, r.Config.Tracking.IgnorePatterns)
		if err != nil {
			return err
		}
		untracked = make(map[string]object.FileEntry, len(paths))
		for _, p := range paths {
			full := filepath.Join(r.Home, p)
			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			hash, _, err := r.Blobs.WriteFile(full)
			if err != nil {
				return err
			}
			untracked[p] = object.FileEntry{
				Path: p, Hash: hash, Size: info.Size(),
				Modified: info.ModTime().Unix(), Mode: uint32(info.Mode()),
			}
		}
	}

	if err := st.Push(label, tree, untracked); err != nil {
		return err
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return err
	}
	if head.CommitID != "" {
		snap, err := r.Snaps.Load(head.CommitID)
		if err != nil {
			return err
		}
		previous := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			previous[e.Path] = struct{}{}
		}
		for p := range untracked {
			previous[p] = struct{}{}
		}
		if err := r.Snaps.Restore(snap, r.Home, previous); err != nil {
			return err
		}
		r.replaceIndexWithTree(snap)
		return r.SaveIndex()
	}
	return nil
}

// StashApply restores the most recent (or, when idx >= 0, a specific)
// stash entry's tree onto the working directory without removing it.
func (r *Repository) StashApply(idx int) error {
	st, err := r.openStash()
	if err != nil {
		return err
	}
	entry, ok := r.stashEntry(st, idx)
	if !ok {
		return fmt.Errorf("dotman: no such stash entry")
	}
	return r.applyStashEntry(entry)
}

// StashPop applies the most recent stash entry and removes it from the stack.
func (r *Repository) StashPop() error {
	st, err := r.openStash()
	if err != nil {
		return err
	}
	entry, err := st.Pop()
	if err != nil {
		return err
	}
	return r.applyStashEntry(entry)
}

func (r *Repository) stashEntry(st *stash.Stack, idx int) (stash.Entry, bool) {
	if idx < 0 {
		return st.Peek()
	}
	return st.At(idx)
}

func (r *Repository) applyStashEntry(entry stash.Entry) error {
	for path, te := range entry.Tree {
		dest := filepath.Join(r.Home, path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := r.Blobs.RestoreTo(te.Hash, dest, os.FileMode(te.Mode)); err != nil {
			return err
		}
		r.Index.AddEntry(object.FileEntry{Path: path, Hash: te.Hash, Mode: te.Mode})
	}
	for path, fe := range entry.Untracked {
		dest := filepath.Join(r.Home, path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := r.Blobs.RestoreTo(fe.Hash, dest, os.FileMode(fe.Mode)); err != nil {
			return err
		}
	}
	return r.SaveIndex()
}

// StashDrop removes the stash entry at stack index idx without applying it.
// A negative idx drops the most recent entry.
func (r *Repository) StashDrop(idx int) error {
	st, err := r.openStash()
	if err != nil {
		return err
	}
	if idx < 0 {
		idx = len(st.List()) - 1
	}
	return st.Drop(idx)
}

// StashClear removes every stash entry.
func (r *Repository) StashClear() error {
	st, err := r.openStash()
	if err != nil {
		return err
	}
	return st.Clear()
}

// StashList returns every stash entry, oldest first.
func (r *Repository) StashList() ([]stash.Entry, error) {
	st, err := r.openStash()
	if err != nil {
		return nil, err
	}
	return st.List(), nil
}
