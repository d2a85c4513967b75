// Package index implements dotman's working-set index: the record of every
// tracked file's last-known content hash, size, and modification time, plus
// a staging overlay for changes queued toward the next commit.
package index

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/dotman-vcs/dotman/plumbing/object"
)

// Index is the single-threaded, in-memory working-set index. Concurrent
// callers should use ConcurrentIndex instead.
type Index struct {
	entries map[string]object.FileEntry
	staged  map[string]object.FileEntry
	removed map[string]struct{} // staged for removal
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		entries: make(map[string]object.FileEntry),
		staged:  make(map[string]object.FileEntry),
		removed: make(map[string]struct{}),
	}
}

// AddEntry records e as the index's committed knowledge of e.Path, outside
// of any staging area. Used when loading a persisted index or after a
// commit folds staged entries in.
func (idx *Index) AddEntry(e object.FileEntry) {
	idx.entries[e.Path] = e
}

// RemoveEntry drops path from the index entirely.
func (idx *Index) RemoveEntry(path string) {
	delete(idx.entries, path)
}

// Get returns the committed entry for path, if tracked.
func (idx *Index) Get(path string) (object.FileEntry, bool) {
	e, ok := idx.entries[path]
	return e, ok
}

// Entries returns every tracked entry, sorted by path.
func (idx *Index) Entries() []object.FileEntry {
	return sortedValues(idx.entries)
}

// StageEntry queues e to replace the committed entry for e.Path on the next
// CommitStaged call, without touching the committed index yet.
func (idx *Index) StageEntry(e object.FileEntry) {
	delete(idx.removed, e.Path)
	idx.staged[e.Path] = e
}

// StageRemoval queues path for removal on the next CommitStaged call.
func (idx *Index) StageRemoval(path string) {
	delete(idx.staged, path)
	idx.removed[path] = struct{}{}
}

// StagedEntries returns every currently staged entry, sorted by path.
func (idx *Index) StagedEntries() []object.FileEntry {
	return sortedValues(idx.staged)
}

// StagedRemovals returns every path staged for removal, sorted.
func (idx *Index) StagedRemovals() []string {
	paths := make([]string, 0, len(idx.removed))
	for p := range idx.removed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// HasStagedChanges reports whether anything is queued to commit.
func (idx *Index) HasStagedChanges() bool {
	return len(idx.staged) > 0 || len(idx.removed) > 0
}

// CommitStaged folds every staged entry and removal into the committed
// index and clears the staging area, the operation a commit performs after
// a snapshot has been derived from the staged state.
func (idx *Index) CommitStaged() {
	for path, e := range idx.staged {
		idx.entries[path] = e
	}
	for path := range idx.removed {
		delete(idx.entries, path)
	}
	idx.staged = make(map[string]object.FileEntry)
	idx.removed = make(map[string]struct{})
}

// DiscardStaged clears the staging area without applying it.
func (idx *Index) DiscardStaged() {
	idx.staged = make(map[string]object.FileEntry)
	idx.removed = make(map[string]struct{})
}

func sortedValues(m map[string]object.FileEntry) []object.FileEntry {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]object.FileEntry, len(paths))
	for i, p := range paths {
		out[i] = m[p]
	}
	return out
}

// Save writes the committed index (not the staging area) to path in
// canonical sorted-path order, so repeated saves of unchanged content are
// byte-identical.
func (idx *Index) Save(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	var buf bytes.Buffer
	for _, e := range idx.Entries() {
		if err := e.Encode(&buf); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		buf.Reset()
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a previously-saved index from path.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("index: %w", err)
	}
	defer f.Close()

	idx := New()
	r := bufio.NewReader(f)
	for {
		e, err := object.DecodeFileEntry(r)
		if err != nil {
			break
		}
		idx.AddEntry(e)
	}
	return idx, nil
}
