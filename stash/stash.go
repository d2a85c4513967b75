// Package stash implements dotman's stash stack: a LIFO sequence
// of saved working-tree states, each capturing the index's tracked tree
// and, optionally, the untracked files swept in by --include-untracked.
// Entries are persisted in a single file using the same length-prefixed
// binary encoding the index and object packages use, so a stash survives
// across process invocations exactly like every other piece of dotman's
// on-disk state.
package stash

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/dotman-vcs/dotman/plumbing/object"
)

// Entry is one stashed working-tree state.
type Entry struct {
	Label     string
	When      int64
	Tree      map[string]object.TreeEntry
	Untracked map[string]object.FileEntry
}

// Stack is the persisted LIFO stash list, most-recent entry last.
type Stack struct {
	path    string
	entries []Entry
}

// Open loads the stash stack persisted at path, or returns an empty one
// if no stash file exists yet.
func Open(path string) (*Stack, error) {
	entries, err := load(path)
	if err != nil {
		return nil, err
	}
	return &Stack{path: path, entries: entries}, nil
}

// Push records a new entry on top of the stack and persists it. Callers
// are responsible for clearing the working tree's modifications afterward.
func (s *Stack) Push(label string, tree map[string]object.TreeEntry, untracked map[string]object.FileEntry) error {
	s.entries = append(s.entries, Entry{
		Label:     label,
		When:      time.Now().Unix(),
		Tree:      tree,
		Untracked: untracked,
	})
	return s.save()
}

// Peek returns the most recent entry without removing it, or false if the
// stack is empty.
func (s *Stack) Peek() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Pop removes and returns the most recent entry (the caller applies it to
// the working tree before this call returns data it can act on).
func (s *Stack) Pop() (Entry, error) {
	e, ok := s.Peek()
	if !ok {
		return Entry{}, fmt.Errorf("stash: stack is empty")
	}
	s.entries = s.entries[:len(s.entries)-1]
	return e, s.save()
}

// Drop removes the entry at stack index idx (0 = oldest) without applying it.
func (s *Stack) Drop(idx int) error {
	if idx < 0 || idx >= len(s.entries) {
		return fmt.Errorf("stash: index %d out of range", idx)
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return s.save()
}

// Clear removes every entry.
func (s *Stack) Clear() error {
	s.entries = nil
	return s.save()
}

// List returns every entry, oldest first, the order List displays by
// ascending stack index.
func (s *Stack) List() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// At returns the entry at stack index idx without removing it.
func (s *Stack) At(idx int) (Entry, bool) {
	if idx < 0 || idx >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[idx], true
}

func (s *Stack) save() error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := writeUvarint(w, uint64(len(s.entries))); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	for _, e := range s.entries {
		if err := encodeEntry(w, e); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
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
	return os.Rename(tmp, s.path)
}

func load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stash: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("stash: %w", err)
	}
	entries := make([]Entry, 0, n)
	for i := uint64(0); i < n; i++ {
		e, err := decodeEntry(r)
		if err != nil {
			return nil, fmt.Errorf("stash: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func encodeEntry(w *bufio.Writer, e Entry) error {
	if err := writeString(w, e.Label); err != nil {
		return err
	}
	if err := writeVarint(w, e.When); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(len(e.Tree))); err != nil {
		return err
	}
	for path, te := range e.Tree {
		if err := writeString(w, path); err != nil {
			return err
		}
		if err := writeString(w, te.Hash); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(te.Mode)); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(len(e.Untracked))); err != nil {
		return err
	}
	for path, fe := range e.Untracked {
		if err := writeString(w, path); err != nil {
			return err
		}
		if err := writeString(w, fe.Hash); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(fe.Size)); err != nil {
			return err
		}
		if err := writeVarint(w, fe.Modified); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(fe.Mode)); err != nil {
			return err
		}
	}
	return nil
}

func decodeEntry(r *bufio.Reader) (Entry, error) {
	var e Entry
	var err error
	if e.Label, err = readString(r); err != nil {
		return e, err
	}
	if e.When, err = binary.ReadVarint(r); err != nil {
		return e, err
	}
	nTree, err := binary.ReadUvarint(r)
	if err != nil {
		return e, err
	}
	e.Tree = make(map[string]object.TreeEntry, nTree)
	for i := uint64(0); i < nTree; i++ {
		path, err := readString(r)
		if err != nil {
			return e, err
		}
		hash, err := readString(r)
		if err != nil {
			return e, err
		}
		mode, err := binary.ReadUvarint(r)
		if err != nil {
			return e, err
		}
		e.Tree[path] = object.TreeEntry{Hash: hash, Mode: uint32(mode)}
	}

	nUntracked, err := binary.ReadUvarint(r)
	if err != nil {
		return e, err
	}
	e.Untracked = make(map[string]object.FileEntry, nUntracked)
	for i := uint64(0); i < nUntracked; i++ {
		path, err := readString(r)
		if err != nil {
			return e, err
		}
		hash, err := readString(r)
		if err != nil {
			return e, err
		}
		size, err := binary.ReadUvarint(r)
		if err != nil {
			return e, err
		}
		modified, err := binary.ReadVarint(r)
		if err != nil {
			return e, err
		}
		mode, err := binary.ReadUvarint(r)
		if err != nil {
			return e, err
		}
		e.Untracked[path] = object.FileEntry{
			Path: path, Hash: hash, Size: int64(size), Modified: modified, Mode: uint32(mode),
		}
	}
	return e, nil
}

func writeString(w *bufio.Writer, s string) error {
	if err := writeUvarint(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := readFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeUvarint(w *bufio.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func writeVarint(w *bufio.Writer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}
