package object

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/dotman-vcs/dotman/internal/hashutil"
)

// TreeEntry is one tracked path's content reference within a Snapshot's
// tree listing: the blob it points at and the POSIX mode it was recorded
// under. Snapshots are a flat path -> (hash, mode) map.
type TreeEntry struct {
	Hash string
	Mode uint32
}

// Snapshot pairs a Commit with the full tree it points to. The tree is kept
// as a plain map in memory but always serialized in sorted-path order, so
// two logically identical snapshots produce byte-identical encodings
// regardless of insertion order.
type Snapshot struct {
	Commit Commit
	Tree   map[string]TreeEntry
}

// TreeHash derives the content-addressed hash of s.Tree from its canonical
// serialization, independent of the Commit it is currently attached to.
func (s Snapshot) TreeHash() string {
	return hashutil.Sum128Hex(s.encodeTree())
}

func (s Snapshot) sortedPaths() []string {
	paths := make([]string, 0, len(s.Tree))
	for p := range s.Tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (s Snapshot) encodeTree() []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	paths := s.sortedPaths()
	writeUvarint(w, uint64(len(paths)))
	for _, p := range paths {
		e := s.Tree[p]
		writeString(w, p)
		writeString(w, e.Hash)
		writeUvarint(w, uint64(e.Mode))
	}
	w.Flush()
	return buf.Bytes()
}

// Encode writes the canonical binary form of s: the commit length-prefixed
// so it can be sliced back out on decode, then the tree in sorted-path
// order.
func (s Snapshot) Encode() ([]byte, error) {
	var commitBuf bytes.Buffer
	if err := s.Commit.Encode(&commitBuf); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := writeUvarint(w, uint64(commitBuf.Len())); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	buf.Write(commitBuf.Bytes())
	buf.Write(s.encodeTree())
	return buf.Bytes(), nil
}

// DecodeSnapshot reverses Encode.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot

	r := bufio.NewReader(bytes.NewReader(data))
	commitLen, err := binary.ReadUvarint(r)
	if err != nil {
		return s, err
	}
	commitBytes := make([]byte, commitLen)
	if _, err := readFull(r, commitBytes); err != nil {
		return s, err
	}
	c, err := DecodeCommit(commitBytes)
	if err != nil {
		return s, err
	}
	s.Commit = c

	n, err := binary.ReadUvarint(r)
	if err != nil {
		return s, err
	}
	s.Tree = make(map[string]TreeEntry, n)
	for i := uint64(0); i < n; i++ {
		p, err := readString(r)
		if err != nil {
			return s, err
		}
		hash, err := readString(r)
		if err != nil {
			return s, err
		}
		mode, err := binary.ReadUvarint(r)
		if err != nil {
			return s, err
		}
		s.Tree[p] = TreeEntry{Hash: hash, Mode: uint32(mode)}
	}
	if err := checkExhausted(r); err != nil {
		return s, err
	}
	return s, nil
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
