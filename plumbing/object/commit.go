package object

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dotman-vcs/dotman/internal/hashutil"
)

// Commit is a single point in dotman's history: a tree snapshot reference,
// zero or more parents, and the usual authorship metadata.
type Commit struct {
	ID        string
	Parents   []string
	Message   string
	Author    string
	Timestamp int64
	Nanos     uint32
	TreeHash  string
}

// DeriveID computes c's content-addressed id from every field except ID
// itself, so that two commits with identical content (including identical
// parents and timestamp) always collide to the same id.
func (c Commit) DeriveID() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&b, "parent %s\n", p)
	}
	fmt.Fprintf(&b, "author %s %d.%d\n", c.Author, c.Timestamp, c.Nanos)
	fmt.Fprintf(&b, "message %s\n", c.Message)
	return hashutil.Sum128Hex([]byte(b.String()))
}

// ShortID returns the first n characters of c.ID, the convention used for
// display and for unique-prefix ref resolution (first 8 chars by default).
func (c Commit) ShortID(n int) string {
	if n >= len(c.ID) {
		return c.ID
	}
	return c.ID[:n]
}

// IsRoot reports whether c has no parents.
func (c Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// IsMerge reports whether c has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// Encode writes the canonical binary form of c to buf.
func (c Commit) Encode(buf *bytes.Buffer) error {
	w := bufio.NewWriter(buf)
	if err := writeString(w, c.ID); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(len(c.Parents))); err != nil {
		return err
	}
	for _, p := range c.Parents {
		if err := writeString(w, p); err != nil {
			return err
		}
	}
	if err := writeString(w, c.Message); err != nil {
		return err
	}
	if err := writeString(w, c.Author); err != nil {
		return err
	}
	if err := writeVarint(w, c.Timestamp); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(c.Nanos)); err != nil {
		return err
	}
	if err := writeString(w, c.TreeHash); err != nil {
		return err
	}
	return w.Flush()
}

// DecodeCommit reverses Encode and requires the reader be fully consumed,
// so a commit's serialization never silently accepts trailing garbage.
func DecodeCommit(data []byte) (Commit, error) {
	r := bufio.NewReader(bytes.NewReader(data))
	var c Commit
	var err error
	if c.ID, err = readString(r); err != nil {
		return c, err
	}
	nParents, err := binary.ReadUvarint(r)
	if err != nil {
		return c, err
	}
	c.Parents = make([]string, nParents)
	for i := range c.Parents {
		if c.Parents[i], err = readString(r); err != nil {
			return c, err
		}
	}
	if c.Message, err = readString(r); err != nil {
		return c, err
	}
	if c.Author, err = readString(r); err != nil {
		return c, err
	}
	if c.Timestamp, err = binary.ReadVarint(r); err != nil {
		return c, err
	}
	nanos, err := binary.ReadUvarint(r)
	if err != nil {
		return c, err
	}
	c.Nanos = uint32(nanos)
	if c.TreeHash, err = readString(r); err != nil {
		return c, err
	}
	if err := checkExhausted(r); err != nil {
		return c, err
	}
	return c, nil
}
