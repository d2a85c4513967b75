package object

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"path"
	"strings"
)

// FileEntry records everything the index tracks about a single working-set
// file: its repo-relative path, content fingerprint, size, modification
// time, and POSIX mode bits.
type FileEntry struct {
	Path     string
	Hash     string
	Size     int64
	Modified int64
	Mode     uint32
}

// NormalizePath rejects absolute paths and ".." segments and returns the
// path in slash form, repo-relative. Every FileEntry.Path must have passed
// through this before it is stored.
func NormalizePath(p string) (string, error) {
	clean := path.Clean(filepathToSlash(p))
	if path.IsAbs(clean) {
		return "", fmt.Errorf("object: path %q must be repo-relative", p)
	}
	if clean == "." || clean == "" {
		return "", fmt.Errorf("object: empty path")
	}
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return "", fmt.Errorf("object: path %q escapes the repository root", p)
		}
	}
	return clean, nil
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Encode appends the canonical binary form of e to buf and returns it.
func (e FileEntry) Encode(buf *bytes.Buffer) error {
	w := bufio.NewWriter(buf)
	if err := writeString(w, e.Path); err != nil {
		return err
	}
	if err := writeString(w, e.Hash); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(e.Size)); err != nil {
		return err
	}
	if err := writeVarint(w, e.Modified); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(e.Mode)); err != nil {
		return err
	}
	return w.Flush()
}

// DecodeFileEntry reads one FileEntry from r. It does not require r to be
// exhausted, so callers can decode a stream of entries back to back.
func DecodeFileEntry(r *bufio.Reader) (FileEntry, error) {
	var e FileEntry
	var err error
	if e.Path, err = readString(r); err != nil {
		return e, err
	}
	if e.Hash, err = readString(r); err != nil {
		return e, err
	}
	size, err := binary.ReadUvarint(r)
	if err != nil {
		return e, err
	}
	e.Size = int64(size)
	if e.Modified, err = binary.ReadVarint(r); err != nil {
		return e, err
	}
	mode, err := binary.ReadUvarint(r)
	if err != nil {
		return e, err
	}
	e.Mode = uint32(mode)
	return e, nil
}
