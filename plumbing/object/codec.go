// Package object defines dotman's in-memory object model — file entries,
// commits, and snapshot trees — and the deterministic binary codec used to
// persist them. Unlike go-git's object package, these are not git objects:
// they carry no zlib framing and no SHA1/SHA256 identity, only the flat
// uvarint-prefixed layout dotman's own store uses.
package object

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// writeString writes a uvarint length prefix followed by the raw bytes of s.
func writeString(w *bufio.Writer, s string) error {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

// readString reverses writeString.
func readString(r *bufio.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeUvarint writes v as an unsigned varint.
func writeUvarint(w *bufio.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

// writeVarint writes v as a signed, zig-zag-encoded varint.
func writeVarint(w *bufio.Writer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

// errTrailingData is returned when a decode leaves unconsumed bytes behind,
// which would otherwise let two different encodings silently compare equal.
var errTrailingData = fmt.Errorf("object: trailing data after decode")

// checkExhausted returns errTrailingData if r has bytes left to read.
func checkExhausted(r *bufio.Reader) error {
	if _, err := r.ReadByte(); err != io.EOF {
		if err == nil {
			return errTrailingData
		}
		return err
	}
	return nil
}
