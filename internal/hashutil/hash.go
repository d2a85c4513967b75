// Package hashutil provides the non-cryptographic content fingerprinting
// used throughout dotman for blob addressing, tree hashing, and commit ids.
//
// Two widths are used: a 64-bit fingerprint (16 hex chars) for file content
// and blob names, and a 128-bit fingerprint (32 hex chars) for tree listings
// and commit ids. Neither
// is a cryptographic hash; the system does not attempt collision resistance
// beyond what's needed to distinguish distinct dotfile trees.
package hashutil

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// streamBufferSize is the minimum buffered-reader block size used when
// streaming a file through the hasher.
const streamBufferSize = 64 * 1024

// Sum64Hex returns the 16-hex-char fingerprint of b.
func Sum64Hex(b []byte) string {
	var buf [8]byte
	h := xxhash.Sum64(b)
	putUint64(buf[:], h)
	return hex.EncodeToString(buf[:])
}

// Sum128Hex returns the 32-hex-char fingerprint of b, used for commit ids
// and tree hashes where a wider fingerprint reduces collision odds across
// a long-lived history.
func Sum128Hex(b []byte) string {
	sum := xxh3.Hash128(b)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], sum.Hi)
	binary.BigEndian.PutUint64(buf[8:], sum.Lo)
	return hex.EncodeToString(buf[:])
}

// HashFile streams path through a buffered reader and returns its 16-hex-char
// content fingerprint. Two invocations against unmodified content are
// guaranteed to agree.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return HashReader(f)
}

// HashReader streams r through a buffered 64-bit hasher and returns the
// resulting 16-hex-char fingerprint.
func HashReader(r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, streamBufferSize)
	h := xxhash.New()
	if _, err := io.Copy(h, br); err != nil {
		return "", err
	}
	var buf [8]byte
	putUint64(buf[:], h.Sum64())
	return hex.EncodeToString(buf[:]), nil
}

func putUint64(buf []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}
