// Package objstore implements dotman's content-addressed blob store:
// compressed file contents written under objects/<hash>.<ext>, addressed by
// their 64-bit content fingerprint. Writes land in a temp file and
// are atomically renamed into place, the same pattern go-git's
// storage/filesystem/dotgit writers use for pack and loose object files.
package objstore

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"

	"github.com/dotman-vcs/dotman/internal/compress"
	"github.com/dotman-vcs/dotman/internal/hashutil"
)

const objectsDir = "objects"
const blobExt = ".zst"

// Store is a filesystem-backed, content-addressed blob store rooted at a
// billy.Filesystem, matching the abstraction go-git uses for its own
// on-disk storage so dotman can run against any billy backend (OS, memory,
// chroot) without change.
type Store struct {
	fs     billy.Filesystem
	level  int
	logger zerolog.Logger
}

// Open returns a Store rooted at root, using the OS filesystem, creating
// the objects directory if it does not already exist.
func Open(root string, level int) (*Store, error) {
	fs := osfs.New(root)
	if err := fs.MkdirAll(objectsDir, 0o755); err != nil {
		return nil, fmt.Errorf("objstore: %w", err)
	}
	return &Store{fs: fs, level: level, logger: zerolog.Nop()}, nil
}

// NewWithFilesystem returns a Store rooted at an arbitrary billy.Filesystem,
// primarily for tests that want an in-memory backend.
func NewWithFilesystem(fs billy.Filesystem, level int) *Store {
	return &Store{fs: fs, level: level, logger: zerolog.Nop()}
}

// SetLogger attaches a logger the store uses for Debug-level dedup/write
// decisions. A freshly opened Store logs nothing until this is called.
func (s *Store) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

func objectPath(hash string) string {
	return objectsDir + "/" + hash + blobExt
}

// Has reports whether a blob with the given hash already exists.
func (s *Store) Has(hash string) (bool, error) {
	_, err := s.fs.Stat(objectPath(hash))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile compresses and stores the contents of srcPath, returning its
// content hash. If a blob with that hash already exists, the write is
// skipped: objects are content-addressed and therefore naturally deduplicated.
func (s *Store) WriteFile(srcPath string) (hash string, wrote bool, err error) {
	hash, err = hashutil.HashFile(srcPath)
	if err != nil {
		return "", false, err
	}
	exists, err := s.Has(hash)
	if err != nil {
		return "", false, err
	}
	if exists {
		s.logger.Debug().Str("hash", hash).Str("path", srcPath).Msg("objstore: skipping write, blob already present")
		return hash, false, nil
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	if err := s.writeCompressed(hash, f); err != nil {
		return "", false, err
	}
	return hash, true, nil
}

// Write stores data directly, without reading from the filesystem, and
// returns its content hash. Used by callers that already hold content in
// memory.
func (s *Store) Write(data []byte) (hash string, wrote bool, err error) {
	hash = hashutil.Sum64Hex(data)
	exists, err := s.Has(hash)
	if err != nil {
		return "", false, err
	}
	if exists {
		return hash, false, nil
	}
	compressed, err := compress.Bytes(data, s.level)
	if err != nil {
		return "", false, err
	}
	if err := s.writeBytes(hash, compressed); err != nil {
		return "", false, err
	}
	return hash, true, nil
}

func (s *Store) writeCompressed(hash string, r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	compressed, err := compress.Bytes(raw, s.level)
	if err != nil {
		return err
	}
	return s.writeBytes(hash, compressed)
}

func (s *Store) writeBytes(hash string, data []byte) error {
	tmp, err := s.fs.TempFile(objectsDir, "tmp_obj_")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return err
	}
	if err := s.fs.Rename(tmpName, objectPath(hash)); err != nil {
		s.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Read decompresses and returns the full contents of the blob with the
// given hash.
func (s *Store) Read(hash string) ([]byte, error) {
	f, err := s.fs.Open(objectPath(hash))
	if err != nil {
		return nil, fmt.Errorf("objstore: %w", err)
	}
	defer f.Close()

	compressed, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return compress.Decompress(compressed)
}

// RestoreTo decompresses the blob with the given hash directly onto disk
// at destPath, with the given file mode, used by checkout and reset.
func (s *Store) RestoreTo(hash, destPath string, mode os.FileMode) error {
	data, err := s.Read(hash)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, mode); err != nil {
		return err
	}
	return os.Chmod(destPath, mode)
}

// Delete removes the blob with the given hash, if present; a missing blob
// is not an error.
func (s *Store) Delete(hash string) error {
	err := s.fs.Remove(objectPath(hash))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
