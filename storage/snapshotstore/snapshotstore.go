// Package snapshotstore persists commit snapshots under commits/<id>.<ext>
// and restores a snapshot's tree onto the working directory, including the
// removal of files the new snapshot no longer tracks.
package snapshotstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"

	"github.com/dotman-vcs/dotman/internal/compress"
	"github.com/dotman-vcs/dotman/plumbing/object"
	"github.com/dotman-vcs/dotman/storage/objstore"
)

const commitsDir = "commits"
const snapshotExt = ".zst"

// Store persists Snapshot values and restores their trees onto a target
// directory, delegating blob reads/writes to an objstore.Store.
type Store struct {
	fs     billy.Filesystem
	blobs  *objstore.Store
	level  int
	logger zerolog.Logger
}

// Open returns a Store rooted at root, creating the commits directory.
func Open(root string, blobs *objstore.Store, level int) (*Store, error) {
	fs := osfs.New(root)
	if err := fs.MkdirAll(commitsDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshotstore: %w", err)
	}
	return &Store{fs: fs, blobs: blobs, level: level, logger: zerolog.Nop()}, nil
}

// SetLogger attaches a logger the store uses for Debug-level restore
// decisions. A freshly opened Store logs nothing until this is called.
func (s *Store) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

func snapshotPath(id string) string {
	return commitsDir + "/" + id + snapshotExt
}

// Save persists s under its commit id.
func (s *Store) Save(snap object.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	compressed, err := compress.Bytes(data, s.level)
	if err != nil {
		return err
	}

	tmp, err := s.fs.TempFile(commitsDir, "tmp_commit_")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return err
	}
	if err := s.fs.Rename(tmpName, snapshotPath(snap.Commit.ID)); err != nil {
		s.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads back the snapshot stored under id.
func (s *Store) Load(id string) (object.Snapshot, error) {
	f, err := s.fs.Open(snapshotPath(id))
	if err != nil {
		return object.Snapshot{}, fmt.Errorf("snapshotstore: commit %s: %w", id, err)
	}
	defer f.Close()

	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := f.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			break
		}
	}
	raw, err := compress.Decompress(buf)
	if err != nil {
		return object.Snapshot{}, err
	}
	return object.DecodeSnapshot(raw)
}

// Has reports whether a snapshot for id has been persisted.
func (s *Store) Has(id string) (bool, error) {
	_, err := s.fs.Stat(snapshotPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the persisted snapshot for id, if present.
func (s *Store) Delete(id string) error {
	err := s.fs.Remove(snapshotPath(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Restore materializes snap's tree onto workDir: every tracked path is
// written (or overwritten) with its blob content, and any file already
// present under workDir that snap's tree no longer lists is removed,
// provided it was tracked by previous (the set of paths the working set
// tracked before this restore). Untracked files are always left alone.
func (s *Store) Restore(snap object.Snapshot, workDir string, previous map[string]struct{}) error {
	for relPath, entry := range snap.Tree {
		dest := filepath.Join(workDir, relPath)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := s.blobs.RestoreTo(entry.Hash, dest, os.FileMode(entry.Mode)); err != nil {
			return err
		}
	}

	for relPath := range previous {
		if _, stillTracked := snap.Tree[relPath]; stillTracked {
			continue
		}
		dest := filepath.Join(workDir, relPath)
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			return err
		}
		s.logger.Debug().Str("path", relPath).Msg("snapshotstore: removed file no longer tracked by restored snapshot")
	}
	return nil
}
