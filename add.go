package dotman

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotman-vcs/dotman/plumbing/object"
)

// Add hashes relPath (relative to Home), writes its content into the
// object store, and stages the resulting entry for the next commit.
func (r *Repository) Add(relPath string) error {
	norm, err := object.NormalizePath(relPath)
	if err != nil {
		return NewError(KindInvalidPath, "add", relPath, err)
	}

	full := filepath.Join(r.Home, norm)
	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("dotman: add %s: %w", norm, err)
	}
	if info.IsDir() {
		return NewError(KindValidation, "add", norm, fmt.Errorf("cannot add a directory directly"))
	}

	hash, _, err := r.Blobs.WriteFile(full)
	if err != nil {
		return err
	}

	r.Index.StageEntry(object.FileEntry{
		Path:     norm,
		Hash:     hash,
		Size:     info.Size(),
		Modified: info.ModTime().Unix(),
		Mode:     uint32(info.Mode()),
	})
	return nil
}

// Remove unstages path (if staged) and queues its removal from the index.
func (r *Repository) Remove(relPath string) error {
	norm, err := object.NormalizePath(relPath)
	if err != nil {
		return NewError(KindInvalidPath, "remove", relPath, err)
	}
	r.Index.StageRemoval(norm)
	return nil
}
