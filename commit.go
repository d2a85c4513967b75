package dotman

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotman-vcs/dotman/internal/hashutil"
	"github.com/dotman-vcs/dotman/plumbing/object"
	"github.com/dotman-vcs/dotman/storage/refstore"
)

// CommitOptions configures a Commit call.
type CommitOptions struct {
	Message string
	// RefreshAll re-checks every tracked entry against disk before
	// snapshotting, the --all flag's effect.
	RefreshAll bool
}

// Commit snapshots the currently staged tree and advances HEAD. It fails
// with KindValidation if the index has no tracked entries (an empty
// repository has nothing to commit).
func (r *Repository) Commit(opts CommitOptions) (*object.Commit, error) {
	if len(r.Index.Entries()) == 0 && !r.Index.HasStagedChanges() {
		return nil, NewError(KindValidation, "commit", "", ErrEmptyCommit)
	}

	if opts.RefreshAll {
		if err := r.refreshIndexEntries(); err != nil {
			return nil, err
		}
	}

	// Fold any staged adds/removals into the committed view before
	// deriving the tree, so the snapshot reflects everything queued.
	r.Index.CommitStaged()
	entries := r.Index.Entries()
	if len(entries) == 0 {
		return nil, NewError(KindValidation, "commit", "", ErrEmptyCommit)
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return nil, err
	}

	var parents []string
	if head.CommitID != "" {
		parents = []string{head.CommitID}
	}

	tree := make(map[string]object.TreeEntry, len(entries))
	for _, e := range entries {
		tree[e.Path] = object.TreeEntry{Hash: e.Hash, Mode: e.Mode}
	}

	now := time.Now()
	commit := object.Commit{
		Parents:   parents,
		Message:   opts.Message,
		Author:    r.Actor(),
		Timestamp: now.Unix(),
		Nanos:     uint32(now.Nanosecond()),
	}
	commit.TreeHash = (object.Snapshot{Commit: commit, Tree: tree}).TreeHash()
	commit.ID = commit.DeriveID()

	snap := object.Snapshot{Commit: commit, Tree: tree}
	if err := r.Snaps.Save(snap); err != nil {
		return nil, err
	}

	if err := r.advanceHead(head, commit.ID, "commit", opts.Message); err != nil {
		return nil, err
	}

	if err := r.SaveIndex(); err != nil {
		return nil, err
	}

	r.logger.Debug().Str("commit", commit.ID).Int("files", len(tree)).Msg("dotman: committed")
	return &commit, nil
}

// advanceHead moves both HEAD and, if attached, the current branch, to
// newID, recording one reflog entry per ref: the ref update and its
// reflog append happen in that order.
func (r *Repository) advanceHead(head refstore.HeadState, newID, action, message string) error {
	if head.Branch != "" {
		if err := r.Refs.UpdateBranch(head.Branch, head.CommitID, newID, r.Actor(), action, message); err != nil {
			return err
		}
	} else if err := r.Refs.WriteHeadDetached(newID); err != nil {
		return err
	}
	return r.Refs.UpdateHead(head.CommitID, newID, r.Actor(), action, message)
}

// refreshIndexEntries re-hashes every tracked path against the working
// tree, used by Commit's --all.
func (r *Repository) refreshIndexEntries() error {
	for _, e := range r.Index.Entries() {
		full := filepath.Join(r.Home, e.Path)
		info, err := os.Stat(full)
		if err != nil {
			return fmt.Errorf("dotman: refresh %s: %w", e.Path, err)
		}
		hash, err := hashutil.HashFile(full)
		if err != nil {
			return fmt.Errorf("dotman: refresh %s: %w", e.Path, err)
		}
		e.Hash = hash
		e.Size = info.Size()
		e.Modified = info.ModTime().Unix()
		e.Mode = uint32(info.Mode())
		r.Index.AddEntry(e)
	}
	return nil
}
