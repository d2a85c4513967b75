package dotman

import (
	"github.com/dotman-vcs/dotman/index"
	"github.com/dotman-vcs/dotman/plumbing/object"
	"github.com/dotman-vcs/dotman/status"
)

// CheckoutOptions configures a Checkout call.
type CheckoutOptions struct {
	Force bool
}

// Checkout resolves target to a commit, restores its snapshot onto the
// working tree, replaces the index with the snapshot's tree, and moves
// HEAD: attached if target names a branch, detached otherwise.
func (r *Repository) Checkout(target string, opts CheckoutOptions) error {
	id, err := r.Resolve(target)
	if err != nil {
		return err
	}

	if !opts.Force {
		dirty, err := r.hasUncommittedChanges()
		if err != nil {
			return err
		}
		if dirty {
			return NewError(KindValidation, "checkout", target, ErrDirtyWorktree)
		}
	}

	snap, err := r.Snaps.Load(id)
	if err != nil {
		return err
	}

	previous := make(map[string]struct{}, len(r.Index.Entries()))
	for _, e := range r.Index.Entries() {
		previous[e.Path] = struct{}{}
	}
	if err := r.Snaps.Restore(snap, r.Home, previous); err != nil {
		return err
	}

	r.replaceIndexWithTree(snap)
	if err := r.SaveIndex(); err != nil {
		return err
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return err
	}

	isBranch := false
	if branches, err := r.Refs.ListBranches(); err == nil {
		for _, b := range branches {
			if b == target {
				isBranch = true
				break
			}
		}
	}

	if isBranch {
		if err := r.Refs.WriteHeadBranch(target); err != nil {
			return err
		}
	} else {
		if err := r.Refs.WriteHeadDetached(id); err != nil {
			return err
		}
	}
	return r.Refs.UpdateHead(head.CommitID, id, r.Actor(), "checkout", "checkout "+target)
}

// replaceIndexWithTree rebuilds r.Index from snap's tree, discarding
// whatever staged changes and committed entries it previously held.
func (r *Repository) replaceIndexWithTree(snap object.Snapshot) {
	fresh := index.New()
	for path, te := range snap.Tree {
		fresh.AddEntry(object.FileEntry{Path: path, Hash: te.Hash, Mode: te.Mode})
	}
	*r.Index = *fresh
}

// hasUncommittedChanges reports whether any tracked entry's on-disk state
// differs from the index, or whether anything is staged.
func (r *Repository) hasUncommittedChanges() (bool, error) {
	if r.Index.HasStagedChanges() {
		return true, nil
	}
	threads := r.Config.Performance.ParallelThreads
	if threads <= 0 {
		threads = 1
	}
	entries, err := status.ClassifyTracked(r.Home, r.Index.Entries(), threads)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Category != status.Unchanged {
			return true, nil
		}
	}
	return false, nil
}
