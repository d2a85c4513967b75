package dotman

import (
	"time"

	"github.com/dotman-vcs/dotman/plumbing/object"
	"github.com/dotman-vcs/dotman/rebase"
)

func (r *Repository) rebaseStatePath() string {
	return rebase.Path(r.RepoPath)
}

// RebaseBegin starts rebasing the current branch onto the resolved target.
// It computes the linear set of commits exclusive to HEAD relative to the
// target and persists the initial Replaying state.
func (r *Repository) RebaseBegin(onto string) error {
	existing, err := rebase.Load(r.rebaseStatePath())
	if err != nil {
		return err
	}
	if existing.State == rebase.Replaying || existing.State == rebase.ConflictedAt {
		return NewError(KindInvalidState, "rebase_begin", "", ErrRebaseInProgress)
	}

	ontoID, err := r.Resolve(onto)
	if err != nil {
		return err
	}
	head, err := r.Refs.ReadHead()
	if err != nil {
		return err
	}

	commits, err := r.CommitsExclusiveToBranch(ontoID, head.CommitID)
	if err != nil {
		return err
	}

	st := rebase.Begin(ontoID, head.CommitID, head.Branch, commits)
	if err := rebase.Save(r.rebaseStatePath(), st); err != nil {
		return err
	}
	return r.rebaseStep(st)
}

// RebaseContinue resumes a conflicted rebase after the caller has resolved
// and re-added the conflicting paths.
func (r *Repository) RebaseContinue() error {
	st, err := rebase.Load(r.rebaseStatePath())
	if err != nil {
		return err
	}
	st, err = st.Continue()
	if err != nil {
		return err
	}
	return r.rebaseStep(st)
}

// RebaseAbort restores the original HEAD/branch and discards the rebase state.
func (r *Repository) RebaseAbort() error {
	st, err := rebase.Load(r.rebaseStatePath())
	if err != nil {
		return err
	}
	if st.State != rebase.Replaying && st.State != rebase.ConflictedAt {
		return NewError(KindInvalidState, "rebase_abort", "", ErrNoRebaseInProgress)
	}

	if st.OriginalBranch != "" {
		if err := r.Refs.WriteHeadBranch(st.OriginalBranch); err != nil {
			return err
		}
	} else {
		if err := r.Refs.WriteHeadDetached(st.OriginalHead); err != nil {
			return err
		}
	}
	snap, err := r.Snaps.Load(st.OriginalHead)
	if err == nil {
		previous := make(map[string]struct{}, len(r.Index.Entries()))
		for _, e := range r.Index.Entries() {
			previous[e.Path] = struct{}{}
		}
		r.Snaps.Restore(snap, r.Home, previous)
		r.replaceIndexWithTree(snap)
		r.SaveIndex()
	}
	return rebase.Clear(r.rebaseStatePath())
}

// rebaseStep attempts to replay the commit at st.CurrentIndex. dotman's
// replay is exact-content only: a path is a conflict only when both sides
// changed it to different content.
func (r *Repository) rebaseStep(st rebase.Status) error {
	for {
		commitID := st.CurrentCommit()
		if commitID == "" {
			return r.finishRebase(st)
		}

		snap, err := r.Snaps.Load(commitID)
		if err != nil {
			return err
		}
		baseTree, err := r.originalParentTree(snap)
		if err != nil {
			return err
		}
		ontoTree := r.currentTreeForRebase(st)

		conflicts := diffingConflicts(baseTree, snap.Tree, ontoTree)
		if len(conflicts) > 0 {
			st = st.Conflict(conflicts)
			return rebase.Save(r.rebaseStatePath(), st)
		}

		mergedTree := applyTreeDiff(ontoTree, baseTree, snap.Tree)

		newCommit := object.Commit{
			Parents:   []string{st.Onto},
			Message:   snap.Commit.Message,
			Author:    snap.Commit.Author,
			Timestamp: time.Now().Unix(),
			Nanos:     uint32(time.Now().Nanosecond()),
		}
		newCommit.TreeHash = (object.Snapshot{Commit: newCommit, Tree: mergedTree}).TreeHash()
		newCommit.ID = newCommit.DeriveID()

		newSnap := object.Snapshot{Commit: newCommit, Tree: mergedTree}
		if err := r.Snaps.Save(newSnap); err != nil {
			return err
		}
		if err := r.Refs.UpdateHead(st.Onto, newCommit.ID, r.Actor(), "rebase", "replay "+commitID); err != nil {
			return err
		}

		st.Onto = newCommit.ID
		st = st.Advance()
		if err := rebase.Save(r.rebaseStatePath(), st); err != nil {
			return err
		}
	}
}

// currentTreeForRebase returns the tree the rebase is replaying on top of
// (the onto tip's tree), used only to detect genuine content conflicts.
func (r *Repository) currentTreeForRebase(st rebase.Status) map[string]object.TreeEntry {
	snap, err := r.Snaps.Load(st.Onto)
	if err != nil {
		return nil
	}
	return snap.Tree
}

// originalParentTree returns the tree of snap's own first parent on the
// branch being rebased — the common base a replayed commit's changes are
// compared against, distinct from the onto tip's (possibly unrelated) tree.
func (r *Repository) originalParentTree(snap object.Snapshot) (map[string]object.TreeEntry, error) {
	if len(snap.Commit.Parents) == 0 {
		return nil, nil
	}
	parentSnap, err := r.Snaps.Load(snap.Commit.Parents[0])
	if err != nil {
		return nil, err
	}
	return parentSnap.Tree, nil
}

// applyTreeDiff layers the changes a replayed commit made relative to its
// own original parent (base -> incoming) on top of onto, so a rebased
// commit carries forward everything already on the new tip instead of
// overwriting it with the commit's original, pre-rebase tree.
func applyTreeDiff(onto, base, incoming map[string]object.TreeEntry) map[string]object.TreeEntry {
	merged := make(map[string]object.TreeEntry, len(onto)+len(incoming))
	for path, entry := range onto {
		merged[path] = entry
	}
	for path, incomingEntry := range incoming {
		if baseEntry, ok := base[path]; ok && baseEntry.Hash == incomingEntry.Hash {
			continue
		}
		merged[path] = incomingEntry
	}
	for path := range base {
		if _, stillPresent := incoming[path]; !stillPresent {
			delete(merged, path)
		}
	}
	return merged
}

// diffingConflicts reports paths that both the onto tree and the replayed
// commit's tree changed to different content relative to their common
// base, using a simple same-path/different-hash test.
func diffingConflicts(base, incoming, onto map[string]object.TreeEntry) []string {
	var conflicts []string
	for path, incomingEntry := range incoming {
		baseEntry, inBase := base[path]
		ontoEntry, inOnto := onto[path]
		if !inOnto {
			continue
		}
		if inBase && baseEntry.Hash == incomingEntry.Hash {
			continue // unchanged by the commit being replayed
		}
		if ontoEntry.Hash != incomingEntry.Hash && (!inBase || ontoEntry.Hash != baseEntry.Hash) {
			conflicts = append(conflicts, path)
		}
	}
	return conflicts
}

func (r *Repository) finishRebase(st rebase.Status) error {
	if st.OriginalBranch != "" {
		if err := r.Refs.UpdateBranch(st.OriginalBranch, "", st.Onto, r.Actor(), "rebase", "rebase finished"); err != nil {
			return err
		}
		if err := r.Refs.WriteHeadBranch(st.OriginalBranch); err != nil {
			return err
		}
	} else {
		if err := r.Refs.WriteHeadDetached(st.Onto); err != nil {
			return err
		}
	}

	snap, err := r.Snaps.Load(st.Onto)
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

	st.State = rebase.Completed
	if err := rebase.Save(r.rebaseStatePath(), st); err != nil {
		return err
	}
	return rebase.Clear(r.rebaseStatePath())
}
