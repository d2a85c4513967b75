package dotman

// MergeResult reports the outcome of a Merge call.
type MergeResult struct {
	FastForward bool
	NewHead     string
	Conflicted  bool
}

// Merge fast-forwards HEAD to other's tip when HEAD is an ancestor of it.
// Any other relationship is not merged: Merge returns a result with
// Conflicted set and leaves HEAD, the index and the working tree unchanged.
// No merge commit is created and no conflicting paths are recorded.
func (r *Repository) Merge(other string) (*MergeResult, error) {
	head, err := r.Refs.ReadHead()
	if err != nil {
		return nil, err
	}
	otherID, err := r.Resolve(other)
	if err != nil {
		return nil, err
	}

	if head.CommitID == otherID {
		return &MergeResult{FastForward: true, NewHead: head.CommitID}, nil
	}

	ff, err := r.IsAncestor(head.CommitID, otherID)
	if err != nil {
		return nil, err
	}
	if !ff {
		r.logger.Debug().Str("head", head.CommitID).Str("other", otherID).Msg("dotman: merge is not a fast-forward")
		return &MergeResult{Conflicted: true}, nil
	}

	if err := r.advanceHead(head, otherID, "merge", "fast-forward merge of "+other); err != nil {
		return nil, err
	}

	snap, err := r.Snaps.Load(otherID)
	if err != nil {
		return nil, err
	}
	previous := make(map[string]struct{}, len(r.Index.Entries()))
	for _, e := range r.Index.Entries() {
		previous[e.Path] = struct{}{}
	}
	r.replaceIndexWithTree(snap)
	if err := r.SaveIndex(); err != nil {
		return nil, err
	}
	if err := r.Snaps.Restore(snap, r.Home, previous); err != nil {
		return nil, err
	}

	return &MergeResult{FastForward: true, NewHead: otherID}, nil
}
