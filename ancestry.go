package dotman

import (
	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/dotman-vcs/dotman/plumbing/object"
)

// commitByTime orders commits newest-first by Timestamp, the priority a
// binary heap walk uses to visit a commit graph without fully materializing
// topological order first.
func commitByTime(a, b interface{}) int {
	ca, cb := a.(object.Commit), b.(object.Commit)
	switch {
	case ca.Timestamp > cb.Timestamp:
		return -1
	case ca.Timestamp < cb.Timestamp:
		return 1
	default:
		return 0
	}
}

// ancestorSet walks every commit reachable from root (all parents, not just
// first), visiting newest-first via a time-ordered heap, and returns the
// set of ids seen.
func (r *Repository) ancestorSet(root string) (map[string]bool, error) {
	seen := map[string]bool{}
	rootSnap, err := r.Snaps.Load(root)
	if err != nil {
		return nil, err
	}

	heap := binaryheap.NewWith(commitByTime)
	heap.Push(rootSnap.Commit)
	for {
		v, ok := heap.Pop()
		if !ok {
			return seen, nil
		}
		c := v.(object.Commit)
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		for _, p := range c.Parents {
			if seen[p] {
				continue
			}
			snap, err := r.Snaps.Load(p)
			if err != nil {
				continue
			}
			heap.Push(snap.Commit)
		}
	}
}

// IsAncestor reports whether candidate is reachable from tip by following
// parents transitively (including candidate == tip), the merge-base test
// branch deletion and fast-forward merge both rely on.
func (r *Repository) IsAncestor(candidate, tip string) (bool, error) {
	if candidate == tip {
		return true, nil
	}
	ancestors, err := r.ancestorSet(tip)
	if err != nil {
		return false, err
	}
	return ancestors[candidate], nil
}

// CommitsExclusiveToBranch returns the linear history unique to tip when
// compared against onto, oldest first: every commit reachable from tip by
// first parent that is not reachable from onto. Used by rebase's begin
// step to compute the replay set.
func (r *Repository) CommitsExclusiveToBranch(onto, tip string) ([]string, error) {
	ancestorsOfOnto, err := r.ancestorSet(onto)
	if err != nil {
		return nil, err
	}

	var linear []string
	cur := tip
	for cur != "" && !ancestorsOfOnto[cur] {
		linear = append(linear, cur)
		snap, err := r.Snaps.Load(cur)
		if err != nil {
			break
		}
		if len(snap.Commit.Parents) == 0 {
			break
		}
		cur = snap.Commit.Parents[0]
	}
	// linear was collected tip-first; reverse to oldest-first.
	for i, j := 0, len(linear)-1; i < j; i, j = i+1, j-1 {
		linear[i], linear[j] = linear[j], linear[i]
	}
	return linear, nil
}

// allCommitIDs enumerates every commit id persisted in the snapshot store,
// the slice refstore.Resolve needs to disambiguate short hashes.
func (r *Repository) allCommitIDs() ([]string, error) {
	entries, err := osReadDirNames(r.RepoPath + "/commits")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, name := range entries {
		ids = append(ids, trimSnapshotExt(name))
	}
	return ids, nil
}

// parentsOf adapts the snapshot store to refstore.CommitLookup.
func (r *Repository) parentsOf(id string) ([]string, error) {
	snap, err := r.Snaps.Load(id)
	if err != nil {
		return nil, err
	}
	return snap.Commit.Parents, nil
}

// Resolve resolves a ref expression (HEAD, branch, tag, full id, unique
// prefix, or ancestor suffix) to a full commit id.
func (r *Repository) Resolve(expr string) (string, error) {
	return r.Refs.Resolve(expr, r.allCommitIDs, r.parentsOf)
}
