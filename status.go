package dotman

import (
	"github.com/dotman-vcs/dotman/scanner"
	"github.com/dotman-vcs/dotman/status"
)

// Status computes the full working-set status report: tracked-path
// classification against the index, an untracked-file scan pruned by the
// directory trie, and staged/added overlays from the index's staging area.
func (r *Repository) Status() (status.Report, error) {
	entries := r.Index.Entries()

	threads := r.Config.Performance.ParallelThreads
	if threads <= 0 {
		threads = 1
	}
	tracked, err := status.ClassifyTracked(r.Home, entries, threads)
	if err != nil {
		return status.Report{}, err
	}

	trie := scanner.NewDirTrie()
	trackedSet := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		trie.InsertTrackedFile(e.Path)
		trackedSet[e.Path] = struct{}{}
	}
	untracked, err := scanner.FindUntrackedFiles(r.Home, r.RepoPath, trie, trackedSet, r.Config.Tracking.IgnorePatterns)
	if err != nil {
		return status.Report{}, err
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return status.Report{}, err
	}
	var addedPaths []string
	if head.CommitID != "" {
		if snap, err := r.Snaps.Load(head.CommitID); err == nil {
			for _, e := range entries {
				if _, inHead := snap.Tree[e.Path]; !inHead {
					addedPaths = append(addedPaths, e.Path)
				}
			}
		}
	} else {
		for _, e := range entries {
			addedPaths = append(addedPaths, e.Path)
		}
	}

	staged := r.Index.StagedEntries()
	stagedPaths := make([]string, 0, len(staged)+len(r.Index.StagedRemovals()))
	for _, e := range staged {
		stagedPaths = append(stagedPaths, e.Path)
	}
	stagedPaths = append(stagedPaths, r.Index.StagedRemovals()...)

	return status.Build(tracked, untracked, addedPaths, stagedPaths, nil), nil
}
