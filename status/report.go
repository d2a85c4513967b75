package status

import "sort"

// Build assembles a full status Report from its pieces: the
// tracked-path classification, the untracked-file scan, and the set of
// paths present in the index but absent from HEAD's tree (Added), plus
// whatever paths the caller already knows to be Staged or in Conflict
// (from the index's staging overlay and an in-progress merge/rebase,
// respectively).
func Build(trackedResults []Entry, untracked []string, addedPaths []string, stagedPaths []string, conflictPaths []string) Report {
	var r Report

	added := make(map[string]bool, len(addedPaths))
	for _, p := range addedPaths {
		added[p] = true
	}
	staged := make(map[string]bool, len(stagedPaths))
	for _, p := range stagedPaths {
		staged[p] = true
	}
	conflict := make(map[string]bool, len(conflictPaths))
	for _, p := range conflictPaths {
		conflict[p] = true
	}

	for _, e := range trackedResults {
		switch {
		case conflict[e.Path]:
			r.add(e.Path, Conflict)
		case staged[e.Path]:
			r.add(e.Path, Staged)
		case added[e.Path]:
			r.add(e.Path, Added)
		default:
			r.add(e.Path, e.Category)
		}
	}
	for _, p := range untracked {
		r.add(p, Untracked)
	}

	sort.Slice(r.Entries, func(i, j int) bool { return r.Entries[i].Path < r.Entries[j].Path })
	return r
}
