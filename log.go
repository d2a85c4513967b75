package dotman

import "github.com/dotman-vcs/dotman/plumbing/object"

// Log walks the first-parent chain starting at ref, returning up to limit
// commits newest first. A non-positive limit means unlimited.
func (r *Repository) Log(ref string, limit int) ([]object.Commit, error) {
	id, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}

	var commits []object.Commit
	for id != "" {
		if limit > 0 && len(commits) >= limit {
			break
		}
		snap, err := r.Snaps.Load(id)
		if err != nil {
			return nil, err
		}
		commits = append(commits, snap.Commit)

		parents, err := r.parentsOf(id)
		if err != nil {
			return nil, err
		}
		if len(parents) == 0 {
			break
		}
		id = parents[0]
	}
	return commits, nil
}
