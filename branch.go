package dotman

import "github.com/dotman-vcs/dotman/storage/refstore"

// BranchCreate validates name and writes refs/heads/<name> at startPoint
// (or HEAD's current commit when startPoint is empty).
func (r *Repository) BranchCreate(name, startPoint string) error {
	if err := refstore.ValidateName(name); err != nil {
		return err
	}

	target := startPoint
	if target == "" {
		head, err := r.Refs.ReadHead()
		if err != nil {
			return err
		}
		target = head.CommitID
	}

	id, err := r.Resolve(target)
	if err != nil {
		return err
	}
	return r.Refs.UpdateBranch(name, "", id, r.Actor(), "branch", "create branch "+name)
}

// BranchDeleteOptions configures a BranchDelete call.
type BranchDeleteOptions struct {
	Force bool
}

// BranchDelete removes a local branch. It rejects deleting the currently
// checked-out branch, deleting "main" without Force, and deleting an
// unmerged branch without Force.
func (r *Repository) BranchDelete(name string, opts BranchDeleteOptions) error {
	head, err := r.Refs.ReadHead()
	if err != nil {
		return err
	}
	if head.Branch == name {
		return NewError(KindValidation, "branch_delete", name, nil)
	}
	if name == "main" && !opts.Force {
		return NewError(KindValidation, "branch_delete", name, nil)
	}

	tip, err := r.Refs.ReadBranch(name)
	if err != nil {
		return err
	}

	if !opts.Force {
		merged, err := r.IsAncestor(tip, head.CommitID)
		if err != nil {
			return err
		}
		if !merged {
			return NewError(KindValidation, "branch_delete", name, nil)
		}
	}
	return r.Refs.DeleteBranch(name)
}
