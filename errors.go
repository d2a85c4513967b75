package dotman

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch on failure category without
// string-matching messages.
type Kind int

const (
	// KindIO covers filesystem and other I/O failures.
	KindIO Kind = iota
	// KindSerialization covers encode/decode failures of on-disk structures.
	KindSerialization
	// KindConfiguration covers malformed or missing configuration.
	KindConfiguration
	// KindInvalidPath covers paths that fail FileEntry's path invariants.
	KindInvalidPath
	// KindNotFound covers missing files, commits, refs, or directories.
	KindNotFound
	// KindAlreadyExists covers create operations that collide with existing state.
	KindAlreadyExists
	// KindIntegrityMismatch covers a stored hash that no longer matches content.
	KindIntegrityMismatch
	// KindPermissionDenied covers permission and privilege failures.
	KindPermissionDenied
	// KindConflict covers merge/rebase conflicts.
	KindConflict
	// KindInvalidState covers an operation invoked while the repository is in
	// an incompatible state (e.g. a rebase already in progress).
	KindInvalidState
	// KindAmbiguous covers a short hash that matches more than one commit.
	KindAmbiguous
	// KindValidation covers bad input: ref names, empty commits, conflicting flags.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSerialization:
		return "serialization"
	case KindConfiguration:
		return "configuration"
	case KindInvalidPath:
		return "invalid path"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindIntegrityMismatch:
		return "integrity mismatch"
	case KindPermissionDenied:
		return "permission denied"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid state"
	case KindAmbiguous:
		return "ambiguous"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the structured error type surfaced by every dotman package. It
// carries enough context for a single-line diagnostic: the failure
// kind, the affected path or ref (if any), and the underlying cause.
type Error struct {
	Kind Kind
	Path string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Kind, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, dotman.ErrRefNotFound)-style sentinel checks by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Path != "" && t.Path != e.Path {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a dotman.Error. op names the operation that failed
// (e.g. "checkout", "add_entry"); path is the affected path or ref, empty
// if not applicable.
func NewError(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

// IsKind reports whether err (or any error it wraps) is a dotman.Error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// Sentinel errors usable with errors.Is for the most common cases. Is matches
// by Kind (and by Path only when the target sets one), so sentinels that
// share a Kind match each other: errors.Is cannot tell a ref lookup failure
// from a commit, object or snapshot lookup failure.
var (
	ErrRefNotFound       = &Error{Kind: KindNotFound, Op: "resolve"}
	ErrCommitNotFound    = &Error{Kind: KindNotFound, Op: "resolve"}
	ErrObjectNotFound    = &Error{Kind: KindNotFound, Op: "object"}
	ErrSnapshotNotFound  = &Error{Kind: KindNotFound, Op: "snapshot"}
	ErrRebaseInProgress  = &Error{Kind: KindInvalidState, Op: "rebase"}
	ErrNoRebaseInProgress = &Error{Kind: KindInvalidState, Op: "rebase"}
	ErrEmptyCommit       = &Error{Kind: KindValidation, Op: "commit"}
	ErrDirtyWorktree     = &Error{Kind: KindValidation, Op: "checkout"}
)

// ErrAlreadyInitialized reports that a repository already exists at path.
func ErrAlreadyInitialized(path string) error {
	return NewError(KindAlreadyExists, "init", path, nil)
}

// ErrNotARepository reports that path is not a dotman repository.
func ErrNotARepository(path string) error {
	return NewError(KindNotFound, "open", path, nil)
}
