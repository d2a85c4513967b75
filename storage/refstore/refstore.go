// Package refstore implements dotman's ref namespace: HEAD, refs/heads,
// refs/tags, refs/remotes, and their reflogs, stored as plain files under
// the repository's metadata directory the way go-git's dotgit package
// lays out refs/heads, refs/tags and logs/ on disk.
package refstore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	headsDir   = "refs/heads"
	tagsDir    = "refs/tags"
	remotesDir = "refs/remotes"
	logsDir    = "logs"
	headFile   = "HEAD"
)

var reservedNames = map[string]bool{
	"HEAD": true,
}

var invalidNameChars = regexp.MustCompile(`[\x00/\\]`)

// ValidateName rejects ref/branch/tag names containing '/', '\', NUL, a
// leading or trailing '.', a leading or trailing space, or one of the
// reserved names; ref names follow the same small set of constraints
// across branches, tags, and remotes.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("refstore: empty name")
	}
	if reservedNames[name] {
		return fmt.Errorf("refstore: %q is a reserved name", name)
	}
	if invalidNameChars.MatchString(name) {
		return fmt.Errorf("refstore: name %q contains an invalid character", name)
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("refstore: name %q may not start or end with '.'", name)
	}
	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") {
		return fmt.Errorf("refstore: name %q may not start or end with a space", name)
	}
	return nil
}

// Store manages dotman's ref files under root.
type Store struct {
	root   string
	logger zerolog.Logger
}

// Open returns a Store rooted at root, creating the refs hierarchy.
func Open(root string) (*Store, error) {
	for _, dir := range []string{headsDir, tagsDir, remotesDir, logsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("refstore: %w", err)
		}
	}
	return &Store{root: root, logger: zerolog.Nop()}, nil
}

// SetLogger attaches a logger the store uses for Debug-level ref/reflog
// updates. A freshly opened Store logs nothing until this is called.
func (s *Store) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

func (s *Store) branchPath(name string) string { return filepath.Join(s.root, headsDir, name) }
func (s *Store) tagPath(name string) string    { return filepath.Join(s.root, tagsDir, name) }
func (s *Store) remotePath(remote, name string) string {
	return filepath.Join(s.root, remotesDir, remote, name)
}
func (s *Store) headPath() string { return filepath.Join(s.root, headFile) }
func (s *Store) logPath(rel string) string {
	return filepath.Join(s.root, logsDir, rel)
}

// HeadState describes what HEAD currently points to: either an attached
// branch name, or a detached commit id.
type HeadState struct {
	Branch   string // empty when detached
	CommitID string // set when detached, or mirrors the branch tip otherwise
}

// ReadHead reads HEAD. An attached HEAD file contains "ref: refs/heads/<name>";
// a detached HEAD file contains a raw commit id.
func (s *Store) ReadHead() (HeadState, error) {
	data, err := os.ReadFile(s.headPath())
	if err != nil {
		return HeadState{}, fmt.Errorf("refstore: read HEAD: %w", err)
	}
	line := strings.TrimSpace(string(data))
	if strings.HasPrefix(line, "ref: refs/heads/") {
		branch := strings.TrimPrefix(line, "ref: refs/heads/")
		id, err := s.ReadBranch(branch)
		if err != nil && !os.IsNotExist(err) {
			return HeadState{}, err
		}
		return HeadState{Branch: branch, CommitID: id}, nil
	}
	return HeadState{CommitID: line}, nil
}

// WriteHeadBranch attaches HEAD to branch.
func (s *Store) WriteHeadBranch(branch string) error {
	return atomicWrite(s.headPath(), []byte("ref: refs/heads/"+branch+"\n"))
}

// WriteHeadDetached points HEAD directly at a commit id.
func (s *Store) WriteHeadDetached(commitID string) error {
	return atomicWrite(s.headPath(), []byte(commitID+"\n"))
}

// ReadBranch returns the commit id a branch currently points to.
func (s *Store) ReadBranch(name string) (string, error) {
	return readRef(s.branchPath(name))
}

// ReadTag returns the commit id a tag currently points to.
func (s *Store) ReadTag(name string) (string, error) {
	return readRef(s.tagPath(name))
}

// ReadRemoteBranch returns the commit id a remote-tracking branch points to.
func (s *Store) ReadRemoteBranch(remote, name string) (string, error) {
	return readRef(s.remotePath(remote, name))
}

func readRef(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ListBranches returns all local branch names.
func (s *Store) ListBranches() ([]string, error) {
	return listRefDir(filepath.Join(s.root, headsDir))
}

// ListTags returns all tag names.
func (s *Store) ListTags() ([]string, error) {
	return listRefDir(filepath.Join(s.root, tagsDir))
}

func listRefDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// UpdateBranch is the sole sanctioned way to move a branch ref: it replaces
// the ref file atomically and then appends a reflog entry in the same call.
// The two writes are separate, so a failure between them leaves the ref
// moved without its reflog entry.
func (s *Store) UpdateBranch(name, oldID, newID, actor, action, message string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := atomicWrite(s.branchPath(name), []byte(newID+"\n")); err != nil {
		return err
	}
	return s.appendReflog(filepath.Join("refs/heads", name), oldID, newID, actor, action, message)
}

// CreateTag writes a new tag ref. Tags are not expected to move once
// created, so no reflog entry is recorded for them (mirroring go-git's own
// reflog scope, which tracks branches and HEAD, not tags).
func (s *Store) CreateTag(name, commitID string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return atomicWrite(s.tagPath(name), []byte(commitID+"\n"))
}

// DeleteBranch removes a branch ref (its reflog file is left in place as a
// historical record, matching git's own behavior of preserving logs/ after
// branch deletion).
func (s *Store) DeleteBranch(name string) error {
	err := os.Remove(s.branchPath(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// DeleteTag removes a tag ref.
func (s *Store) DeleteTag(name string) error {
	err := os.Remove(s.tagPath(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// UpdateHead appends a reflog entry under logs/HEAD. It does not write the
// HEAD file; callers move HEAD with WriteHeadBranch or WriteHeadDetached.
func (s *Store) UpdateHead(oldID, newID, actor, action, message string) error {
	return s.appendReflog("HEAD", oldID, newID, actor, action, message)
}

// UpdateRemoteBranch writes a remote-tracking branch's cached tip, used
// after a remote sync brings in new foreign commits mapped to local ids.
func (s *Store) UpdateRemoteBranch(remote, name, commitID string) error {
	path := s.remotePath(remote, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomicWrite(path, []byte(commitID+"\n"))
}

// ReflogEntry is one line of a ref's reflog, matching its on-disk shape:
// "<old_id> <new_id> <actor>\t<unix_seconds> <tz>\t<operation>: <message>".
type ReflogEntry struct {
	Old     string
	New     string
	Actor   string
	Action  string
	Message string
	When    time.Time
}

func (s *Store) appendReflog(rel, oldID, newID, actor, action, message string) error {
	path := s.logPath(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if oldID == "" {
		oldID = strings.Repeat("0", 32)
	}
	_, tzOffset := time.Now().Zone()
	line := fmt.Sprintf("%s %s %s\t%d %s\t%s: %s\n",
		oldID, newID, actor, time.Now().Unix(), formatTZOffset(tzOffset), action, message)
	_, err = f.WriteString(line)
	if err == nil {
		s.logger.Debug().Str("ref", rel).Str("action", action).Str("new", newID).Msg("refstore: appended reflog entry")
	}
	return err
}

func formatTZOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d%02d", sign, seconds/3600, (seconds%3600)/60)
}

// ReadReflog returns the full reflog for rel (e.g. "HEAD" or
// "refs/heads/main"), oldest entry first.
func (s *Store) ReadReflog(rel string) ([]ReflogEntry, error) {
	f, err := os.Open(s.logPath(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []ReflogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.SplitN(sc.Text(), "\t", 3)
		if len(fields) != 3 {
			continue
		}
		head := strings.SplitN(fields[0], " ", 3)
		if len(head) != 3 {
			continue
		}
		tsAndTZ := strings.SplitN(fields[1], " ", 2)
		ts, _ := strconv.ParseInt(tsAndTZ[0], 10, 64)

		actionAndMsg := strings.SplitN(fields[2], ": ", 2)
		action := actionAndMsg[0]
		msg := ""
		if len(actionAndMsg) > 1 {
			msg = actionAndMsg[1]
		}
		entries = append(entries, ReflogEntry{
			Old:     head[0],
			New:     head[1],
			Actor:   head[2],
			When:    time.Unix(ts, 0),
			Action:  action,
			Message: msg,
		})
	}
	return entries, sc.Err()
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp_ref_")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
