// Package rebase implements dotman's rebase state machine: a
// small set of states persisted to REBASE_STATE so a rebase survives
// across separate process invocations, mirroring the way git itself
// keeps rebase-merge/ on disk between "git rebase --continue" calls.
package rebase

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// SetLogger attaches a logger Conflict uses to report conflicted paths at
// Debug level. Unset, the package logs nothing.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// State names a rebase's current phase.
type State int

const (
	Idle State = iota
	Replaying
	ConflictedAt
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Replaying:
		return "replaying"
	case ConflictedAt:
		return "conflicted"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "idle"
	}
}

// Status is the persisted rebase state, the on-disk shape of REBASE_STATE.
type Status struct {
	State            State
	Onto             string
	OriginalHead     string
	OriginalBranch   string // empty if HEAD was detached when the rebase began
	CommitsToReplay  []string
	CurrentIndex     int
	ConflictFiles    []string
}

// Begin starts a new rebase: commits, oldest first, is the linear set
// exclusive to the branch being rebased (computed by the caller via
// CommitsExclusiveToBranch), replayed one at a time onto onto.
func Begin(onto, originalHead, originalBranch string, commits []string) Status {
	return Status{
		State:           Replaying,
		Onto:            onto,
		OriginalHead:    originalHead,
		OriginalBranch:  originalBranch,
		CommitsToReplay: commits,
		CurrentIndex:    0,
	}
}

// CurrentCommit returns the commit id the state machine is currently
// trying to replay, or "" if there is none (nothing left, or not replaying).
func (s Status) CurrentCommit() string {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.CommitsToReplay) {
		return ""
	}
	return s.CommitsToReplay[s.CurrentIndex]
}

// Advance moves to the next commit, or to Completed if none remain.
func (s Status) Advance() Status {
	s.CurrentIndex++
	s.ConflictFiles = nil
	if s.CurrentIndex >= len(s.CommitsToReplay) {
		s.State = Completed
	} else {
		s.State = Replaying
	}
	return s
}

// Conflict transitions to ConflictedAt, recording the paths that could not
// be cleanly replayed.
func (s Status) Conflict(files []string) Status {
	sort.Strings(files)
	s.State = ConflictedAt
	s.ConflictFiles = files
	logger.Debug().Strs("paths", files).Str("onto", s.Onto).Msg("rebase: stopped at conflicting paths")
	return s
}

// Continue resumes from ConflictedAt, expecting conflicts to already be
// resolved by the caller.
func (s Status) Continue() (Status, error) {
	if s.State != ConflictedAt {
		return s, fmt.Errorf("rebase: continue requires a conflicted rebase, got %s", s.State)
	}
	s.ConflictFiles = nil
	s.State = Replaying
	return s, nil
}

// Abort marks the rebase Aborted. Callers still need to restore
// OriginalHead/OriginalBranch themselves and then Clear the persisted state.
func (s Status) Abort() Status {
	s.State = Aborted
	return s
}

const statusFileName = "REBASE_STATE"

// Path returns the path REBASE_STATE is persisted at under repoPath.
func Path(repoPath string) string {
	return filepath.Join(repoPath, statusFileName)
}

// Load reads a persisted Status, or reports Idle if none exists.
func Load(path string) (Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Status{State: Idle}, nil
		}
		return Status{}, fmt.Errorf("rebase: %w", err)
	}
	return decode(data)
}

// Save persists s to path via temp-file-then-rename.
func Save(path string, s Status) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp_rebase_")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encode(s)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Clear removes the persisted rebase state, if present.
func Clear(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func encode(s Status) []byte {
	var buf []byte
	w := newLineWriter(&buf)
	w.kv("state", s.State.String())
	w.kv("onto", s.Onto)
	w.kv("original_head", s.OriginalHead)
	w.kv("original_branch", s.OriginalBranch)
	w.kv("current_index", fmt.Sprint(s.CurrentIndex))
	w.kv("commits", strings.Join(s.CommitsToReplay, ","))
	w.kv("conflicts", strings.Join(s.ConflictFiles, ","))
	return buf
}

func decode(data []byte) (Status, error) {
	var s Status
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := sc.Text()
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch k {
		case "state":
			s.State = parseState(v)
		case "onto":
			s.Onto = v
		case "original_head":
			s.OriginalHead = v
		case "original_branch":
			s.OriginalBranch = v
		case "current_index":
			var n int
			fmt.Sscanf(v, "%d", &n)
			s.CurrentIndex = n
		case "commits":
			if v != "" {
				s.CommitsToReplay = strings.Split(v, ",")
			}
		case "conflicts":
			if v != "" {
				s.ConflictFiles = strings.Split(v, ",")
			}
		}
	}
	return s, sc.Err()
}

func parseState(s string) State {
	switch s {
	case "replaying":
		return Replaying
	case "conflicted":
		return ConflictedAt
	case "completed":
		return Completed
	case "aborted":
		return Aborted
	default:
		return Idle
	}
}

type lineWriter struct {
	buf *[]byte
}

func newLineWriter(buf *[]byte) lineWriter {
	return lineWriter{buf: buf}
}

func (w lineWriter) kv(key, value string) {
	*w.buf = append(*w.buf, []byte(key+"="+value+"\n")...)
}
