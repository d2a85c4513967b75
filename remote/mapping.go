// Package remote implements dotman's remote mapping table: a
// per-remote translation between dotman commit/branch ids and the ids a
// foreign git remote uses, persisted as a single TOML file.
package remote

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// BranchState records one branch's last-known dotman head and, if it has
// ever been synced with a remote, the paired (remote, foreign head).
type BranchState struct {
	DotmanHead  string `toml:"dotman_head"`
	Remote      string `toml:"remote,omitempty"`
	ForeignHead string `toml:"foreign_head,omitempty"`
}

// RemoteState holds one remote's bidirectional commit id translation table.
type RemoteState struct {
	DotmanToForeign map[string]string `toml:"dotman_to_foreign"`
	ForeignToDotman map[string]string `toml:"foreign_to_dotman"`
}

// Table is the full persisted mapping document: one RemoteState per
// configured remote, plus per-branch tracking state.
type Table struct {
	Remotes  map[string]*RemoteState `toml:"remotes"`
	Branches map[string]*BranchState `toml:"branches"`

	path string
}

// Open loads the mapping table at path, or returns an empty one if the
// file does not yet exist.
func Open(path string) (*Table, error) {
	t := &Table{
		Remotes:  map[string]*RemoteState{},
		Branches: map[string]*BranchState{},
		path:     path,
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("remote: %w", err)
	}
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	if t.Remotes == nil {
		t.Remotes = map[string]*RemoteState{}
	}
	if t.Branches == nil {
		t.Branches = map[string]*BranchState{}
	}
	t.path = path
	return t, nil
}

func (t *Table) save() error {
	tmp := t.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(t); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, t.path)
}

func (t *Table) remoteState(remote string) *RemoteState {
	rs, ok := t.Remotes[remote]
	if !ok {
		rs = &RemoteState{DotmanToForeign: map[string]string{}, ForeignToDotman: map[string]string{}}
		t.Remotes[remote] = rs
	}
	return rs
}

// Add records a translation pair for remote and persists the table.
func (t *Table) Add(remote, dotmanID, foreignID string) error {
	rs := t.remoteState(remote)
	rs.DotmanToForeign[dotmanID] = foreignID
	rs.ForeignToDotman[foreignID] = dotmanID
	return t.save()
}

// GetForeign returns the foreign id mapped to dotmanID under remote.
func (t *Table) GetForeign(remote, dotmanID string) (string, bool) {
	rs, ok := t.Remotes[remote]
	if !ok {
		return "", false
	}
	id, ok := rs.DotmanToForeign[dotmanID]
	return id, ok
}

// GetDotman returns the dotman id mapped to foreignID under remote. If no
// mapping exists, the foreign id is returned unchanged.
func GetDotman(t *Table, remote, foreignID string) string {
	rs, ok := t.Remotes[remote]
	if !ok {
		return foreignID
	}
	id, ok := rs.ForeignToDotman[foreignID]
	if !ok {
		return foreignID
	}
	return id
}

// BranchUpdate records a branch's new dotman head and, optionally, the
// (remote, foreign head) pair it was most recently synced against.
func (t *Table) BranchUpdate(branch, dotmanHead, remoteName, foreignHead string) error {
	t.Branches[branch] = &BranchState{
		DotmanHead:  dotmanHead,
		Remote:      remoteName,
		ForeignHead: foreignHead,
	}
	return t.save()
}

// Remove deletes every mapping and branch-tracking entry associated with remote.
func (t *Table) Remove(remote string) error {
	delete(t.Remotes, remote)
	for name, bs := range t.Branches {
		if bs.Remote == remote {
			delete(t.Branches, name)
		}
	}
	return t.save()
}
