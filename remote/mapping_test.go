package remote

import (
	"path/filepath"
	"testing"
)

func TestAddAndGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote-mappings.toml")
	table, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := table.Add("origin", "dotman123", "foreign456"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	foreign, ok := reloaded.GetForeign("origin", "dotman123")
	if !ok || foreign != "foreign456" {
		t.Fatalf("GetForeign: got %q, %v", foreign, ok)
	}
	if got := GetDotman(reloaded, "origin", "foreign456"); got != "dotman123" {
		t.Fatalf("GetDotman: got %q", got)
	}
}

func TestGetDotmanUnmappedReturnsForeignUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote-mappings.toml")
	table, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := GetDotman(table, "origin", "unmapped-id"); got != "unmapped-id" {
		t.Fatalf("expected unchanged foreign id, got %q", got)
	}
}

func TestBranchUpdateAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote-mappings.toml")
	table, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Add("origin", "d1", "f1"); err != nil {
		t.Fatal(err)
	}
	if err := table.BranchUpdate("main", "d1", "origin", "f1"); err != nil {
		t.Fatal(err)
	}

	reloaded, _ := Open(path)
	if reloaded.Branches["main"].DotmanHead != "d1" {
		t.Fatalf("unexpected branch state: %+v", reloaded.Branches["main"])
	}

	if err := reloaded.Remove("origin"); err != nil {
		t.Fatal(err)
	}
	again, _ := Open(path)
	if _, ok := again.Remotes["origin"]; ok {
		t.Fatal("expected remote removed")
	}
	if _, ok := again.Branches["main"]; ok {
		t.Fatal("expected branch tracking for removed remote cleared")
	}
}
