package refstore

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"main", false},
		{"feature/x", true},
		{"HEAD", true},
		{".hidden", true},
		{"trailing.", true},
		{" leading", true},
		{"trailing ", true},
		{"", true},
	}
	for _, c := range cases {
		err := ValidateName(c.name)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidateName(%q): err=%v, wantErr=%v", c.name, err, c.wantErr)
		}
	}
}

func TestHeadAttachDetach(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateBranch("main", "", "aaaa1111aaaa1111aaaa1111aaaa1111", "dev <dev@example.com>", "commit", "initial"); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteHeadBranch("main"); err != nil {
		t.Fatal(err)
	}

	head, err := s.ReadHead()
	if err != nil {
		t.Fatal(err)
	}
	if head.Branch != "main" || head.CommitID != "aaaa1111aaaa1111aaaa1111aaaa1111" {
		t.Fatalf("unexpected head state: %+v", head)
	}

	if err := s.WriteHeadDetached("bbbb2222bbbb2222bbbb2222bbbb2222"); err != nil {
		t.Fatal(err)
	}
	head, err = s.ReadHead()
	if err != nil {
		t.Fatal(err)
	}
	if head.Branch != "" || head.CommitID != "bbbb2222bbbb2222bbbb2222bbbb2222" {
		t.Fatalf("expected detached head, got %+v", head)
	}
}

func TestUpdateBranchAppendsReflog(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateBranch("main", "", "aaaa", "dev <dev@example.com>", "commit", "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateBranch("main", "aaaa", "bbbb", "dev <dev@example.com>", "commit", "second"); err != nil {
		t.Fatal(err)
	}

	entries, err := s.ReadReflog("refs/heads/main")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 reflog entries, got %d", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Fatalf("unexpected reflog contents: %+v", entries)
	}
	if entries[1].Old != "aaaa" || entries[1].New != "bbbb" {
		t.Fatalf("unexpected reflog transition: %+v", entries[1])
	}
}

func TestListBranchesAndTags(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	s.UpdateBranch("main", "", "aaaa", "dev <dev@example.com>", "commit", "init")
	s.UpdateBranch("dev", "", "bbbb", "dev <dev@example.com>", "commit", "init")
	s.CreateTag("v1", "aaaa")

	branches, err := s.ListBranches()
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %v", branches)
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0] != "v1" {
		t.Fatalf("expected [v1], got %v", tags)
	}
}

func TestResolveHeadBranchAndPrefix(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	fullID := "aaaa1111aaaa1111aaaa1111aaaa1111"
	s.UpdateBranch("main", "", fullID, "dev <dev@example.com>", "commit", "init")
	s.WriteHeadBranch("main")

	allIDs := func() ([]string, error) { return []string{fullID}, nil }
	noParents := func(string) ([]string, error) { return nil, nil }

	got, err := s.Resolve("HEAD", allIDs, noParents)
	if err != nil {
		t.Fatal(err)
	}
	if got != fullID {
		t.Fatalf("HEAD resolved to %s, want %s", got, fullID)
	}

	got, err = s.Resolve("main", allIDs, noParents)
	if err != nil {
		t.Fatal(err)
	}
	if got != fullID {
		t.Fatalf("main resolved to %s, want %s", got, fullID)
	}

	got, err = s.Resolve("aaaa1111", allIDs, noParents)
	if err != nil {
		t.Fatal(err)
	}
	if got != fullID {
		t.Fatalf("prefix resolved to %s, want %s", got, fullID)
	}
}

func TestResolveAncestorSuffixes(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	head := "cccc3333cccc3333cccc3333cccc3333"
	parent := "bbbb2222bbbb2222bbbb2222bbbb2222"
	grandparent := "aaaa1111aaaa1111aaaa1111aaaa1111"

	s.UpdateBranch("main", "", head, "dev <dev@example.com>", "commit", "head")
	s.WriteHeadBranch("main")

	allIDs := func() ([]string, error) { return []string{head, parent, grandparent}, nil }
	parents := func(id string) ([]string, error) {
		switch id {
		case head:
			return []string{parent}, nil
		case parent:
			return []string{grandparent}, nil
		default:
			return nil, nil
		}
	}

	got, err := s.Resolve("HEAD^", allIDs, parents)
	if err != nil {
		t.Fatal(err)
	}
	if got != parent {
		t.Fatalf("HEAD^ = %s, want %s", got, parent)
	}

	got, err = s.Resolve("HEAD~2", allIDs, parents)
	if err != nil {
		t.Fatal(err)
	}
	if got != grandparent {
		t.Fatalf("HEAD~2 = %s, want %s", got, grandparent)
	}
}

func TestResolveAmbiguousPrefix(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	allIDs := func() ([]string, error) {
		return []string{"aaaa1111", "aaaa2222"}, nil
	}
	if _, err := s.Resolve("aaaa", allIDs, nil); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
}
