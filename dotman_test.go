package dotman

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func initRepo(t *testing.T) *Repository {
	t.Helper()
	home := t.TempDir()
	r, err := Init(home)
	if err != nil {
		t.Fatal(err)
	}
	r.Config.User.Name = "dev"
	r.Config.User.Email = "dev@example.com"
	return r
}

func writeFile(t *testing.T, home, rel, content string) {
	t.Helper()
	full := filepath.Join(home, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInitCreatesUnbornMainBranch(t *testing.T) {
	r := initRepo(t)
	head, err := r.Refs.ReadHead()
	if err != nil {
		t.Fatal(err)
	}
	if head.Branch != "main" {
		t.Fatalf("expected HEAD attached to main, got %+v", head)
	}
}

func TestSetLoggerPropagatesWithoutPanicking(t *testing.T) {
	r := initRepo(t)
	r.SetLogger(zerolog.Nop())
	writeFile(t, r.Home, "a.txt", "v1")
	if err := r.Add("a.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Commit(CommitOptions{Message: "logged"}); err != nil {
		t.Fatal(err)
	}
}

func TestOpenRejectsNonRepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening a non-repository directory")
	}
}

func TestAddCommitRoundTrip(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, ".bashrc", "export PATH=$PATH:/usr/local/bin\n")

	if err := r.Add(".bashrc"); err != nil {
		t.Fatal(err)
	}
	commit, err := r.Commit(CommitOptions{Message: "initial"})
	if err != nil {
		t.Fatal(err)
	}
	if commit.ID == "" {
		t.Fatal("expected a derived commit id")
	}
	if !commit.IsRoot() {
		t.Fatal("expected the first commit to be a root commit")
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		t.Fatal(err)
	}
	if head.CommitID != commit.ID {
		t.Fatalf("expected HEAD to advance to %s, got %s", commit.ID, head.CommitID)
	}

	entries, err := r.Refs.ReadReflog("refs/heads/main")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Action != "commit" {
		t.Fatalf("unexpected reflog: %+v", entries)
	}
}

func TestCommitWithNothingStagedFails(t *testing.T) {
	r := initRepo(t)
	if _, err := r.Commit(CommitOptions{Message: "empty"}); err == nil {
		t.Fatal("expected error committing an empty index")
	}
}

func TestCheckoutRestoresSnapshotAndDetachesHead(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, ".vimrc", "set nocompatible\n")
	r.Add(".vimrc")
	first, err := r.Commit(CommitOptions{Message: "first"})
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, r.Home, ".vimrc", "set nocompatible\nset number\n")
	r.Add(".vimrc")
	if _, err := r.Commit(CommitOptions{Message: "second"}); err != nil {
		t.Fatal(err)
	}

	if err := r.Checkout(first.ID, CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(r.Home, ".vimrc"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "set nocompatible\n" {
		t.Fatalf("expected file restored to first commit's content, got %q", content)
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		t.Fatal(err)
	}
	if head.Branch != "" || head.CommitID != first.ID {
		t.Fatalf("expected detached HEAD at %s, got %+v", first.ID, head)
	}
}

func TestResetModes(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, "a.txt", "v1")
	r.Add("a.txt")
	first, err := r.Commit(CommitOptions{Message: "first"})
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, r.Home, "b.txt", "v1")
	r.Add("b.txt")
	if _, err := r.Commit(CommitOptions{Message: "second"}); err != nil {
		t.Fatal(err)
	}

	if err := r.Reset(first.ID, ResetSoft); err != nil {
		t.Fatal(err)
	}
	head, _ := r.Refs.ReadHead()
	if head.CommitID != first.ID {
		t.Fatal("expected soft reset to move HEAD")
	}
	if _, ok := r.Index.Get("b.txt"); !ok {
		t.Fatal("soft reset must not touch the index")
	}

	if err := r.Reset(first.ID, ResetMixed); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Index.Get("b.txt"); ok {
		t.Fatal("mixed reset must drop b.txt from the index")
	}
	if _, err := os.Stat(filepath.Join(r.Home, "b.txt")); err != nil {
		t.Fatal("mixed reset must leave the working tree untouched")
	}
}

func TestBranchCreateAndDelete(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, "a.txt", "v1")
	r.Add("a.txt")
	if _, err := r.Commit(CommitOptions{Message: "first"}); err != nil {
		t.Fatal(err)
	}

	if err := r.BranchCreate("feature", ""); err != nil {
		t.Fatal(err)
	}
	branches, err := r.Refs.ListBranches()
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected main+feature, got %v", branches)
	}

	if err := r.BranchDelete("feature", BranchDeleteOptions{}); err != nil {
		t.Fatal(err)
	}
	branches, _ = r.Refs.ListBranches()
	if len(branches) != 1 {
		t.Fatalf("expected feature deleted, got %v", branches)
	}
}

func TestBranchDeleteRejectsMainWithoutForce(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, "a.txt", "v1")
	r.Add("a.txt")
	r.Commit(CommitOptions{Message: "first"})
	r.BranchCreate("other", "")
	r.Checkout("other", CheckoutOptions{})

	if err := r.BranchDelete("main", BranchDeleteOptions{}); err == nil {
		t.Fatal("expected deleting main without --force to fail")
	}
}

func TestFastForwardMerge(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, "a.txt", "v1")
	r.Add("a.txt")
	if _, err := r.Commit(CommitOptions{Message: "first"}); err != nil {
		t.Fatal(err)
	}

	if err := r.BranchCreate("feature", ""); err != nil {
		t.Fatal(err)
	}
	if err := r.Checkout("feature", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, r.Home, "b.txt", "v1")
	r.Add("b.txt")
	second, err := r.Commit(CommitOptions{Message: "second"})
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Checkout("main", CheckoutOptions{}); err != nil {
		t.Fatal(err)
	}
	result, err := r.Merge("feature")
	if err != nil {
		t.Fatal(err)
	}
	if !result.FastForward || result.NewHead != second.ID {
		t.Fatalf("expected fast-forward to %s, got %+v", second.ID, result)
	}
}

func TestStatusReportsUntrackedAndModified(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.Home, "a.txt", "v1")
	r.Add("a.txt")
	r.Commit(CommitOptions{Message: "first"})

	writeFile(t, r.Home, "a.txt", "v2")
	writeFile(t, r.Home, "untracked.txt", "new")

	report, err := r.Status()
	if err != nil {
		t.Fatal(err)
	}
	var sawModified, sawUntracked bool
	for _, e := range report.Entries {
		if e.Path == "a.txt" {
			sawModified = true
		}
		if e.Path == "untracked.txt" {
			sawUntracked = true
		}
	}
	if !sawModified || !sawUntracked {
		t.Fatalf("expected modified a.txt and untracked untracked.txt, got %+v", report.Entries)
	}
}
