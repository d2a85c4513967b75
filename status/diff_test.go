package status

import "strings"

import "testing"

func TestUnifiedDiffBinaryMarker(t *testing.T) {
	a := []byte("text\x00content")
	b := []byte("other\x00content")
	got := UnifiedDiff("x", a, "x", b, Myers, 0)
	want := "Binary files a/x and b/x differ\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnifiedDiffIdenticalContentProducesNoHunks(t *testing.T) {
	content := []byte("line one\nline two\nline three\n")
	got := UnifiedDiff("x", content, "x", content, Myers, DefaultContext)
	if got != "" {
		t.Fatalf("expected no diff for identical content, got %q", got)
	}
}

func TestUnifiedDiffSingleLineChangeMyers(t *testing.T) {
	a := []byte("alias ll='ls -la'\nexport EDITOR=vim\n")
	b := []byte("alias ll='ls -la'\nexport EDITOR=nvim\n")
	got := UnifiedDiff(".bashrc", a, ".bashrc", b, Myers, 3)

	if !strings.Contains(got, "--- a/.bashrc") || !strings.Contains(got, "+++ b/.bashrc") {
		t.Fatalf("expected unified diff headers, got %q", got)
	}
	if !strings.Contains(got, "-export EDITOR=vim") || !strings.Contains(got, "+export EDITOR=nvim") {
		t.Fatalf("expected changed line to appear as -/+, got %q", got)
	}
}

func TestUnifiedDiffPatienceAlgorithm(t *testing.T) {
	a := []byte("first\nsecond\nthird\n")
	b := []byte("first\ninserted\nsecond\nthird\n")
	got := UnifiedDiff("f", a, "f", b, Patience, 3)
	if !strings.Contains(got, "+inserted") {
		t.Fatalf("expected patience diff to show inserted line, got %q", got)
	}
}

func TestUnifiedDiffEmptyToContent(t *testing.T) {
	got := UnifiedDiff("new", nil, "new", []byte("hello\n"), Myers, 3)
	if !strings.Contains(got, "+hello") {
		t.Fatalf("expected new content to show as insertion, got %q", got)
	}
}
