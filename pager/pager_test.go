package pager

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSelectNoPagerDisables(t *testing.T) {
	if got := Select(SelectOptions{NoPager: true, ConfigEnabled: true}); got != "" {
		t.Fatalf("expected empty selection with NoPager, got %q", got)
	}
}

func TestSelectConfigDisabled(t *testing.T) {
	if got := Select(SelectOptions{ConfigEnabled: false}); got != "" {
		t.Fatalf("expected empty selection when config disables paging, got %q", got)
	}
}

func TestSelectEnvPrecedence(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	t.Setenv("NO_PAGER", "")
	t.Setenv("DOT_LOG_PAGER", "dot-log-pager")
	t.Setenv("DOT_PAGER", "dot-pager")
	t.Setenv("GIT_PAGER", "git-pager")
	t.Setenv("PAGER", "generic-pager")

	// A pipe is not a terminal, so Select itself chooses direct output.
	if got := Select(SelectOptions{Command: "log", ConfigEnabled: true, Stdout: w}); got != "" {
		t.Fatalf("expected direct output for a non-terminal stdout, got %q", got)
	}

	// The precedence chain is checked below the terminal check.
	got := selectCommand(SelectOptions{
		Command:       "log",
		ConfigEnabled: true,
		ConfigCommand: "config-pager",
		Stdout:        w,
	})
	if got != "dot-log-pager" {
		t.Fatalf("expected DOT_LOG_PAGER to win, got %q", got)
	}

	t.Setenv("DOT_LOG_PAGER", "")
	got = selectCommand(SelectOptions{Command: "log", ConfigEnabled: true, Stdout: w})
	if got != "dot-pager" {
		t.Fatalf("expected DOT_PAGER to win once DOT_LOG_PAGER is unset, got %q", got)
	}

	t.Setenv("DOT_PAGER", "")
	got = selectCommand(SelectOptions{Command: "log", ConfigEnabled: true, Stdout: w})
	if got != "git-pager" {
		t.Fatalf("expected GIT_PAGER to win next, got %q", got)
	}

	t.Setenv("GIT_PAGER", "")
	got = selectCommand(SelectOptions{Command: "log", ConfigEnabled: true, Stdout: w})
	if got != "generic-pager" {
		t.Fatalf("expected PAGER to win next, got %q", got)
	}

	t.Setenv("PAGER", "")
	got = selectCommand(SelectOptions{Command: "log", ConfigEnabled: true, ConfigCommand: "config-pager", Stdout: w})
	if got != "config-pager" {
		t.Fatalf("expected config pager command as the last resort before auto-detect, got %q", got)
	}
}

func TestWriterFlushesDirectlyBelowThreshold(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, "", 24)
	if _, err := w.Write([]byte("line one\nline two\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "line one\nline two\n" {
		t.Fatalf("expected unpaged output flushed verbatim, got %q", out.String())
	}
}

func TestWriterSpawnsPagerPastThreshold(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, "cat", 2)
	content := strings.Repeat("line\n", 5)
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if !w.spawned {
		t.Fatal("expected the pager to spawn once the line threshold was crossed")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.Dead() {
		t.Fatal("did not expect the pager to report itself dead after a clean close")
	}
}
