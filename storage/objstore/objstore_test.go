package objstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotman-vcs/dotman/internal/compress"
)

func TestWriteFileDeduplicates(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root, compress.DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	content := []byte("identical dotfile content\n")
	os.WriteFile(a, content, 0o644)
	os.WriteFile(b, content, 0o644)

	hashA, wroteA, err := s.WriteFile(a)
	if err != nil {
		t.Fatal(err)
	}
	if !wroteA {
		t.Fatal("expected first write to actually write")
	}

	hashB, wroteB, err := s.WriteFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashA != hashB {
		t.Fatalf("identical content must hash equal: %s vs %s", hashA, hashB)
	}
	if wroteB {
		t.Fatal("expected duplicate content write to be skipped")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root, compress.DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("export EDITOR=nvim\n")
	hash, _, err := s.Write(data)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Read(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("read mismatch: got %q, want %q", got, data)
	}
}

func TestRestoreTo(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root, compress.DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("alias g=git\n")
	hash, _, err := s.Write(data)
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "restored")
	if err := s.RestoreTo(hash, dest, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("restored content mismatch: got %q, want %q", got, data)
	}
}

func TestHasAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root, compress.DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}

	hash, _, err := s.Write([]byte("export PATH=$PATH:/usr/local/bin\n"))
	if err != nil {
		t.Fatal(err)
	}

	has, err := s.Has(hash)
	if err != nil || !has {
		t.Fatalf("expected blob to exist, has=%v err=%v", has, err)
	}

	if err := s.Delete(hash); err != nil {
		t.Fatal(err)
	}

	has, err = s.Has(hash)
	if err != nil || has {
		t.Fatalf("expected blob to be gone, has=%v err=%v", has, err)
	}
}
