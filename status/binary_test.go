package status

import "testing"

func TestIsBinaryDetectsNUL(t *testing.T) {
	data := []byte("some\x00binary\x00content")
	if !IsBinary(data) {
		t.Fatal("expected NUL-containing content to be classified binary")
	}
}

func TestIsBinaryAllowsPlainText(t *testing.T) {
	data := []byte("export PATH=$HOME/bin:$PATH\nalias ll='ls -la'\n")
	if IsBinary(data) {
		t.Fatal("expected plain text to be classified as text")
	}
}

func TestIsBinaryEmptyIsText(t *testing.T) {
	if IsBinary(nil) {
		t.Fatal("expected empty content to be classified as text")
	}
}

func TestIsBinaryManyControlBytes(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i % 10)
	}
	if !IsBinary(data) {
		t.Fatal("expected mostly-control-byte content to be classified binary")
	}
}
