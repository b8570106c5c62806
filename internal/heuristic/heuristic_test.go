package heuristic

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/usert5432/fdedup/internal/entry"
)

func writeFile(t *testing.T, dir, name string, data []byte) *entry.FSEntry {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return entry.New(0, 0, uint64(len(data)), 0, p)
}

func TestHeadShorterThanFile(t *testing.T) {
	dir := t.TempDir()
	e := writeFile(t, dir, "a", []byte("abcdefgh"))

	h, err := Head(3)(e)
	if err != nil {
		t.Fatal(err)
	}
	if string(h.Raw) != "abc" {
		t.Errorf("got %q, want %q", h.Raw, "abc")
	}
}

func TestTailShorterThanFile(t *testing.T) {
	dir := t.TempDir()
	e := writeFile(t, dir, "a", []byte("abcdefgh"))

	h, err := Tail(3)(e)
	if err != nil {
		t.Fatal(err)
	}
	if string(h.Raw) != "fgh" {
		t.Errorf("got %q, want %q", h.Raw, "fgh")
	}
}

func TestHeadTailSmallFileConverge(t *testing.T) {
	dir := t.TempDir()
	e := writeFile(t, dir, "a", []byte("ab"))

	head, err := Head(10)(e)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := Tail(10)(e)
	if err != nil {
		t.Fatal(err)
	}
	if string(head.Raw) != string(tail.Raw) {
		t.Errorf("head %q != tail %q for file smaller than n", head.Raw, tail.Raw)
	}
}

func TestHashMatchesStdlib(t *testing.T) {
	dir := t.TempDir()
	e := writeFile(t, dir, "a", []byte("hello world"))

	fn, err := Hash("sha256")
	if err != nil {
		t.Fatal(err)
	}
	h, err := fn(e)
	if err != nil {
		t.Fatal(err)
	}

	want := sha256.Sum256([]byte("hello world"))
	if string(h.Raw) != string(want[:]) {
		t.Errorf("hash mismatch")
	}
}

func TestHashUnknownAlgorithm(t *testing.T) {
	if _, err := Hash("crc32"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestSizeAndDevice(t *testing.T) {
	e := &entry.FSEntry{Dev: 7, Size: 42}

	sz, _ := Size(e)
	if sz.Tag != entry.Size || sz.Num != 42 {
		t.Errorf("Size() = %+v", sz)
	}

	dv, _ := Device(e)
	if dv.Tag != entry.Device || dv.Num != 7 {
		t.Errorf("Device() = %+v", dv)
	}
}
