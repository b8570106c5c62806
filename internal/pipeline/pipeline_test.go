package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/usert5432/fdedup/internal/config"
	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/progress"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func writeFile(t *testing.T, dir, name string, data []byte) *entry.FSEntry {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	return entry.New(1, uint64(len(name)), uint64(info.Size()), 0, p)
}

func TestRunFindsDuplicatesAndDropsUnique(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "aa", []byte("hello world"))
	b := writeFile(t, dir, "bb", []byte("hello world"))
	c := writeFile(t, dir, "cc", []byte("something else"))

	// force distinct inodes so they don't get unified upstream of the
	// pipeline.
	a.Ino, b.Ino, c.Ino = 1, 2, 3

	cfg := config.Config{Action: config.Print, Hash: "sha256", NRead: 4}

	groups, err := Run([]*entry.FSEntry{a, b, c}, cfg, noopLogger(), progress.New(false, -1))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1: %+v", len(groups), groups)
	}
	if len(groups[0]) != 2 {
		t.Fatalf("got group of %d, want 2", len(groups[0]))
	}
}

func TestRunNoDuplicates(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "aa", []byte("one"))
	b := writeFile(t, dir, "bb", []byte("two"))
	a.Ino, b.Ino = 1, 2

	cfg := config.Config{Action: config.Print, Hash: "sha256"}

	groups, err := Run([]*entry.FSEntry{a, b}, cfg, noopLogger(), progress.New(false, -1))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0", len(groups))
	}
}
