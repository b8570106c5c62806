package dedup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/usert5432/fdedup/internal/config"
	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/progress"
)

func mkEntry(t *testing.T, dir, name string, data []byte, priority uint32) *entry.FSEntry {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return entry.New(1, uint64(len(name)), uint64(len(data)), priority, p)
}

func TestLeaderIndexLowestPriorityMostPaths(t *testing.T) {
	a := &entry.FSEntry{Priority: 1, Paths: []string{"a"}}
	b := &entry.FSEntry{Priority: 0, Paths: []string{"b1", "b2"}}
	c := &entry.FSEntry{Priority: 0, Paths: []string{"c"}}
	group := []*entry.FSEntry{a, b, c}

	if got := leaderIndex(group); got != 1 {
		t.Errorf("got leader index %d, want 1", got)
	}
}

func TestRunHardlink(t *testing.T) {
	dir := t.TempDir()
	lead := mkEntry(t, dir, "lead", []byte("hello"), 0)
	dup := mkEntry(t, dir, "dup", []byte("hello"), 0)
	groups := [][]*entry.FSEntry{{lead, dup}}

	cfg := config.Config{Action: config.Hardlink}
	var out bytes.Buffer
	st, err := Run(groups, cfg, &out, zerolog.Nop(), progress.New(false, -1))
	if err != nil {
		t.Fatal(err)
	}
	if st.ProcessedGroups != 1 {
		t.Errorf("got %d processed, want 1", st.ProcessedGroups)
	}

	li, err := os.Lstat(dup.Paths[0])
	if err != nil {
		t.Fatal(err)
	}
	gi, err := os.Lstat(lead.Paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !os.SameFile(li, gi) {
		t.Errorf("dup is not hardlinked to lead")
	}
}

func TestRunSymlink(t *testing.T) {
	dir := t.TempDir()
	lead := mkEntry(t, dir, "lead", []byte("hello"), 0)
	dup := mkEntry(t, dir, "dup", []byte("hello"), 0)
	groups := [][]*entry.FSEntry{{lead, dup}}

	cfg := config.Config{Action: config.Symlink}
	var out bytes.Buffer
	if _, err := Run(groups, cfg, &out, zerolog.Nop(), progress.New(false, -1)); err != nil {
		t.Fatal(err)
	}

	target, err := os.Readlink(dup.Paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if target != "lead" {
		t.Errorf("got symlink target %q, want %q", target, "lead")
	}
}

func TestRunDryRunDoesNotTouchFiles(t *testing.T) {
	dir := t.TempDir()
	lead := mkEntry(t, dir, "lead", []byte("hello"), 0)
	dup := mkEntry(t, dir, "dup", []byte("hello"), 0)
	groups := [][]*entry.FSEntry{{lead, dup}}

	cfg := config.Config{Action: config.Hardlink, DryRun: true}
	var out bytes.Buffer
	if _, err := Run(groups, cfg, &out, zerolog.Nop(), progress.New(false, -1)); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Lstat(dup.Paths[0]); err != nil {
		t.Errorf("dry run removed a file: %v", err)
	}
	if out.Len() == 0 {
		t.Errorf("expected dry-run output")
	}
}

func TestRunPrintActionIsNoop(t *testing.T) {
	dir := t.TempDir()
	lead := mkEntry(t, dir, "lead", []byte("hello"), 0)
	dup := mkEntry(t, dir, "dup", []byte("hello"), 0)
	groups := [][]*entry.FSEntry{{lead, dup}}

	cfg := config.Config{Action: config.Print}
	var out bytes.Buffer
	if _, err := Run(groups, cfg, &out, zerolog.Nop(), progress.New(false, -1)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Lstat(dup.Paths[0]); err != nil {
		t.Errorf("print action removed a file: %v", err)
	}
}
