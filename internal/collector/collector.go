// Package collector walks one or more root trees and populates a map of
// FSEntry records keyed by (dev, inode), unifying hardlinked aliases of
// the same file into a single entry as it goes.
package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/usert5432/fdedup/internal/config"
	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/progress"
)

// Collect walks root depth-first and records every regular file it finds
// into files, keyed by (dev, inode). Symlinks are never followed.
//
// In strict mode (cfg.AbortOnError) the first filesystem error is logged at
// error level and aborts the walk. In sloppy mode errors are logged at warn
// level and the offending entry or subtree is skipped.
func Collect(root string, files map[entry.Key]*entry.FSEntry, cfg config.Config, priority uint32, log zerolog.Logger, bar *progress.Bar) error {
	fail := func(err error, msg string) error {
		if cfg.AbortOnError {
			log.Error().Err(err).Str("root", root).Msg(msg)
			return err
		}
		log.Warn().Err(err).Str("root", root).Msg(msg)
		return nil
	}

	w, err := newWalker(files, root, cfg, priority, log, bar)
	if err != nil {
		return fail(err, "failed to prepare walker")
	}

	info, err := os.Lstat(root)
	if err != nil {
		return fail(err, "failed to stat root path")
	}
	if !info.IsDir() {
		return fail(fmt.Errorf("root path is not a directory: %s", root), "root path is not a directory")
	}

	return w.walkDir(root)
}

type walker struct {
	files     map[entry.Key]*entry.FSEntry
	cfg       config.Config
	priority  uint32
	log       zerolog.Logger
	bar       *progress.Bar
	dev       uint64
	pinDevice bool
	includes  []string
	excludes  []string
}

func newWalker(files map[entry.Key]*entry.FSEntry, root string, cfg config.Config, priority uint32, log zerolog.Logger, bar *progress.Bar) (*walker, error) {
	w := &walker{
		files:    files,
		cfg:      cfg,
		priority: priority,
		log:      log,
		bar:      bar,
		includes: compilePatterns(cfg.Includes),
		excludes: compilePatterns(cfg.Excludes),
	}

	if cfg.OneFileSystem {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if sys, ok := info.Sys().(*syscall.Stat_t); ok {
			w.dev = uint64(sys.Dev)
			w.pinDevice = true
		}
	}

	return w, nil
}

// compilePatterns rewrites bare patterns (no leading "/" or "**") to be
// anchored at any directory depth, mirroring a glob library's
// literal_separator semantics: "*" never crosses a path separator unless
// the pattern spells out "**".
func compilePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "**") {
			out = append(out, strings.TrimPrefix(p, "/"))
			continue
		}
		out = append(out, "**/"+p)
	}
	return out
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// passesFilters applies the include/exclude/size rules to a single path.
// An include match always wins; otherwise an exclude match rejects it;
// otherwise size bounds apply to regular files only.
func (w *walker) passesFilters(path string, d fs.DirEntry, size uint64) bool {
	if matchesAny(w.includes, path) {
		return true
	}
	if matchesAny(w.excludes, path) {
		return false
	}

	if !d.IsDir() {
		if size < w.cfg.MinSize {
			return false
		}
		if w.cfg.HasMaxSize && size >= w.cfg.MaxSize {
			return false
		}
	}

	return true
}

// walkDir recurses into dir, adding every qualifying regular file to
// w.files and descending into every qualifying subdirectory.
func (w *walker) walkDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if w.cfg.AbortOnError {
			w.log.Error().Err(err).Str("dir", dir).Msg("failed to read directory")
			return err
		}
		w.log.Warn().Err(err).Str("dir", dir).Msg("failed to read directory")
		return nil
	}

	for _, d := range entries {
		path := filepath.Join(dir, d.Name())

		info, err := d.Info()
		if err != nil {
			if w.cfg.AbortOnError {
				w.log.Error().Err(err).Str("path", path).Msg("failed to stat entry")
				return err
			}
			w.log.Warn().Err(err).Str("path", path).Msg("failed to stat entry")
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if w.pinDevice {
			sys, ok := info.Sys().(*syscall.Stat_t)
			if !ok || uint64(sys.Dev) != w.dev {
				continue
			}
		}

		if !w.passesFilters(path, d, uint64(info.Size())) {
			continue
		}

		w.bar.Describe(stringer(path))

		switch {
		case info.Mode().IsRegular():
			w.addPath(path, info)
		case info.IsDir():
			if err := w.walkDir(path); err != nil {
				if w.cfg.AbortOnError {
					return err
				}
				w.log.Warn().Err(err).Str("path", path).Msg("failed to walk directory")
			}
		}
	}

	return nil
}

func (w *walker) addPath(path string, info fs.FileInfo) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		w.log.Warn().Str("path", path).Msg("cannot read inode metadata, skipping")
		return
	}

	key := entry.Key{Dev: uint64(sys.Dev), Ino: sys.Ino}
	if e, found := w.files[key]; found {
		e.AddPath(path)
		return
	}

	w.files[key] = entry.New(uint64(sys.Dev), sys.Ino, uint64(info.Size()), w.priority, path)
}

type stringer string

func (s stringer) String() string { return string(s) }
