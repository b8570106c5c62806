// Package dedup replaces confirmed duplicate files with hardlinks or
// symlinks to the group's leader, or, in dry-run mode, prints the shell
// commands that would perform the replacement.
package dedup

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/usert5432/fdedup/internal/config"
	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/pathutil"
	"github.com/usert5432/fdedup/internal/progress"
)

// Stats tracks deduplication progress across all groups, for progress-bar
// display and a final summary line.
type Stats struct {
	TotalGroups     int
	ProcessedGroups int
	SavedBytes      uint64
	startTime       time.Time
}

func (s *Stats) String() string {
	return fmt.Sprintf(
		"Deduplicated %d/%d sets, saved %s in %.1fs",
		s.ProcessedGroups, s.TotalGroups,
		humanize.Bytes(s.SavedBytes), time.Since(s.startTime).Seconds(),
	)
}

// Run replaces every non-leader file in every group with a link to the
// group's leader (or prints the plan, under DryRun). Action == Print is
// a no-op: reporting the groups is report.Write's job, not dedup's.
//
// In strict mode (cfg.AbortOnError) the first failure aborts and is
// returned. In sloppy mode a failed group is abandoned (its remaining
// members are left untouched) and processing continues with the next
// group.
func Run(groups [][]*entry.FSEntry, cfg config.Config, out io.Writer, log zerolog.Logger, bar *progress.Bar) (*Stats, error) {
	st := &Stats{TotalGroups: len(groups), startTime: time.Now()}

	if cfg.Action == config.Print || len(groups) == 0 {
		return st, nil
	}

	if cfg.DryRun {
		fmt.Fprintln(out, "Dry run:")
	}

	for idx, group := range groups {
		if cfg.DryRun {
			fmt.Fprintf(out, "[%d]\n", idx)
		}

		saved, err := processGroup(group, cfg, out, log)
		st.SavedBytes += saved
		if err != nil {
			if cfg.AbortOnError {
				return st, err
			}
			log.Error().Err(err).Int("group", idx).Msg("abandoning group after unrecoverable failure")
		}

		st.ProcessedGroups++
		bar.Add(1)
	}

	bar.Finish(st)

	return st, nil
}

// leaderIndex returns the index of the group member that should survive:
// lowest Priority, ties broken by most Paths, further ties broken by
// position in group (first wins, since group order is already
// deterministic from groupset.Group's sort).
func leaderIndex(group []*entry.FSEntry) int {
	best := 0
	for i := 1; i < len(group); i++ {
		e, b := group[i], group[best]
		switch {
		case e.Priority < b.Priority:
			best = i
		case e.Priority == b.Priority && len(e.Paths) > len(b.Paths):
			best = i
		}
	}
	return best
}

// processGroup replaces every path of every non-leader member with a
// link to the leader's first path, returning the bytes saved.
//
// A failure removing a path is logged and skipped without abandoning the
// group (sloppy) or is returned immediately (strict). A failure creating
// the replacement link always aborts the group, matching the asymmetry
// between a recoverable miss (duplicate stays duplicated) and an
// unrecoverable half-removed state (original already gone).
func processGroup(group []*entry.FSEntry, cfg config.Config, out io.Writer, log zerolog.Logger) (uint64, error) {
	leader := leaderIndex(group)
	leaderPath := group[leader].Paths[0]
	var saved uint64

	for idx, e := range group {
		if idx == leader {
			continue
		}

		for _, path := range e.Paths {
			if cfg.DryRun {
				fmt.Fprintf(out, "  rm '%s'\n", path)
			} else {
				if err := os.Remove(path); err != nil {
					if cfg.AbortOnError {
						log.Error().Err(err).Str("path", path).Msg("failed to remove file")
						return saved, err
					}
					log.Warn().Err(err).Str("path", path).Msg("failed to remove file")
					continue
				}
				log.Debug().Str("path", path).Msg("removed file")
			}

			if err := link(leaderPath, path, cfg, out, log); err != nil {
				return saved, err
			}
		}

		saved += e.Size
	}

	return saved, nil
}

// link creates the replacement at dst (or prints the command, in dry-run
// mode) pointing at src. A failure here always leaves dst missing with its
// original content already removed, so it is logged at error level and
// returned unconditionally — strict and sloppy alike — rather than skipped
// the way a plain remove failure can be.
func link(src, dst string, cfg config.Config, out io.Writer, log zerolog.Logger) error {
	switch cfg.Action {
	case config.Symlink:
		rel := pathutil.RelPath(src, dst)
		if cfg.DryRun {
			fmt.Fprintf(out, "  ln -s '%s' '%s'\n", rel, dst)
			return nil
		}
		if err := os.Symlink(rel, dst); err != nil {
			err := fmt.Errorf("failed to make symlink: %s -> %s: %w", dst, rel, err)
			log.Error().Err(err).Str("target", rel).Str("path", dst).Msg("failed to create symlink after removing original, file lost")
			return err
		}
		log.Debug().Str("target", rel).Str("path", dst).Msg("created symlink")

	case config.Hardlink:
		if cfg.DryRun {
			fmt.Fprintf(out, "  ln '%s' '%s'\n", src, dst)
			return nil
		}
		if err := os.Link(src, dst); err != nil {
			err := fmt.Errorf("failed to make hardlink: %s -> %s: %w", dst, src, err)
			log.Error().Err(err).Str("target", src).Str("path", dst).Msg("failed to create hardlink after removing original, file lost")
			return err
		}
		log.Debug().Str("target", src).Str("path", dst).Msg("created hardlink")
	}

	return nil
}
