// Package pipeline drives the staged elimination that narrows the full
// entry set down to confirmed duplicate groups: size, then optional
// head/tail byte probes, then a full hash. Each stage discards entries
// whose equivalence class has already become a singleton, so later
// (more expensive) stages only ever touch entries that still have a
// chance of being duplicates.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/usert5432/fdedup/internal/config"
	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/evaluate"
	"github.com/usert5432/fdedup/internal/groupset"
	"github.com/usert5432/fdedup/internal/heuristic"
	"github.com/usert5432/fdedup/internal/progress"
)

// Run narrows entries to confirmed duplicate groups via size, optional
// head/tail probes and a final hash, in that order. The returned groups
// are sorted ascending by the size of their first member.
func Run(entries []*entry.FSEntry, cfg config.Config, log zerolog.Logger, bar *progress.Bar) ([][]*entry.FSEntry, error) {
	cmpDev := cfg.CmpDev()

	log.Info().Msg("Grouping entries by size")
	result := groupset.RemoveUnique(entries, cmpDev)
	logPossibleDuplicates(result, "file size", log)

	if cfg.NRead > 0 {
		var err error
		result, err = stage(result, cmpDev, "first bytes", heuristic.Head(cfg.NRead), cfg.AbortOnError, log, bar)
		if err != nil {
			return nil, err
		}
		result, err = stage(result, cmpDev, "last bytes", heuristic.Tail(cfg.NRead), cfg.AbortOnError, log, bar)
		if err != nil {
			return nil, err
		}
	}

	hashFn, err := heuristic.Hash(cfg.Hash)
	if err != nil {
		return nil, err
	}
	result, err = stage(
		result, cmpDev,
		fmt.Sprintf("hash (%s)", cfg.Hash), hashFn, cfg.AbortOnError, log, bar,
	)
	if err != nil {
		return nil, err
	}

	groups := groupset.Group(result, cmpDev)
	sortGroupsBySize(groups)

	return groups, nil
}

func stage(
	entries []*entry.FSEntry, cmpDev bool, name string, fn heuristic.Func,
	abortOnError bool, log zerolog.Logger, bar *progress.Bar,
) ([]*entry.FSEntry, error) {
	log.Info().Msgf("Grouping entries by %s", name)

	if err := evaluate.Evaluate(entries, fn, abortOnError, log, bar); err != nil {
		log.Warn().Err(err).Msgf("Grouping by %s failed", name)
		return nil, err
	}

	result := groupset.RemoveUnique(entries, cmpDev)
	logPossibleDuplicates(result, name, log)

	return result, nil
}

func logPossibleDuplicates(entries []*entry.FSEntry, name string, log zerolog.Logger) {
	nFiles := 0
	for _, e := range entries {
		nFiles += len(e.Paths)
	}

	log.Info().Msgf(
		"Possibly identical files after grouping by %s: %d (inodes: %d).",
		name, nFiles, len(entries),
	)
	log.Trace().Interface("entries", entries).Msg("entries")
}

// sortGroupsBySize orders groups ascending by the size of their first
// member. Groups come out of Group already internally sorted by Compare,
// so the first member of each group carries the group's size.
func sortGroupsBySize(groups [][]*entry.FSEntry) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0].Size < groups[j][0].Size
	})
}

// LogInitialStats reports the total number of entries (inodes) and files
// (paths) collected, before any grouping has begun.
func LogInitialStats(entries []*entry.FSEntry, log zerolog.Logger) {
	nFiles := 0
	for _, e := range entries {
		nFiles += len(e.Paths)
	}
	log.Info().Msgf("Found %d entries (inodes: %d)", nFiles, len(entries))
}

// LogFinalStats reports, over the confirmed duplicate groups, how many
// duplicate inodes and files were found and how much space deduplicating
// them would save.
func LogFinalStats(groups [][]*entry.FSEntry, log zerolog.Logger) {
	var nInodes, nDuplInodes, nDuplFiles int
	var savedSize uint64

	for _, group := range groups {
		n := len(group)
		nInodes += n
		nDuplInodes += n - 1

		for _, e := range group[1:] {
			nDuplFiles += len(e.Paths)
		}

		savedSize += uint64(n-1) * group[0].Size
	}

	mult := 0.0
	if nInodes > nDuplInodes {
		mult = float64(nInodes) / float64(nInodes-nDuplInodes)
	}

	log.Info().Msgf(
		"Found %d duplicate files (inodes: %d). Avr. Mult: %.2f",
		nDuplFiles, nDuplInodes, mult,
	)
	log.Info().Msgf("Deduplication will save %s", humanize.Bytes(savedSize))
}
