// Package evaluate applies a single heuristic function to a batch of
// entries in inode order.
package evaluate

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/heuristic"
	"github.com/usert5432/fdedup/internal/progress"
)

// Evaluate sorts entries ascending by (dev, inode) — which monotonizes
// seek order on spinning media — then overwrites HValue with fn's result
// for every entry, advancing bar by one per entry.
//
// In strict mode (abortOnError) the first error aborts and is returned.
// In sloppy mode a failing entry keeps its prior HValue, a warning is
// logged, and processing continues.
func Evaluate(entries []*entry.FSEntry, fn heuristic.Func, abortOnError bool, log zerolog.Logger, bar *progress.Bar) error {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Dev != b.Dev {
			return a.Dev < b.Dev
		}
		return a.Ino < b.Ino
	})

	for _, e := range entries {
		v, err := fn(e)
		bar.Add(1)
		if err != nil {
			if abortOnError {
				return err
			}
			log.Warn().Err(err).Str("path", e.Paths[0]).Msg("heuristic evaluation failed, skipping")
			continue
		}
		e.HValue = v
	}

	return nil
}
