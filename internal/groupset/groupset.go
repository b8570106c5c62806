// Package groupset implements the equivalence-class algebra the pipeline
// applies at every stage: compare two entries under the current axis,
// drop singleton classes, and partition a slice into classes.
//
// RemoveUnique and Group share one shape: sort by Compare, then scan for
// runs of adjacent equal elements. Sorting turns an O(n^2) pairwise
// grouping problem into an O(n log n) scan.
package groupset

import (
	"sort"

	"github.com/usert5432/fdedup/internal/entry"
)

// Compare orders two entries first by device (only when cmpDev is set),
// then by size, then by heuristic value. Two entries compare equal under
// this order iff they belong to the same equivalence class at the
// current pipeline stage.
func Compare(a, b *entry.FSEntry, cmpDev bool) int {
	if cmpDev {
		if a.Dev != b.Dev {
			if a.Dev < b.Dev {
				return -1
			}
			return 1
		}
	}

	if a.Size != b.Size {
		if a.Size < b.Size {
			return -1
		}
		return 1
	}

	return entry.Compare(a.HValue, b.HValue)
}

// sortEntries sorts a copy of entries by Compare. The original slice's
// order is not disturbed by callers that need it afterward.
func sortEntries(entries []*entry.FSEntry, cmpDev bool) []*entry.FSEntry {
	sorted := make([]*entry.FSEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j], cmpDev) < 0
	})
	return sorted
}

// RemoveUnique sorts entries and drops every entry whose equivalence
// class, under Compare, has exactly one member. Entries belonging to a
// class of two or more are kept, in sorted order.
func RemoveUnique(entries []*entry.FSEntry, cmpDev bool) []*entry.FSEntry {
	sorted := sortEntries(entries, cmpDev)

	result := make([]*entry.FSEntry, 0, len(sorted))
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && Compare(sorted[i], sorted[start], cmpDev) == 0 {
			continue
		}
		if i-start > 1 {
			result = append(result, sorted[start:i]...)
		}
		start = i
	}

	return result
}

// Group sorts entries and partitions them into equivalence classes under
// Compare. Singleton classes are included, unlike RemoveUnique.
func Group(entries []*entry.FSEntry, cmpDev bool) [][]*entry.FSEntry {
	if len(entries) == 0 {
		return nil
	}

	sorted := sortEntries(entries, cmpDev)

	var result [][]*entry.FSEntry
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && Compare(sorted[i], sorted[start], cmpDev) == 0 {
			continue
		}
		group := make([]*entry.FSEntry, i-start)
		copy(group, sorted[start:i])
		result = append(result, group)
		start = i
	}

	return result
}

// CountDuplicates reports, over an already-sorted slice, how many extra
// entries and extra paths are contributed by entries beyond the first
// member of their equivalence class. A run of k equal entries counts as
// k-1 duplicate entries; each of those k-1 entries contributes its own
// path count to nFiles.
func CountDuplicates(sorted []*entry.FSEntry, cmpDev bool) (nEntries, nFiles int) {
	if len(sorted) == 0 {
		return 0, 0
	}

	prev := sorted[0]
	for _, e := range sorted[1:] {
		if Compare(prev, e, cmpDev) == 0 {
			nEntries++
			nFiles += len(e.Paths)
		}
		prev = e
	}

	return nEntries, nFiles
}
