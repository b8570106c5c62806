// Package entry holds the FSEntry record and Heuristic value type that the
// rest of the pipeline is built around.
package entry

import "bytes"

// Key identifies an inode within a device, the unit every FSEntry is keyed
// by during collection.
type Key struct {
	Dev uint64
	Ino uint64
}

// FSEntry is a single inode reachable from one or more paths.
//
// Paths is non-empty after construction and never contains duplicate
// strings; insertion order is preserved. Priority is assigned from the
// index of the root the entry was first discovered under and never
// changes once set.
type FSEntry struct {
	Dev      uint64
	Ino      uint64
	Size     uint64
	Priority uint32
	Paths    []string
	HValue   Heuristic
}

// New creates an FSEntry for a freshly discovered inode.
func New(dev, ino, size uint64, priority uint32, path string) *FSEntry {
	return &FSEntry{
		Dev:      dev,
		Ino:      ino,
		Size:     size,
		Priority: priority,
		Paths:    []string{path},
		HValue:   Heuristic{Tag: Null},
	}
}

// AddPath appends path to e.Paths unless already present.
func (e *FSEntry) AddPath(path string) {
	for _, p := range e.Paths {
		if p == path {
			return
		}
	}
	e.Paths = append(e.Paths, path)
}

// Tag discriminates the variant carried by a Heuristic value. Ordering
// across tags follows this declaration order.
type Tag int

const (
	Null Tag = iota
	Device
	Size
	Bytes
	Hash
)

// Heuristic is a tagged value used to refine equivalence classes across
// pipeline stages. Only Num is meaningful for Device/Size; only Raw
// is meaningful for Bytes/Hash.
type Heuristic struct {
	Tag Tag
	Num uint64
	Raw []byte
}

// NullHeuristic is the bottom value every FSEntry starts with.
var NullHeuristic = Heuristic{Tag: Null}

// DeviceHeuristic wraps a device identifier.
func DeviceHeuristic(dev uint64) Heuristic { return Heuristic{Tag: Device, Num: dev} }

// SizeHeuristic wraps a file size.
func SizeHeuristic(size uint64) Heuristic { return Heuristic{Tag: Size, Num: size} }

// BytesHeuristic wraps a byte-probe result.
func BytesHeuristic(b []byte) Heuristic { return Heuristic{Tag: Bytes, Raw: b} }

// HashHeuristic wraps a digest.
func HashHeuristic(b []byte) Heuristic { return Heuristic{Tag: Hash, Raw: b} }

// Compare gives a total order over Heuristic values: first by Tag, then by
// the tag's payload. Equality holds only for identical variant and payload.
func Compare(a, b Heuristic) int {
	if a.Tag != b.Tag {
		if a.Tag < b.Tag {
			return -1
		}
		return 1
	}
	switch a.Tag {
	case Null:
		return 0
	case Device, Size:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	default: // Bytes, Hash
		return bytes.Compare(a.Raw, b.Raw)
	}
}
