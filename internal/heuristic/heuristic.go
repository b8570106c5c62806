// Package heuristic provides the per-entry heuristic functions the
// evaluator applies at each pipeline stage: size, device, head/tail byte
// probes, and full-file cryptographic hash.
package heuristic

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/usert5432/fdedup/internal/entry"
)

// Func produces a Heuristic value for a single FSEntry. All Funcs read
// from Paths[0]; every path in an entry refers to the same inode, so any
// one of them is equivalent.
type Func func(e *entry.FSEntry) (entry.Heuristic, error)

// Size returns the entry's already-known size, with no I/O.
func Size(e *entry.FSEntry) (entry.Heuristic, error) {
	return entry.SizeHeuristic(e.Size), nil
}

// Device returns the entry's device identifier, with no I/O.
func Device(e *entry.FSEntry) (entry.Heuristic, error) {
	return entry.DeviceHeuristic(e.Dev), nil
}

// Head reads the first min(n, size) bytes of the entry's file.
func Head(n int64) Func {
	return func(e *entry.FSEntry) (entry.Heuristic, error) {
		f, err := os.Open(e.Paths[0])
		if err != nil {
			return entry.Heuristic{}, err
		}
		defer f.Close()

		buf, err := readUpTo(f, n)
		if err != nil {
			return entry.Heuristic{}, err
		}
		return entry.BytesHeuristic(buf), nil
	}
}

// Tail reads the last min(n, size) bytes of the entry's file. If the file
// is no larger than n, it reads the whole file from the start — the same
// bytes Head would read, which is a documented redundancy, not a bug.
func Tail(n int64) Func {
	return func(e *entry.FSEntry) (entry.Heuristic, error) {
		f, err := os.Open(e.Paths[0])
		if err != nil {
			return entry.Heuristic{}, err
		}
		defer f.Close()

		size := int64(e.Size)
		if size > n {
			if _, err := f.Seek(size-n, io.SeekStart); err != nil {
				return entry.Heuristic{}, err
			}
		}

		buf, err := readUpTo(f, n)
		if err != nil {
			return entry.Heuristic{}, err
		}
		return entry.BytesHeuristic(buf), nil
	}
}

// Hash streams the entire file through the named digest algorithm.
func Hash(algo string) (Func, error) {
	newHasher, err := hasherFor(algo)
	if err != nil {
		return nil, err
	}
	return func(e *entry.FSEntry) (entry.Heuristic, error) {
		f, err := os.Open(e.Paths[0])
		if err != nil {
			return entry.Heuristic{}, err
		}
		defer f.Close()

		h := newHasher()
		if _, err := io.Copy(h, f); err != nil {
			return entry.Heuristic{}, err
		}
		return entry.HashHeuristic(h.Sum(nil)), nil
	}, nil
}

func hasherFor(algo string) (func() hash.Hash, error) {
	switch algo {
	case "md5":
		return md5.New, nil
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("cannot parse hash algorithm: %q", algo)
	}
}

// readUpTo reads at most n bytes from r, returning fewer if r is shorter.
func readUpTo(r io.Reader, n int64) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}
