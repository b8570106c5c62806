// Package report writes the plain-text duplicate report consumed by
// --action=print.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/usert5432/fdedup/internal/entry"
)

// Write emits one block per duplicate group:
//
//	Identical Files. Size: <n>
//	  <dev> <inode>
//	    <path>
//	  <dev> <inode>
//	    <path>
//
// A path containing a newline is escaped and quoted so the report stays
// line-oriented: backslashes are doubled, newlines become "\n", and the
// path is preceded by a backslash-escaped quote (\") and followed by a
// plain quote (").
func Write(w io.Writer, groups [][]*entry.FSEntry) error {
	bw := bufio.NewWriter(w)

	for _, group := range groups {
		if _, err := fmt.Fprintf(bw, "Identical Files. Size: %d\n", group[0].Size); err != nil {
			return err
		}

		for _, e := range group {
			if _, err := fmt.Fprintf(bw, "  %d %d\n", e.Dev, e.Ino); err != nil {
				return err
			}
			for _, path := range e.Paths {
				if err := writePath(bw, path); err != nil {
					return err
				}
			}
		}
	}

	return bw.Flush()
}

func writePath(bw *bufio.Writer, path string) error {
	if strings.Contains(path, "\n") {
		escaped := strings.ReplaceAll(path, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "\n", `\n`)
		_, err := fmt.Fprintf(bw, "    \\\"%s\"\n", escaped)
		return err
	}
	_, err := fmt.Fprintf(bw, "    %s\n", path)
	return err
}
