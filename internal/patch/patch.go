// Package patch summarizes unified diffs written alongside a state record.
package patch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Summary counts what a patch touches.
type Summary struct {
	Files   int
	Added   int
	Removed int
	Paths   []string
}

// String renders the summary as "N files, +A -R".
func (s Summary) String() string {
	noun := "files"
	if s.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s, +%d -%d", s.Files, noun, s.Added, s.Removed)
}

// Summarize parses a multi-file unified diff. An empty patch yields a zero
// Summary.
func Summarize(patch []byte) (Summary, error) {
	fileDiffs, err := diff.NewMultiFileDiffReader(bytes.NewReader(patch)).ReadAllFiles()
	if err != nil {
		return Summary{}, fmt.Errorf("parse patch: %w", err)
	}

	s := Summary{Files: len(fileDiffs), Paths: make([]string, 0, len(fileDiffs))}
	for _, fd := range fileDiffs {
		s.Paths = append(s.Paths, filePath(fd))
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					s.Added++
				case strings.HasPrefix(line, "-"):
					s.Removed++
				}
			}
		}
	}
	return s, nil
}

// filePath prefers the new name, falling back to the original for deletions.
func filePath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	for _, prefix := range []string{"a/", "b/"} {
		if strings.HasPrefix(name, prefix) {
			return name[len(prefix):]
		}
	}
	return name
}
