// Package source loads a compiler input file and splits it into lines for
// token spans and diagnostic rendering.
package source

import (
	"os"
	"strings"
)

// File is a loaded source file, split into lines for span lookups.
type File struct {
	Path  string
	Lines []string
}

// Load reads path and splits it into lines on "\n". The final line need
// not be newline-terminated. Errors here describe a problem with the
// input itself rather than its contents, and are reported as such by
// the caller.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &UserError{Path: path, Reason: "no such file"}
	}
	if !info.Mode().IsRegular() {
		return nil, &UserError{Path: path, Reason: "not a regular file"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &UserError{Path: path, Reason: "bad stat"}
	}

	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text == "" {
		lines = []string{""}
	} else {
		lines = strings.Split(text, "\n")
	}

	return &File{Path: path, Lines: lines}, nil
}

// Line returns the text of the given zero-based line index, or "" if out
// of range (used defensively when rendering a diagnostic at EOF).
func (f *File) Line(i int) string {
	if i < 0 || i >= len(f.Lines) {
		return ""
	}
	return f.Lines[i]
}

// UserError reports a problem with the input itself, not with its
// contents.
type UserError struct {
	Path   string
	Reason string
}

func (e *UserError) Error() string {
	return e.Reason + " '" + e.Path + "'"
}
