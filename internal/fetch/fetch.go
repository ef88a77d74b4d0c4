// Package fetch provides input acquisition for the tally CLI tool;
// it opens local files or standard input and hands the counting engine a
// readable handle.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// StdinName is the conventional pseudo-filename selecting standard input.
const StdinName = "-"

// stdinSource wraps os.Stdin so that closing the handle after counting does
// not close the process's standard input, while still exposing Stat for the
// engine's metadata lookup.
type stdinSource struct {
	*os.File
}

func (stdinSource) Close() error { return nil }

// GetContent returns a readable handle for the named source. The name "-"
// selects standard input; everything else is treated as a local file path.
// The caller owns the handle and must close it on every exit path.
func GetContent(name string) (io.ReadCloser, error) {
	if name == StdinName {
		return stdinSource{os.Stdin}, nil
	}
	return openFile(name)
}

// openFile opens a local file for reading with better error messages.
func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("file %q not found", path)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("permission denied reading %q", path)
		default:
			return nil, fmt.Errorf("failed to open %q: %w", path, err)
		}
	}
	return file, nil
}
