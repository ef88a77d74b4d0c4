package counter

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// statter is satisfied by sources that expose filesystem metadata, such as
// *os.File. It is the hook for the O(1) byte-count shortcut.
type statter interface {
	Stat() (os.FileInfo, error)
}

// countBytes returns the total byte length of src.
//
// For a regular file the size comes straight from filesystem metadata, with
// no read at all — counting bytes in a multi-gigabyte file should not cost a
// full traversal when the filesystem already knows the answer. Pipes,
// terminals, and sources whose metadata lookup fails fall back to streaming
// the chunks and summing their lengths.
func (e *Engine) countBytes(ctx context.Context, src io.Reader) (int64, error) {
	if s, ok := src.(statter); ok {
		info, err := s.Stat()
		if err == nil && info.Mode().IsRegular() {
			slog.Debug("byte count from file metadata", "bytes", info.Size())
			return info.Size(), nil
		}
		if err != nil {
			slog.Debug("stat failed, streaming instead", "error", err)
		}
	}

	var total int64
	r := e.newChunkReader(src)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		buf, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		total += int64(len(buf))
	}
	return total, nil
}
