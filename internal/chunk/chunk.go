// Package chunk provides fixed-size byte chunking for the tally CLI tool.
//
// A Reader pulls successive blocks of raw bytes from an input source; every
// counting strategy in the tool consumes the same chunk stream, so boundary
// handling (words or multi-byte characters split between two chunks) lives
// in the counters, not here.
//
// Usage Example:
//
//	r := chunk.NewReader(src, 32*1024)
//	for {
//		buf, err := r.Next()
//		if err == io.EOF {
//			break
//		}
//		// process buf before the next call; the buffer is reused
//	}
//
// A size of 0 means "read the entire input in one shot", which is useful for
// small inputs and for verifying chunked results against a whole-input pass.
package chunk

import (
	"io"
	"log/slog"
)

// DefaultSize is the per-read buffer size used when the caller does not
// choose one.
const DefaultSize = 32 * 1024

// Reader produces a lazy, finite sequence of byte chunks from an input
// source. It is not safe for concurrent use; each input stream gets its own
// Reader.
type Reader struct {
	src  io.Reader
	buf  []byte
	size int
	done bool
}

// NewReader wraps src in a chunking Reader. size is the maximum chunk
// length in bytes; 0 means the whole input is delivered as a single chunk.
func NewReader(src io.Reader, size int) *Reader {
	if size < 0 {
		size = DefaultSize
	}
	r := &Reader{src: src, size: size}
	if size > 0 {
		r.buf = make([]byte, size)
	}
	return r
}

// Next returns the next non-empty chunk, or io.EOF once the input is
// exhausted. The returned slice is only valid until the following call to
// Next. Read failures on the underlying input are returned as-is, with no
// retry.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	// whole-input mode: one chunk, then EOF
	if r.size == 0 {
		r.done = true
		data, err := io.ReadAll(r.src)
		if err != nil {
			return nil, err
		}
		slog.Debug("read whole input", "bytes", len(data))
		if len(data) == 0 {
			return nil, io.EOF
		}
		return data, nil
	}

	for {
		n, err := r.src.Read(r.buf)
		if n > 0 {
			// a short read is still a valid chunk; deliver it now and
			// surface any accompanying error on the next call
			if err == io.EOF {
				r.done = true
			} else if err != nil {
				r.src = errReader{err}
			}
			return r.buf[:n], nil
		}
		if err != nil {
			r.done = true
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
	}
}

// errReader replays a deferred read error.
type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
