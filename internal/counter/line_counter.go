package counter

import (
	"bytes"
	"context"
	"io"
)

// countLines returns the number of newline bytes in src.
//
// A line is defined purely by its trailing '\n'; carriage returns get no
// special treatment, and a final line without a newline is not counted.
// This matches the traditional wc -l convention.
func (e *Engine) countLines(ctx context.Context, src io.Reader) (int64, error) {
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
		total += int64(bytes.Count(buf, []byte{'\n'}))
	}
	return total, nil
}
