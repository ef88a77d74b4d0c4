package counter

import (
	"bytes"
	"context"
	"io"
)

// countAll computes all four metrics in exactly one read pass. Each chunk
// flows through the newline scan, the word-boundary logic, the byte tally,
// and the incremental decoder before the next chunk is read; the word and
// decoder states are carried independently between chunks.
//
// Fusing the counters is what makes multi-metric requests work on sources
// that can only be read once — a pipe cannot be rewound for a second
// counter's pass. There is no metadata shortcut for bytes here: the stream
// is being read anyway, so chunk lengths are summed for free.
func (e *Engine) countAll(ctx context.Context, src io.Reader) (Result, error) {
	var res Result
	words := newWordState(e.cfg.UnicodeWords)
	dec := newDecodeState(e.enc)

	r := e.newChunkReader(src)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		buf, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, err
		}

		res.Bytes += int64(len(buf))
		res.Lines += int64(bytes.Count(buf, []byte{'\n'}))
		res.Words += words.count(buf)
		res.Chars += dec.feed(buf, false)
	}
	res.Words += words.finish()
	res.Chars += dec.feed(nil, true)

	return res, nil
}
