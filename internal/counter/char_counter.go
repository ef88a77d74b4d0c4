package counter

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// stitchSize is a generous upper bound on the encoded length of one
// character across the supported encodings, including multi-byte escape
// sequences. Stitching at most this many chunk bytes onto a carried tail
// is always enough to complete the split character.
const stitchSize = 32

// decodeState is the carry-over state of an incremental decode: the
// transformer plus any trailing bytes of a character left incomplete by the
// previous chunk. One decodeState belongs to exactly one counting
// operation and is discarded at stream end after a final flush, so no
// decoder state can leak between inputs.
type decodeState struct {
	tr      transform.Transformer
	pending []byte
	dst     []byte
}

func newDecodeState(enc encoding.Encoding) *decodeState {
	return &decodeState{
		tr:  enc.NewDecoder(),
		dst: make([]byte, 4096),
	}
}

// feed decodes the next chunk and returns the number of characters it
// completes. Bytes of a character still missing its tail are held in
// pending and counted once the rest arrives in a later chunk; the bulk of
// each chunk is transformed in place, never copied. Call with a nil chunk
// and final=true after the last chunk to flush any carried bytes.
//
// Malformed byte sequences are replaced by a single substitution character
// per ill-formed unit; that is the only recovery path, and it never aborts
// the count.
func (d *decodeState) feed(chunk []byte, final bool) int64 {
	if len(chunk) == 0 && len(d.pending) == 0 && !final {
		return 0
	}

	var chars int64
	start := 0
	if plen := len(d.pending); plen > 0 {
		// stitch the carried tail to the head of the chunk so the split
		// character can complete, then continue from the chunk directly
		head := min(len(chunk), stitchSize)
		stitch := append(d.pending, chunk[:head]...)
		n, consumed := d.transformAll(stitch, final && head == len(chunk))
		chars += n
		switch {
		case consumed == len(stitch):
			d.pending = stitch[:0]
			start = head
		case head == len(chunk):
			// the chunk ended inside the character; keep carrying
			d.pending = stitch[:copy(stitch, stitch[consumed:])]
			return chars
		default:
			d.pending = stitch[:0]
			start = consumed - plen
		}
	}

	n, consumed := d.transformAll(chunk[start:], final)
	chars += n
	if tail := chunk[start+consumed:]; len(tail) > 0 {
		// incomplete trailing character; carry it to the next chunk
		d.pending = append(d.pending[:0], tail...)
	}
	return chars
}

// transformAll decodes as much of src as possible, returning the number of
// completed characters and of consumed source bytes. With atEOF set it
// always consumes everything, substituting for an undecodable fragment.
func (d *decodeState) transformAll(src []byte, atEOF bool) (int64, int) {
	var chars int64
	pos := 0
	for {
		nDst, nSrc, err := d.tr.Transform(d.dst, src[pos:], atEOF)
		chars += int64(utf8.RuneCount(d.dst[:nDst]))
		pos += nSrc

		switch err {
		case nil:
			return chars, pos
		case transform.ErrShortDst:
			// output buffer filled; keep transforming the remainder
		case transform.ErrShortSrc:
			if !atEOF {
				return chars, pos
			}
			// a decoder refusing the tail at end of stream: substitute
			// one character for the fragment and drop it
			slog.Debug("substituting for undecodable trailing bytes", "bytes", len(src)-pos)
			return chars + 1, len(src)
		default:
			// decoders used here substitute rather than error; if one
			// errors anyway, count a substitution and skip one byte
			if pos >= len(src) {
				return chars, pos
			}
			slog.Debug("decode error, substituting one character", "error", err)
			pos++
			chars++
		}
	}
}

// countChars returns the number of characters (code points) in src, decoded
// incrementally under the engine's encoding. A multi-byte character split
// across a chunk boundary is completed when its remaining bytes arrive; a
// final flush after the last chunk emits any character finished by trailing
// bytes.
func (e *Engine) countChars(ctx context.Context, src io.Reader) (int64, error) {
	var total int64
	dec := newDecodeState(e.enc)
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
		total += dec.feed(buf, false)
	}
	total += dec.feed(nil, true)
	return total, nil
}
