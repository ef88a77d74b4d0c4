package counter

import (
	"context"
	"io"
	"unicode"
	"unicode/utf8"
)

// wordState carries the word-boundary information between chunks of one
// counting operation: whether the previous chunk ended in whitespace, and —
// in Unicode classification mode — the trailing bytes of a rune the
// previous chunk left incomplete. The zero value is not ready for use;
// newWordState seeds the stream-start condition (the stream behaves as if
// preceded by whitespace).
type wordState struct {
	prevEndedInSpace bool
	unicodeClass     bool
	carry            []byte
}

func newWordState(unicodeClass bool) wordState {
	return wordState{prevEndedInSpace: true, unicodeClass: unicodeClass}
}

// count returns the number of words the chunk contributes to the running
// total, corrected for a word straddling the previous chunk boundary.
//
// In the default ASCII mode, counting tokens per chunk over-counts by
// exactly one whenever the previous chunk ended mid-word and this chunk
// continues it: the two fragments are one word counted twice. That happens
// precisely when the previous chunk did not end in whitespace and this
// chunk does not start with whitespace.
func (s *wordState) count(chunk []byte) int64 {
	if len(chunk) == 0 {
		return 0
	}
	if s.unicodeClass {
		return s.countRunes(chunk)
	}

	n := int64(s.tokens(chunk))
	if !s.prevEndedInSpace && !asciiSpace(chunk[0]) {
		n--
	}
	s.prevEndedInSpace = asciiSpace(chunk[len(chunk)-1])
	return n
}

// finish counts any carried bytes of a rune the stream truncated; they are
// ill-formed content and classify as non-whitespace, exactly as a
// whole-input scan would see them.
func (s *wordState) finish() int64 {
	var n int64
	for i := 0; i < len(s.carry); {
		r, size := utf8.DecodeRune(s.carry[i:])
		n += s.step(r)
		i += size
	}
	s.carry = s.carry[:0]
	return n
}

// tokens counts maximal runs of non-whitespace bytes within one chunk
// under the ASCII classification.
func (s *wordState) tokens(chunk []byte) int {
	n := 0
	inToken := false
	for _, c := range chunk {
		if asciiSpace(c) {
			inToken = false
		} else if !inToken {
			inToken = true
			n++
		}
	}
	return n
}

// countRunes scans the chunk rune by rune under Unicode whitespace
// classification. A multi-byte rune split by a chunk boundary — including
// a multi-byte whitespace rune such as U+00A0 — is completed from the
// carried tail bytes before it is classified, so the count never depends
// on where the boundaries fall.
func (s *wordState) countRunes(chunk []byte) int64 {
	var n int64
	pos := 0

	if clen := len(s.carry); clen > 0 {
		// stitch the carried bytes to the head of the chunk; a rune is at
		// most utf8.UTFMax bytes, so that is all the head we need
		head := min(len(chunk), utf8.UTFMax)
		stitch := append(s.carry, chunk[:head]...)
		i := 0
		for i < clen {
			if !utf8.FullRune(stitch[i:]) {
				// the chunk ended before the rune did; keep carrying
				s.carry = stitch[:copy(stitch, stitch[i:])]
				return n
			}
			r, size := utf8.DecodeRune(stitch[i:])
			n += s.step(r)
			i += size
		}
		s.carry = stitch[:0]
		pos = i - clen
	}

	for pos < len(chunk) {
		if !utf8.FullRune(chunk[pos:]) {
			s.carry = append(s.carry[:0], chunk[pos:]...)
			return n
		}
		r, size := utf8.DecodeRune(chunk[pos:])
		n += s.step(r)
		pos += size
	}
	return n
}

// step advances the space/word state by one classified rune, returning 1
// when the rune starts a new word.
func (s *wordState) step(r rune) int64 {
	if unicode.IsSpace(r) {
		s.prevEndedInSpace = true
		return 0
	}
	if s.prevEndedInSpace {
		s.prevEndedInSpace = false
		return 1
	}
	return 0
}

// asciiSpace matches the C isspace set, the classification the reference
// tool applies to raw bytes.
func asciiSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// countWords returns the number of whitespace-delimited words in src. The
// result is independent of chunk size: an all-whitespace chunk contributes
// zero tokens but still advances the carried boundary state, and an empty
// input yields zero.
func (e *Engine) countWords(ctx context.Context, src io.Reader) (int64, error) {
	var total int64
	state := newWordState(e.cfg.UnicodeWords)
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
		total += state.count(buf)
	}
	total += state.finish()
	return total, nil
}
