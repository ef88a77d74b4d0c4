// Package counter implements the streaming counting engine for the tally
// CLI tool.
//
// The engine computes any subset of four metrics — lines, words, characters,
// and bytes — over a byte stream in a single pass with bounded memory. The
// stream may be a regular file or something that can only be read once, such
// as a pipe; when several metrics are requested the engine fuses all of them
// into one traversal instead of re-reading the source.
//
// Usage Example:
//
//	eng, err := counter.New(counter.Config{Encoding: "utf-8"})
//	if err != nil {
//		return err
//	}
//	res, err := eng.Count(ctx, src, counter.Set{counter.Lines, counter.Words})
//	// res.Lines and res.Words hold the totals
//
// Word and character boundaries split across read-buffer edges are handled
// by small state values carried between chunks (see word_counter.go and
// char_counter.go); no state survives from one Count call to the next.
package counter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/chriscorrea/tally/internal/chunk"
)

// ErrUnsupportedEncoding indicates the configured encoding name is unknown.
// It is a configuration error, reported once before any input is read.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Metric identifies one of the countable quantities.
type Metric int

const (
	// Lines counts newline bytes (the traditional wc -l convention).
	Lines Metric = iota
	// Words counts maximal runs of non-whitespace bytes.
	Words
	// Chars counts decoded characters under the configured encoding.
	Chars
	// Bytes counts the raw byte length of the input.
	Bytes
)

// String returns the metric's name.
func (m Metric) String() string {
	switch m {
	case Lines:
		return "lines"
	case Words:
		return "words"
	case Chars:
		return "chars"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// All lists every metric in canonical output order.
var All = Set{Lines, Words, Chars, Bytes}

// Default is the metric set used when the caller requests none,
// mirroring the reference tool's default of lines, words, and bytes.
var Default = Set{Lines, Words, Bytes}

// Set is a selection of requested metrics.
type Set []Metric

// Contains reports whether m is in the set.
func (s Set) Contains(m Metric) bool {
	for _, v := range s {
		if v == m {
			return true
		}
	}
	return false
}

// Result holds the totals produced by one counting operation. All counts
// are non-negative; a Result is never mutated after Count returns it.
type Result struct {
	Lines int64
	Words int64
	Chars int64
	Bytes int64
}

// Get projects a single metric's value from the result.
func (r Result) Get(m Metric) int64 {
	switch m {
	case Lines:
		return r.Lines
	case Words:
		return r.Words
	case Chars:
		return r.Chars
	case Bytes:
		return r.Bytes
	default:
		return 0
	}
}

// Add accumulates another result into r, used for multi-input totals.
func (r *Result) Add(other Result) {
	r.Lines += other.Lines
	r.Words += other.Words
	r.Chars += other.Chars
	r.Bytes += other.Bytes
}

// Config holds the immutable settings for a counting engine.
type Config struct {
	// ChunkSize is the number of bytes per read; 0 reads the whole input
	// in one shot.
	ChunkSize int

	// Encoding is the text encoding name used for character counting,
	// e.g. "utf-8" or "latin1". Empty defaults to UTF-8.
	Encoding string

	// UnicodeWords selects full Unicode whitespace classification for word
	// splitting instead of the default ASCII classification.
	UnicodeWords bool
}

// Engine selects and runs counting strategies for one configuration.
// It holds no per-input state and may be reused across inputs.
type Engine struct {
	cfg Config
	enc encoding.Encoding
}

// New creates an Engine, resolving the configured encoding name once.
// An unknown encoding is rejected here so that a constructed Engine never
// fails on encoding grounds mid-stream.
func New(cfg Config) (*Engine, error) {
	if cfg.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk size must be non-negative, got %d", cfg.ChunkSize)
	}

	name := cfg.Encoding
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, cfg.Encoding)
	}

	slog.Debug("counting engine created", "chunkSize", cfg.ChunkSize, "encoding", name)
	return &Engine{cfg: cfg, enc: enc}, nil
}

// Count computes the requested metrics over src in a single pass.
//
// An empty set selects the default metrics (lines, words, bytes). A set of
// exactly one metric dispatches to that metric's dedicated counter, which
// skips unrelated work — counting bytes alone never decodes text, and for a
// regular file never reads it at all. Two or more metrics run fused in one
// traversal; the returned Result then carries all four totals so callers
// can aggregate across inputs, projecting the requested subset themselves.
func (e *Engine) Count(ctx context.Context, src io.Reader, metrics Set) (Result, error) {
	if len(metrics) == 0 {
		metrics = Default
	}

	if len(metrics) == 1 {
		m := metrics[0]
		slog.Debug("dispatching single-metric counter", "metric", m.String())
		var (
			res Result
			err error
		)
		switch m {
		case Lines:
			res.Lines, err = e.countLines(ctx, src)
		case Words:
			res.Words, err = e.countWords(ctx, src)
		case Chars:
			res.Chars, err = e.countChars(ctx, src)
		case Bytes:
			res.Bytes, err = e.countBytes(ctx, src)
		default:
			return Result{}, fmt.Errorf("unknown metric %d", int(m))
		}
		if err != nil {
			return Result{}, err
		}
		return res, nil
	}

	slog.Debug("dispatching multi-metric counter", "metrics", len(metrics))
	return e.countAll(ctx, src)
}

// newChunkReader builds the chunk stream all counters consume.
func (e *Engine) newChunkReader(src io.Reader) *chunk.Reader {
	return chunk.NewReader(src, e.cfg.ChunkSize)
}
