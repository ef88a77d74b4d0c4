// Package app contains the core application logic for the tally CLI tool.
// It handles the per-input counting loop and output formatting separated
// from CLI concerns.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chriscorrea/tally/internal/counter"
	"github.com/chriscorrea/tally/internal/fetch"
)

// ErrInputFailed reports that one or more inputs could not be counted.
// The per-input diagnostics have already been written to the error stream
// by the time Run returns it.
var ErrInputFailed = errors.New("some inputs could not be counted")

// Config holds all configuration options for the tally application.
type Config struct {
	Paths        []string    // input file paths; "-" means standard input
	Metrics      counter.Set // requested metrics; empty selects the default set
	BufferSize   int         // bytes per read; 0 reads each input in one shot
	Encoding     string      // text encoding name for character counting
	UnicodeWords bool        // Unicode whitespace classification for words
	Quiet        bool        // suppress informational messages
	Debug        bool
}

// Run executes the main tally application logic with the given
// configuration, writing one result row per input to stdout and
// diagnostics to stderr.
//
// Each input is processed start-to-finish before the next begins. A file
// that cannot be opened or read is reported and skipped; the batch
// continues and the skipped file contributes nothing to the totals. An
// unsupported encoding is a configuration error and fails before any input
// is touched. When more than one path is given, a final row sums every
// metric across the inputs that counted successfully.
//
// ctx cancellation (such as an interrupt) aborts the batch immediately.
func Run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	eng, err := counter.New(counter.Config{
		ChunkSize:    cfg.BufferSize,
		Encoding:     cfg.Encoding,
		UnicodeWords: cfg.UnicodeWords,
	})
	if err != nil {
		return err
	}

	metrics := cfg.Metrics
	if len(metrics) == 0 {
		metrics = counter.Default
	}

	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{fetch.StdinName}
	}

	var total counter.Result
	failed := 0
	for _, path := range paths {
		res, err := countOne(ctx, eng, path, metrics)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(stderr, "tally: %v\n", err)
			failed++
			continue
		}
		total.Add(res)
		writeRow(stdout, res, metrics, displayName(path))
	}

	if len(paths) > 1 {
		writeRow(stdout, total, metrics, "total")
	}

	if failed > 0 {
		slog.Debug("batch finished with failures", "failed", failed, "inputs", len(paths))
		return ErrInputFailed
	}
	return nil
}

// countOne counts a single input, owning its handle for the duration.
func countOne(ctx context.Context, eng *counter.Engine, path string, metrics counter.Set) (counter.Result, error) {
	src, err := fetch.GetContent(path)
	if err != nil {
		return counter.Result{}, err
	}
	defer src.Close()

	res, err := eng.Count(ctx, src, metrics)
	if err != nil {
		return counter.Result{}, fmt.Errorf("reading %s: %w", displayName(path), err)
	}
	return res, nil
}

// displayName is the name shown in output rows and diagnostics; standard
// input has none.
func displayName(path string) string {
	if path == fetch.StdinName {
		return ""
	}
	return path
}

// writeRow prints one result row: the requested metrics' values in
// canonical order (lines, words, chars, bytes), space-separated behind a
// leading space, followed by the input name when there is one.
func writeRow(w io.Writer, res counter.Result, metrics counter.Set, name string) {
	var b strings.Builder
	for _, m := range counter.All {
		if !metrics.Contains(m) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(res.Get(m), 10))
	}
	if name != "" {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	fmt.Fprintln(w, b.String())
}
