package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/tally/internal/app"
	"github.com/chriscorrea/tally/internal/chunk"
	"github.com/chriscorrea/tally/internal/counter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// exit codes follow the shell convention for interrupted processes
const (
	exitFailure   = 1
	exitInterrupt = 130
)

// buildConfig constructs an app.Config from command flags and arguments
func buildConfig(cmd *cobra.Command, args []string) (app.Config, error) {
	// get flag values
	linesFlag, _ := cmd.Flags().GetBool("lines")
	wordsFlag, _ := cmd.Flags().GetBool("words")
	charsFlag, _ := cmd.Flags().GetBool("chars")
	bytesFlag, _ := cmd.Flags().GetBool("bytes")
	bufferSize, _ := cmd.Flags().GetInt("buffer-size")
	encodingName, _ := cmd.Flags().GetString("encoding")
	unicodeWords, _ := cmd.Flags().GetBool("unicode-words")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	if bufferSize < 0 {
		return app.Config{}, fmt.Errorf("buffer size must be non-negative, got %d", bufferSize)
	}

	// collect requested metrics in canonical order; none means the
	// default set (lines, words, bytes), resolved inside the engine
	var metrics counter.Set
	if linesFlag {
		metrics = append(metrics, counter.Lines)
	}
	if wordsFlag {
		metrics = append(metrics, counter.Words)
	}
	if charsFlag {
		metrics = append(metrics, counter.Chars)
	}
	if bytesFlag {
		metrics = append(metrics, counter.Bytes)
	}

	// use positional arguments as input paths; none means standard input
	var paths []string
	if len(args) == 0 {
		paths = append(paths, "-")
	} else {
		paths = args
	}

	// return constructed config
	return app.Config{
		Paths:        paths,
		Metrics:      metrics,
		BufferSize:   bufferSize,
		Encoding:     encodingName,
		UnicodeWords: unicodeWords,
		Quiet:        quiet,
		Debug:        debug,
	}, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "tally [files...]",
	Short: "A CLI tool for counting lines, words, characters, and bytes",
	Long: `Tally counts lines, words, characters, and bytes in files or standard input, streaming arbitrarily large inputs in a single pass with bounded memory.

Examples:
  tally file.txt
  tally -l -w file.txt other.txt
  cat content.txt | tally -m --encoding utf-8`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// build config from flags and arguments
		config, err := buildConfig(cmd, args)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// configure logging pending debug flag
		setupLogger(config.Debug)

		// when counting an interactive terminal, say so rather than
		// appearing to hang
		if len(args) == 0 && !config.Quiet && term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "tally: reading from standard input; press Ctrl-D to finish")
		}

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// run the app!
		return app.Run(ctx, config, os.Stdout, os.Stderr)
	},
}

func init() {
	// metric flags; any combination is allowed
	rootCmd.Flags().BoolP("lines", "l", false, "Count newline characters")
	rootCmd.Flags().BoolP("words", "w", false, "Count whitespace-delimited words")
	rootCmd.Flags().BoolP("chars", "m", false, "Count characters under the selected encoding")
	rootCmd.Flags().BoolP("bytes", "c", false, "Count bytes")

	// streaming options
	rootCmd.Flags().Int("buffer-size", chunk.DefaultSize, "Bytes per read; 0 reads each input in one shot")
	rootCmd.Flags().String("encoding", "utf-8", "Text encoding for character counting")
	rootCmd.Flags().Bool("unicode-words", false, "Use Unicode whitespace classification for word splitting")
	_ = rootCmd.Flags().MarkHidden("unicode-words")

	// other flags
	rootCmd.Flags().BoolP("quiet", "q", false, "Suppress informational messages")
	rootCmd.Flags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.Flags().MarkHidden("debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			os.Exit(exitInterrupt)
		case errors.Is(err, app.ErrInputFailed):
			// per-input diagnostics were already printed
			os.Exit(exitFailure)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitFailure)
		}
	}
}
