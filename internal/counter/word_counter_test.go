package counter

import (
	"context"
	"strings"
	"testing"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"empty input", "", 0},
		{"single word", "hello", 1},
		{"two words", "hello world", 2},
		{"leading and trailing whitespace", "  hello   world  ", 2},
		{"only whitespace", " \t\n \r\n  ", 0},
		{"mixed separators", "one\ttwo\nthree\rfour five", 5},
		{"no trailing newline", "foo bar\nbaz", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(t, 4096)
			res, err := eng.Count(context.Background(), strings.NewReader(tt.input), Set{Words})
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if res.Words != tt.expected {
				t.Errorf("got %d words, want %d", res.Words, tt.expected)
			}
		})
	}
}

// The word count must not depend on where chunk boundaries fall: a word
// split between two chunks is one word, not two.
func TestCountWordsChunkSizeInvariant(t *testing.T) {
	inputs := []string{
		"hello world",
		"foo bar\nbaz\n",
		"   leading spaces",
		"trailing spaces   ",
		"a b c d e f g h",
		"oneverylongtokenwithoutanywhitespace",
		"\t\t\t",
		"interleaved \t spaces \n and \r words",
	}

	for _, input := range inputs {
		reference := int64(len(strings.Fields(input)))
		for _, size := range []int{1, 2, 3, 7, 4096, 0} {
			eng := newTestEngine(t, size)
			res, err := eng.Count(context.Background(), strings.NewReader(input), Set{Words})
			if err != nil {
				t.Fatalf("input %q, chunk size %d: %v", input, size, err)
			}
			if res.Words != reference {
				t.Errorf("input %q, chunk size %d: got %d words, want %d",
					input, size, res.Words, reference)
			}
		}
	}
}

// "hello world" read as "hello wo" + "rld" is the canonical split-word
// case: the straddling token must be counted once.
func TestCountWordsBoundaryCorrection(t *testing.T) {
	state := newWordState(false)
	total := state.count([]byte("hello wo"))
	total += state.count([]byte("rld"))
	if total != 2 {
		t.Errorf("got %d words, want 2", total)
	}
}

// An all-whitespace chunk contributes nothing but must still update the
// carried boundary state, or the next chunk's first word would be merged
// into the previous one.
func TestCountWordsAllWhitespaceChunk(t *testing.T) {
	state := newWordState(false)
	total := state.count([]byte("one"))
	total += state.count([]byte("   "))
	total += state.count([]byte("two"))
	if total != 2 {
		t.Errorf("got %d words, want 2", total)
	}
}

// Unicode classification must be chunk-size independent too: a multi-byte
// whitespace rune split across a chunk boundary still separates the words
// around it once its bytes are stitched back together.
func TestCountWordsUnicodeChunkSizeInvariant(t *testing.T) {
	inputs := []string{
		"foo bar",              // 2-byte no-break space
		"one two three",   // 3-byte line and paragraph separators
		"wide　ideographic gap", // 3-byte ideographic space
		"  padded ",  // leading and trailing multi-byte spaces
		"plain ascii words",
	}

	for _, input := range inputs {
		reference := int64(len(strings.Fields(input)))
		for _, size := range []int{1, 2, 3, 4, 5, 4096, 0} {
			eng, err := New(Config{ChunkSize: size, UnicodeWords: true})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			res, err := eng.Count(context.Background(), strings.NewReader(input), Set{Words})
			if err != nil {
				t.Fatalf("input %q, chunk size %d: %v", input, size, err)
			}
			if res.Words != reference {
				t.Errorf("input %q, chunk size %d: got %d words, want %d",
					input, size, res.Words, reference)
			}
		}
	}
}

// A rune truncated by end of stream is ill-formed content, not silently
// dropped state: it still starts a word after whitespace.
func TestCountWordsUnicodeTruncatedTrailingRune(t *testing.T) {
	// "日" is 0xE6 0x97 0xA5; cut off the last byte
	input := "a " + string([]byte{0xE6, 0x97})

	for _, size := range []int{1, 2, 3, 4096, 0} {
		eng, err := New(Config{ChunkSize: size, UnicodeWords: true})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res, err := eng.Count(context.Background(), strings.NewReader(input), Set{Words})
		if err != nil {
			t.Fatalf("chunk size %d: %v", size, err)
		}
		if res.Words != 2 {
			t.Errorf("chunk size %d: got %d words, want 2", size, res.Words)
		}
	}
}

func TestCountWordsUnicodeClassification(t *testing.T) {
	// U+00A0 (no-break space) is whitespace to unicode.IsSpace but not to
	// the ASCII classifier
	input := "foo bar"

	tests := []struct {
		name     string
		unicode  bool
		expected int64
	}{
		{"ascii whitespace", false, 1},
		{"unicode whitespace", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(Config{ChunkSize: 4096, UnicodeWords: tt.unicode})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			res, err := eng.Count(context.Background(), strings.NewReader(input), Set{Words})
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if res.Words != tt.expected {
				t.Errorf("got %d words, want %d", res.Words, tt.expected)
			}
		})
	}
}
