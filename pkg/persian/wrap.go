package persian

import (
	"fmt"
	"os"
	"strings"
)

// MaxLineChars is the character budget per rendered lyric line.
const MaxLineChars = 32

// BreakLine splits a logical-order line into display-order lines no
// longer than maxChars. Words fill a bucket greedily; a word that would
// overflow starts the next line.
func BreakLine(line string, maxChars int) []string {
	if len([]rune(line)) <= maxChars {
		return []string{Shape(line)}
	}

	words := strings.Fields(line)
	var bucket []string
	var lines []string

	bucketLen := func() int {
		n := 0
		for _, w := range bucket {
			n += len([]rune(w))
		}
		return n
	}

	for _, word := range words {
		if bucketLen()+len(bucket)+len([]rune(word)) > maxChars && len(bucket) > 0 {
			lines = append(lines, Shape(strings.Join(bucket, " ")))
			bucket = []string{word}
		} else {
			bucket = append(bucket, word)
		}
	}
	if len(bucket) > 0 {
		lines = append(lines, Shape(strings.Join(bucket, " ")))
	}
	return lines
}

// FormatLyricsFile reads a UTF-8 lyrics file, drops blank lines, and
// returns every remaining line wrapped and shaped for display.
func FormatLyricsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics file: %w", err)
	}
	return FormatLyrics(string(data))
}

// FormatLyrics wraps and shapes raw lyric text.
func FormatLyrics(raw string) ([]string, error) {
	var formatted []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		formatted = append(formatted, BreakLine(trimmed, MaxLineChars)...)
	}
	if len(formatted) == 0 {
		return nil, fmt.Errorf("no lyric lines found")
	}
	return formatted, nil
}
