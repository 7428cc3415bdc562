// ABOUTME: Lyrics line tokenization and phrase window generation
// ABOUTME: Tokens are word runs or single punctuation symbols
package core

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxWindow is the longest phrase, in tokens, scored against a tag
const MaxWindow = 3

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]`)

// Window is a contiguous run of tokens. End is inclusive.
type Window struct {
	Phrase string
	Start  int
	End    int
}

// Tokenize splits a line into word tokens and standalone punctuation
func Tokenize(line string) []string {
	return tokenPattern.FindAllString(line, -1)
}

// Windows returns every window of 1..MaxWindow tokens that contains at least
// one word character, ordered by start position then length.
func Windows(tokens []string) []Window {
	var windows []Window
	for i := range tokens {
		for length := 1; length <= MaxWindow && i+length <= len(tokens); length++ {
			span := tokens[i : i+length]
			if !hasWordChar(span) {
				continue
			}
			windows = append(windows, Window{
				Phrase: strings.Join(span, " "),
				Start:  i,
				End:    i + length - 1,
			})
		}
	}
	return windows
}

func hasWordChar(tokens []string) bool {
	for _, tok := range tokens {
		for _, r := range tok {
			if r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
				return true
			}
		}
	}
	return false
}

// SplitLines returns the trimmed, non-blank lines of a lyrics text
func SplitLines(lyrics string) []string {
	var lines []string
	for _, line := range strings.Split(lyrics, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
