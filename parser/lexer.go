package parser

import "strings"

// Lex splits expanded source into one token slice per line. Comments
// (from the first '#' to end of line) are stripped, CRLF line endings
// are normalized to LF, tokens are split on space/tab/comma, and any
// token matching a %define key is replaced with its expansion. Lines
// that are blank or comment-only appear as empty token slices,
// preserving per-line positional semantics for later error reporting.
func Lex(src string, defines map[string]string) [][]string {
	rawLines := strings.Split(src, "\n")
	lines := make([][]string, len(rawLines))

	for i, raw := range rawLines {
		line := strings.TrimSuffix(raw, "\r")

		if idx := strings.IndexByte(line, '#'); idx != -1 {
			line = line[:idx]
		}

		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})

		for j, tok := range tokens {
			if replacement, ok := defines[tok]; ok {
				tokens[j] = replacement
			}
		}

		lines[i] = tokens
	}

	return lines
}
