package parser

import "strings"

const (
	tokInclude = "%include"
	tokDefine  = "%define"
)

// IncludeResolver resolves a %include target to its full textual
// contents. The default (filesystem) resolver lives in the loader
// package; Load accepts any implementation.
type IncludeResolver func(name string) (string, error)

// Preprocess expands %include/%define directives to a fixed point and
// returns the expanded source plus the accumulated define map. defines
// starts empty and is mutated in place; it is discarded by the caller
// once the lexer has consumed it.
func Preprocess(src string, defines map[string]string, resolve IncludeResolver) (string, *PreprocessingError) {
	for {
		expanded, changedInclude, err := processOneDirective(src, tokInclude, func(line string) (string, *PreprocessingError) {
			content, cerr := resolve(line)
			if cerr != nil {
				return "", &PreprocessingError{Kind: FailedInclude, Name: line, Cause: cerr}
			}
			return content, nil
		})
		if err != nil {
			return "", err
		}
		src = expanded

		expanded, changedDefine, err := processOneDirective(src, tokDefine, func(line string) (string, *PreprocessingError) {
			if perr := parseDefine(line, defines); perr != nil {
				return "", perr
			}
			return "\n", nil
		})
		if err != nil {
			return "", err
		}
		src = expanded

		if !changedInclude && !changedDefine {
			return src, nil
		}
	}
}

// processOneDirective finds the first occurrence of directive anywhere
// in src, slices out its line (directive token through end-of-line or
// end-of-source), computes a replacement via replace, and splices the
// replacement in place of the whole line (including its terminating
// newline). It processes at most one occurrence per call.
func processOneDirective(src, directive string, replace func(line string) (string, *PreprocessingError)) (string, bool, *PreprocessingError) {
	start := strings.Index(src, directive)
	if start == -1 {
		return src, false, nil
	}

	rest := src[start+len(directive):]
	endOffset := strings.IndexByte(rest, '\n')
	var end int
	if endOffset == -1 {
		end = len(src)
	} else {
		end = start + len(directive) + endOffset
	}

	line := strings.TrimSpace(src[start+len(directive) : end])

	replacement, err := replace(line)
	if err != nil {
		return "", false, err
	}

	lineEnd := end
	if lineEnd < len(src) {
		lineEnd++ // consume the terminating newline
	}

	return src[:start] + replacement + src[lineEnd:], true, nil
}

// parseDefine parses "KEY VALUE" out of a trimmed %define directive line
// and records it in defines, or fails per spec.md's three error kinds.
func parseDefine(line string, defines map[string]string) *PreprocessingError {
	if line == "" {
		return &PreprocessingError{Kind: EmptyDefine}
	}

	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx == -1 {
		return &PreprocessingError{Kind: DefineWithoutValue, Name: line}
	}

	key := line[:spaceIdx]
	value := strings.TrimSpace(line[spaceIdx+1:])

	if existing, ok := defines[key]; ok {
		return &PreprocessingError{Kind: DuplicateDefine, Name: key, Original: existing, New: value}
	}
	defines[key] = value
	return nil
}
